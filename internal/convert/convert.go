// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package convert implements spec.md section 4.7, phases 5-7: adjacent
// string-literal concatenation, pp-token-to-token conversion
// (keyword/integer-constant/floating-constant reclassification), and
// whitespace dropping, grounded on the teacher's phase-shaped package
// split (internal/ppphase) generalized from line-splicing/encoding
// concerns to token-finalization ones.
package convert

import (
	"regexp"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

// Finalize runs phases 5-7 over toks (the output of phase 4, internal/pp)
// and returns the finished token stream ready for internal/parse:
// adjacent string literals concatenated, pp-numbers and identifiers
// reclassified, whitespace dropped.
func Finalize(toks []lexer.Token, sink *diag.Sink) []lexer.Token {
	toks = concatenateStringLiterals(toks, sink)
	out := make([]lexer.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.IsWhitespaceLike() {
			continue
		}
		out = append(out, convertOne(tok, sink))
	}
	return out
}

// integerConstantRE and floatingConstantRE implement [6.4.4.1]/1 and
// [6.4.4.2]/1's grammar as matching regexes over a pp-number's
// spelling, the "pp-numbers match integer-constant or
// floating-constant regexes" rule spec.md section 4.7 names.
var (
	integerConstantRE = regexp.MustCompile(
		`^(?:0[xX][0-9a-fA-F]+|0[0-7]*|[1-9][0-9]*)(?:[uU](?:ll|LL|l|L)?|(?:ll|LL|l|L)[uU]?)?$`)
	floatingConstantRE = regexp.MustCompile(
		`^(?:(?:[0-9]*\.[0-9]+|[0-9]+\.[0-9]*|[0-9]+)(?:[eE][+-]?[0-9]+)?[fFlL]?|` +
			`0[xX](?:[0-9a-fA-F]*\.[0-9a-fA-F]+|[0-9a-fA-F]+\.?)[pP][+-]?[0-9]+[fFlL]?)$`)
)

// convertOne reclassifies a single pp-token per [6.4]/1's pp-token ->
// token mapping (phase 7). Punctuator/string-literal/character-constant
// tokens already carry their terminal kind from the lexer and pass
// through unchanged.
func convertOne(tok lexer.Token, sink *diag.Sink) lexer.Token {
	switch tok.Kind {
	case cctoken.Identifier:
		if kw, ok := cctoken.KeywordTable[tok.Spelling]; ok {
			tok.Kind = cctoken.Keyword
			tok.Keyword = kw
		}
		return tok
	case cctoken.PPNumber:
		switch {
		case integerConstantRE.MatchString(tok.Spelling):
			tok.Kind = cctoken.IntegerConstant
		case floatingConstantRE.MatchString(tok.Spelling):
			tok.Kind = cctoken.FloatingConstant
		default:
			sink.Report(diag.New(diag.TokenConversionFailed, tok.Range.Begin, tok.Spelling))
		}
		return tok
	case cctoken.Punctuator, cctoken.StringLiteral, cctoken.CharacterConstant, cctoken.EOF:
		return tok
	default:
		sink.Report(diag.New(diag.TokenConversionFailed, tok.Range.Begin, tok.Spelling))
		return tok
	}
}
