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

// Package lexer implements translation phase 3 of spec.md section 4.5:
// a longest-match preprocessing-token lexer over a phase-2 source.Buffer,
// generalizing the teacher's rule-table Lexer (lexer/lexer.go,
// lexer/rules.go) from its narrow directive/operator token set to the
// full preprocessing-token kind set of spec.md section 3, and
// replacing its raw-[]byte cursor with source.Buffer-backed locations
// so every token keeps its fragment-table provenance.
package lexer

import (
	"iter"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

// lineState tracks the "#include" recognition pattern spec.md section
// 4.5 requires to enable the header-name matcher only where a
// directive actually permits one: a '#' at the start of a logical
// line, optional whitespace, then the identifier "include".
type lineState int

const (
	lineStart lineState = iota
	afterHash
	afterInclude
	lineOther
)

// Lexer runs translation phase 3 over a phase-2 buffer.
type Lexer struct {
	buf   *source.Buffer
	data  []byte
	pos   int
	sink  *diag.Sink
	state lineState
}

// New constructs a Lexer over buf, reporting diagnostics to sink.
func New(buf *source.Buffer, sink *diag.Sink) *Lexer {
	return &Lexer{buf: buf, data: buf.Data(), sink: sink, state: lineStart}
}

// significantMatchers are tried in order; the single-byte "other"
// fallback is used only when none of these match, so a tie between a
// real classification and the fallback never arises.
var significantMatchers = []func([]byte) (candidate, bool){
	matchNewline,
	matchSpace,
	matchLineComment,
	matchBlockComment,
	matchPPNumber,
	matchIdentifier,
	matchStringLiteral,
	matchCharacterConstant,
	matchPunctuator,
}

func (lx *Lexer) headerNameEnabled() bool { return lx.state == afterInclude }

// NextToken lexes and returns the next token, advancing the lexer.
// Once the buffer is exhausted, NextToken returns an EOF-kind token
// forever.
func (lx *Lexer) NextToken() Token {
	if lx.pos >= len(lx.data) {
		return Token{Kind: cctoken.EOF, Range: lx.rangeFrom(lx.pos, 0)}
	}
	data := lx.data[lx.pos:]

	var candidates []candidate
	if lx.headerNameEnabled() {
		if c, ok := matchHeaderName(data); ok {
			candidates = append(candidates, c)
		}
	}
	for _, m := range significantMatchers {
		if c, ok := m(data); ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return lx.emitOther(data)
	}

	winner := candidates[0]
	ambiguous := false
	for _, c := range candidates[1:] {
		switch {
		case c.length > winner.length:
			winner, ambiguous = c, false
		case c.length == winner.length:
			if winner.kind == cctoken.HeaderName || c.kind == cctoken.HeaderName {
				// header-name beats a same-length string-literal reading,
				// spec.md section 4.5's disambiguation rule.
				if c.kind == cctoken.HeaderName {
					winner = c
				}
			} else {
				ambiguous = true
			}
		}
	}

	begin := lx.pos
	if ambiguous {
		loc := source.Location{Buffer: lx.buf, Offset: begin}
		lx.sink.Report(diag.New(diag.AmbiguousLex, loc))
	}
	if winner.diagnose != nil {
		winner.diagnose(lx, begin)
	}

	tok := Token{
		Kind:         winner.kind,
		Spelling:     internSpelling(string(data[:winner.length])),
		Range:        lx.rangeFrom(begin, winner.length),
		Punctuator:   winner.punct,
		HeaderKind:   winner.headerKind,
		StringPrefix: winner.strPrefix,
		CharPrefix:   winner.charPrefix,
	}
	lx.pos += winner.length
	lx.advanceState(tok)
	return tok
}

func (lx *Lexer) emitOther(data []byte) Token {
	begin := lx.pos
	if data[0] == '\'' || data[0] == '"' {
		loc := source.Location{Buffer: lx.buf, Offset: begin}
		lx.sink.Report(diag.New(diag.StrayQuote, loc))
	}
	tok := Token{
		Kind:     cctoken.Other,
		Spelling: internSpelling(string(data[:1])),
		Range:    lx.rangeFrom(begin, 1),
	}
	lx.pos++
	lx.advanceState(tok)
	return tok
}

func (lx *Lexer) rangeFrom(begin, length int) source.Range {
	return source.Range{
		Begin: source.Location{Buffer: lx.buf, Offset: begin},
		End:   source.Location{Buffer: lx.buf, Offset: begin + length},
	}
}

// advanceState updates the "#include" recognition state machine after
// emitting tok. Space tokens never change state: whitespace between
// '#' and "include", or between "include" and the header-name, does
// not break the pattern.
func (lx *Lexer) advanceState(tok Token) {
	switch tok.Kind {
	case cctoken.Space:
		return
	case cctoken.Newline:
		lx.state = lineStart
		return
	}
	switch lx.state {
	case lineStart:
		if tok.Kind == cctoken.Punctuator && tok.Punctuator == cctoken.Hash {
			lx.state = afterHash
			return
		}
	case afterHash:
		if tok.Kind == cctoken.Identifier && tok.Spelling == "include" {
			lx.state = afterInclude
			return
		}
	}
	lx.state = lineOther
}

// AllTokens lexes lx to exhaustion, yielding each token in order
// including the terminating EOF token.
func (lx *Lexer) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := lx.NextToken()
			if !yield(tok) {
				return
			}
			if tok.Kind == cctoken.EOF {
				return
			}
		}
	}
}
