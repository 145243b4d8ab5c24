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

package convert

import (
	"strings"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

// concatenateStringLiterals implements phase 6, [5.1.1.2]/1/6: adjacent
// string-literal tokens (separated only by whitespace/newline tokens)
// are grouped and joined into one string-literal token with the
// group's "strongest" encoding prefix. Groups mixing a UTF-8 (`u8`)
// prefix with any wide (`L`/`u`/`U`) prefix, or mixing two different
// wide prefixes, diagnose StringLiteralPrefixClash per spec.md section
// 4.7; the group's bodies are still joined into one token under the
// first token's prefix, so the rest of the pipeline has something to
// work with.
func concatenateStringLiterals(toks []lexer.Token, sink *diag.Sink) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		if toks[i].Kind != cctoken.StringLiteral {
			out = append(out, toks[i])
			i++
			continue
		}
		group := []lexer.Token{toks[i]}
		j := i + 1
		for {
			k := j
			for k < len(toks) && toks[k].IsWhitespaceLike() {
				k++
			}
			if k < len(toks) && toks[k].Kind == cctoken.StringLiteral {
				group = append(group, toks[k])
				j = k + 1
				continue
			}
			break
		}
		out = append(out, joinStringGroup(group, sink))
		i = j
	}
	return out
}

func joinStringGroup(group []lexer.Token, sink *diag.Sink) lexer.Token {
	if len(group) == 1 {
		return group[0]
	}

	prefix, ok := strongestPrefix(group)
	if !ok {
		sink.Report(diag.New(diag.StringLiteralPrefixClash, group[0].Range.Begin))
		prefix = group[0].StringPrefix
	}

	var body strings.Builder
	for _, tok := range group {
		body.WriteString(stringLiteralBody(tok.Spelling))
	}

	result := group[0]
	result.StringPrefix = prefix
	result.Range.End = group[len(group)-1].Range.End
	result.Spelling = prefixSpelling(prefix) + `"` + body.String() + `"`
	return result
}

// stringLiteralBody strips the encoding prefix and surrounding quotes
// from a string-literal token's spelling, leaving its escape sequences
// untouched (phase 6 concatenates spellings; decoding them to a value
// is outside this spec's scope, [5.1.1.2] note).
func stringLiteralBody(spelling string) string {
	start := strings.IndexByte(spelling, '"')
	end := strings.LastIndexByte(spelling, '"')
	if start < 0 || end <= start {
		return ""
	}
	return spelling[start+1 : end]
}

func prefixSpelling(p cctoken.StringPrefix) string {
	switch p {
	case cctoken.PrefixU8:
		return "u8"
	case cctoken.Prefixu:
		return "u"
	case cctoken.PrefixU:
		return "U"
	case cctoken.PrefixL:
		return "L"
	default:
		return ""
	}
}

// strongestPrefix computes the joint encoding prefix of group per
// [6.4.5]/5: a UTF-8 prefix may not coexist with any wide prefix, and
// at most one kind of wide prefix may appear; ok is false when either
// rule is violated.
func strongestPrefix(group []lexer.Token) (cctoken.StringPrefix, bool) {
	sawU8 := false
	var wide cctoken.StringPrefix = cctoken.PrefixNone
	for _, tok := range group {
		switch tok.StringPrefix {
		case cctoken.PrefixNone:
			continue
		case cctoken.PrefixU8:
			sawU8 = true
		default:
			if wide != cctoken.PrefixNone && wide != tok.StringPrefix {
				return cctoken.PrefixNone, false
			}
			wide = tok.StringPrefix
		}
	}
	if sawU8 && wide != cctoken.PrefixNone {
		return cctoken.PrefixNone, false
	}
	if wide != cctoken.PrefixNone {
		return wide, true
	}
	if sawU8 {
		return cctoken.PrefixU8, true
	}
	return cctoken.PrefixNone, true
}
