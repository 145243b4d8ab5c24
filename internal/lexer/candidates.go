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

package lexer

import (
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

// candidate is one matcher's proposed lex at the current position,
// generalizing the teacher's matchingRule/matchingResult pair
// (lexer/rules.go) into a longest-match contest over spec.md section
// 4.5's token kinds instead of the teacher's directive-token kinds.
type candidate struct {
	kind         cctoken.Kind
	length       int
	punct        cctoken.PunctuatorKind
	headerKind   cctoken.HeaderNameKind
	strPrefix    cctoken.StringPrefix
	charPrefix   cctoken.CharPrefix
	diagnose     func(l *Lexer, begin int)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func ucnLen(data []byte) int {
	if len(data) < 2 || data[0] != '\\' {
		return 0
	}
	switch data[1] {
	case 'u':
		if len(data) >= 6 {
			return 6
		}
	case 'U':
		if len(data) >= 10 {
			return 10
		}
	}
	return 0
}

func matchNewline(data []byte) (candidate, bool) {
	if len(data) > 0 && data[0] == '\n' {
		return candidate{kind: cctoken.Newline, length: 1}, true
	}
	return candidate{}, false
}

func matchSpace(data []byte) (candidate, bool) {
	n := 0
	for n < len(data) {
		switch data[n] {
		case ' ', '\t', '\v', '\f', '\r':
			n++
			continue
		}
		break
	}
	if n == 0 {
		return candidate{}, false
	}
	return candidate{kind: cctoken.Space, length: n}, true
}

func matchLineComment(data []byte) (candidate, bool) {
	if len(data) < 2 || data[0] != '/' || data[1] != '/' {
		return candidate{}, false
	}
	n := 2
	for n < len(data) && data[n] != '\n' {
		n++
	}
	return candidate{kind: cctoken.Space, length: n}, true
}

func matchBlockComment(data []byte) (candidate, bool) {
	if len(data) < 2 || data[0] != '/' || data[1] != '*' {
		return candidate{}, false
	}
	n := 2
	for n+1 < len(data) {
		if data[n] == '*' && data[n+1] == '/' {
			return candidate{kind: cctoken.Space, length: n + 2}, true
		}
		n++
	}
	return candidate{
		kind:   cctoken.Space,
		length: len(data),
		diagnose: func(l *Lexer, begin int) {
			loc := source.Location{Buffer: l.buf, Offset: begin}
			l.sink.Report(diag.New(diag.IncompleteBlockComment, loc))
		},
	}, true
}

// forbiddenHeaderSequences scans content for the sequences spec.md
// section 4.5 deems undefined behavior inside a header-name, returning
// a diagnose closure (nil if none found) that reports each one relative
// to the header-name token's starting offset.
func forbiddenHeaderSequences(content []byte, checkQuote bool) func(l *Lexer, begin int) {
	type hit struct {
		offset int
		text   string
	}
	var hits []hit
	for i := 0; i < len(content); i++ {
		switch {
		case content[i] == '\'':
			hits = append(hits, hit{i, "'"})
		case checkQuote && content[i] == '"':
			hits = append(hits, hit{i, `"`})
		case content[i] == '\\':
			hits = append(hits, hit{i, `\`})
		case i+1 < len(content) && content[i] == '/' && content[i+1] == '/':
			hits = append(hits, hit{i, "//"})
			i++
		case i+1 < len(content) && content[i] == '/' && content[i+1] == '*':
			hits = append(hits, hit{i, "/*"})
			i++
		}
	}
	if len(hits) == 0 {
		return nil
	}
	return func(l *Lexer, begin int) {
		for _, h := range hits {
			loc := source.Location{Buffer: l.buf, Offset: begin + 1 + h.offset}
			l.sink.Report(diag.New(diag.UndefCharInHeaderName, loc, h.text))
		}
	}
}

func matchHeaderName(data []byte) (candidate, bool) {
	if len(data) < 2 {
		return candidate{}, false
	}
	switch data[0] {
	case '"':
		for i := 1; i < len(data); i++ {
			if data[i] == '\n' {
				return candidate{}, false
			}
			if data[i] == '"' {
				return candidate{
					kind:       cctoken.HeaderName,
					length:     i + 1,
					headerKind: cctoken.HeaderQuote,
					diagnose:   forbiddenHeaderSequences(data[1:i], false),
				}, true
			}
		}
		return candidate{}, false
	case '<':
		for i := 1; i < len(data); i++ {
			if data[i] == '\n' {
				return candidate{}, false
			}
			if data[i] == '>' {
				return candidate{
					kind:       cctoken.HeaderName,
					length:     i + 1,
					headerKind: cctoken.HeaderAngle,
					diagnose:   forbiddenHeaderSequences(data[1:i], true),
				}, true
			}
		}
		return candidate{}, false
	}
	return candidate{}, false
}

func matchPPNumber(data []byte) (candidate, bool) {
	if len(data) == 0 {
		return candidate{}, false
	}
	i := 0
	switch {
	case isDigit(data[0]):
		i = 1
	case data[0] == '.' && len(data) > 1 && isDigit(data[1]):
		i = 2
	default:
		return candidate{}, false
	}
	for i < len(data) {
		c := data[i]
		if (c == 'e' || c == 'E' || c == 'p' || c == 'P') && i+1 < len(data) &&
			(data[i+1] == '+' || data[i+1] == '-') {
			i += 2
			continue
		}
		if n := ucnLen(data[i:]); n > 0 {
			i += n
			continue
		}
		if isIdentCont(c) || c == '.' {
			i++
			continue
		}
		break
	}
	return candidate{kind: cctoken.PPNumber, length: i}, true
}

func matchIdentifier(data []byte) (candidate, bool) {
	if len(data) == 0 {
		return candidate{}, false
	}
	i := 0
	if n := ucnLen(data); n > 0 {
		i = n
	} else if isIdentStart(data[0]) {
		i = 1
	} else {
		return candidate{}, false
	}
	for i < len(data) {
		if n := ucnLen(data[i:]); n > 0 {
			i += n
			continue
		}
		if isIdentCont(data[i]) {
			i++
			continue
		}
		break
	}
	return candidate{kind: cctoken.Identifier, length: i}, true
}

var stringPrefixes = []struct {
	spelling string
	kind     cctoken.StringPrefix
}{
	{"u8", cctoken.PrefixU8},
	{"u", cctoken.Prefixu},
	{"U", cctoken.PrefixU},
	{"L", cctoken.PrefixL},
}

func matchQuoted(data []byte, quote byte) (int, bool) {
	n := 0
	for n < len(data) {
		if data[n] == '\n' {
			return 0, false
		}
		if data[n] == '\\' && n+1 < len(data) && data[n+1] != '\n' {
			n += 2
			continue
		}
		if data[n] == quote {
			return n + 1, true
		}
		n++
	}
	return 0, false
}

func matchStringLiteral(data []byte) (candidate, bool) {
	prefixLen := 0
	prefix := cctoken.PrefixNone
	for _, p := range stringPrefixes {
		if len(data) > len(p.spelling) && string(data[:len(p.spelling)]) == p.spelling && data[len(p.spelling)] == '"' {
			prefixLen = len(p.spelling)
			prefix = p.kind
			break
		}
	}
	if prefixLen == 0 && (len(data) == 0 || data[0] != '"') {
		return candidate{}, false
	}
	body := data[prefixLen:]
	if len(body) == 0 || body[0] != '"' {
		return candidate{}, false
	}
	n, ok := matchQuoted(body[1:], '"')
	if !ok {
		return candidate{}, false
	}
	return candidate{kind: cctoken.StringLiteral, length: prefixLen + 1 + n, strPrefix: prefix}, true
}

var charPrefixes = []struct {
	spelling string
	kind     cctoken.CharPrefix
}{
	{"L", cctoken.CharPrefixL},
	{"u", cctoken.CharPrefixu},
	{"U", cctoken.CharPrefixU},
}

func matchCharacterConstant(data []byte) (candidate, bool) {
	prefixLen := 0
	prefix := cctoken.CharPrefixNone
	for _, p := range charPrefixes {
		if len(data) > len(p.spelling) && string(data[:len(p.spelling)]) == p.spelling && data[len(p.spelling)] == '\'' {
			prefixLen = len(p.spelling)
			prefix = p.kind
			break
		}
	}
	if prefixLen == 0 && (len(data) == 0 || data[0] != '\'') {
		return candidate{}, false
	}
	body := data[prefixLen:]
	if len(body) == 0 || body[0] != '\'' {
		return candidate{}, false
	}
	n, ok := matchQuoted(body[1:], '\'')
	if !ok {
		return candidate{}, false
	}
	return candidate{kind: cctoken.CharacterConstant, length: prefixLen + 1 + n, charPrefix: prefix}, true
}

func matchPunctuator(data []byte) (candidate, bool) {
	max := cctoken.MaxPunctuatorLength
	if max > len(data) {
		max = len(data)
	}
	for n := max; n >= 1; n-- {
		if kind, ok := cctoken.PunctuatorTable[string(data[:n])]; ok {
			return candidate{kind: cctoken.Punctuator, length: n, punct: kind}, true
		}
	}
	return candidate{}, false
}
