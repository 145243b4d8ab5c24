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
// a longest-match preprocessing-token lexer with header-name/string
// disambiguation, generalized from the teacher's
// language/internal/cc/lexer rule-table design (rules.go/lexer.go),
// resolving spec.md section 9 open question (a) in favor of that
// fuller, rule-table-driven copy over the narrower lexer/token.go one.
package lexer

import (
	"github.com/josharian/intern"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/source"
)

// Token is a single preprocessing-token, spec.md section 3 "Token".
type Token struct {
	Kind     cctoken.Kind
	Spelling string
	Range    source.Range

	Punctuator cctoken.PunctuatorKind // valid iff Kind == Punctuator
	Keyword    cctoken.KeywordKind    // valid iff Kind == Keyword (set in phase 7)

	HeaderKind   cctoken.HeaderNameKind // valid iff Kind == HeaderName
	StringPrefix cctoken.StringPrefix   // valid iff Kind == StringLiteral
	CharPrefix   cctoken.CharPrefix     // valid iff Kind == CharacterConstant

	// Blue marks a token ineligible for further macro replacement
	// (spec.md section 4.6 "Rescan and hygiene").
	Blue bool
}

// internSpelling interns recurring token spellings (identifiers, macro
// names, repeated keywords and punctuators) to cut allocation during
// macro-heavy rescans; spec.md section 3 already treats a token's
// spelling as an immutable view, which is exactly what interning
// requires.
func internSpelling(s string) string {
	return intern.String(s)
}

// IsWhitespaceLike reports whether the token is a space or newline
// token, the two kinds phase 7 drops before parsing (spec.md 4.7).
func (t Token) IsWhitespaceLike() bool {
	return t.Kind == cctoken.Space || t.Kind == cctoken.Newline
}
