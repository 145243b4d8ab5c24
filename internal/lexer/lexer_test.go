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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

func lexAll(t *testing.T, input string) ([]Token, *diag.Sink) {
	t.Helper()
	buf := source.NewRawBuffer("test.c", []byte(input))
	sink := &diag.Sink{}
	var toks []Token
	for tok := range New(buf, sink).AllTokens() {
		if tok.Kind == cctoken.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks, sink
}

func spellings(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Spelling
	}
	return out
}

func kinds(toks []Token) []cctoken.Kind {
	out := make([]cctoken.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestNextTokenKinds(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		kinds    []cctoken.Kind
		spelling []string
	}{
		{
			name:     "operator",
			input:    "&&",
			kinds:    []cctoken.Kind{cctoken.Punctuator},
			spelling: []string{"&&"},
		},
		{
			name:  "directive hash and identifier",
			input: "#define VARIABLE 123",
			kinds: []cctoken.Kind{
				cctoken.Punctuator, cctoken.Identifier, cctoken.Space,
				cctoken.Identifier, cctoken.Space, cctoken.PPNumber,
			},
			spelling: []string{"#", "define", " ", "VARIABLE", " ", "123"},
		},
		{
			name:     "newline",
			input:    "\n\n",
			kinds:    []cctoken.Kind{cctoken.Newline, cctoken.Newline},
			spelling: []string{"\n", "\n"},
		},
		{
			name:     "whitespace run",
			input:    "\t\t abc",
			kinds:    []cctoken.Kind{cctoken.Space, cctoken.Identifier},
			spelling: []string{"\t\t ", "abc"},
		},
		{
			name:     "single line comment collapses to space",
			input:    "// comment\nint",
			kinds:    []cctoken.Kind{cctoken.Space, cctoken.Newline, cctoken.Identifier},
			spelling: []string{"// comment", "\n", "int"},
		},
		{
			name:     "block comment collapses to space",
			input:    "/*\n multi \n*/\nint",
			kinds:    []cctoken.Kind{cctoken.Space, cctoken.Newline, cctoken.Identifier},
			spelling: []string{"/*\n multi \n*/", "\n", "int"},
		},
		{
			name:     "string literal is one token",
			input:    `"a string literal"`,
			kinds:    []cctoken.Kind{cctoken.StringLiteral},
			spelling: []string{`"a string literal"`},
		},
		{
			name:     "identifier with trailing digits",
			input:    "identifier123;",
			kinds:    []cctoken.Kind{cctoken.Identifier, cctoken.Punctuator},
			spelling: []string{"identifier123", ";"},
		},
		{
			name:     "pp-number with exponent sign",
			input:    "1.5e+10f",
			kinds:    []cctoken.Kind{cctoken.PPNumber},
			spelling: []string{"1.5e+10f"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, sink := lexAll(t, tc.input)
			assert.Equal(t, tc.kinds, kinds(toks))
			assert.Equal(t, tc.spelling, spellings(toks))
			assert.False(t, sink.HasErrors())
		})
	}
}

func TestHeaderNameOnlyAfterInclude(t *testing.T) {
	toks, sink := lexAll(t, `#include "file.h"`)
	assert.Equal(t,
		[]cctoken.Kind{cctoken.Punctuator, cctoken.Identifier, cctoken.Space, cctoken.HeaderName},
		kinds(toks))
	assert.Equal(t, `"file.h"`, toks[3].Spelling)
	assert.Equal(t, cctoken.HeaderQuote, toks[3].HeaderKind)
	assert.False(t, sink.HasErrors())
}

func TestHeaderNameAngleForm(t *testing.T) {
	toks, _ := lexAll(t, "#include <sys/types.h>")
	last := toks[len(toks)-1]
	assert.Equal(t, cctoken.HeaderName, last.Kind)
	assert.Equal(t, cctoken.HeaderAngle, last.HeaderKind)
	assert.Equal(t, "<sys/types.h>", last.Spelling)
}

func TestHeaderNameNotEnabledOutsideInclude(t *testing.T) {
	toks, _ := lexAll(t, `x = "file.h";`)
	assert.Equal(t, cctoken.StringLiteral, toks[4].Kind)
}

func TestUnterminatedBlockCommentDiagnoses(t *testing.T) {
	_, sink := lexAll(t, "int main() { /*\n return 0; }")
	assert.True(t, sink.HasErrors())
	assert.Equal(t, diag.IncompleteBlockComment, sink.All()[0].ID)
}

func TestStrayQuoteDiagnoses(t *testing.T) {
	toks, sink := lexAll(t, "x = 'oops;")
	assert.Contains(t, kinds(toks), cctoken.Other)
	assert.Equal(t, diag.UndefinedBehavior, sink.All()[0].Category)
	assert.Equal(t, diag.StrayQuote, sink.All()[0].ID)
}
