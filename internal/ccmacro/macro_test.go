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

package ccmacro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/lexer"
)

func tok(kind cctoken.Kind, spelling string) lexer.Token {
	return lexer.Token{Kind: kind, Spelling: spelling}
}

func TestTableDefineLookupUndefine(t *testing.T) {
	tab := NewTable()
	assert.False(t, tab.IsDefined("FOO"))

	tab.Define(&Macro{Name: "FOO", Body: []lexer.Token{tok(cctoken.PPNumber, "1")}})
	assert.True(t, tab.IsDefined("FOO"))
	m, ok := tab.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, "FOO", m.Name)

	tab.Undefine("FOO")
	assert.False(t, tab.IsDefined("FOO"))
}

func TestSameDefinitionIgnoresWhitespaceAmount(t *testing.T) {
	space := tok(cctoken.Space, " ")
	plus := tok(cctoken.Punctuator, "+")
	one := tok(cctoken.PPNumber, "1")

	a := Macro{Name: "X", Body: []lexer.Token{one, space, plus, one}}
	b := Macro{Name: "X", Body: []lexer.Token{one, space, space, space, plus, one}}
	assert.True(t, a.SameDefinition(b))
}

func TestSameDefinitionDiffersOnSpelling(t *testing.T) {
	a := Macro{Name: "X", Body: []lexer.Token{tok(cctoken.PPNumber, "1")}}
	b := Macro{Name: "X", Body: []lexer.Token{tok(cctoken.PPNumber, "2")}}
	assert.False(t, a.SameDefinition(b))
}

func TestSameDefinitionDiffersOnParams(t *testing.T) {
	a := Macro{Name: "F", FunctionLike: true, Params: []string{"a"}}
	b := Macro{Name: "F", FunctionLike: true, Params: []string{"a", "b"}}
	assert.False(t, a.SameDefinition(b))
}

func TestSameDefinitionDiffersOnVariadic(t *testing.T) {
	a := Macro{Name: "F", FunctionLike: true, Variadic: true}
	b := Macro{Name: "F", FunctionLike: true, Variadic: false}
	assert.False(t, a.SameDefinition(b))
}
