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

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

// ident, intConst, punct and keyword build a token of one kind by
// spelling, the kinds every test below cares about; real callers get
// these from internal/convert's phase 7 instead.
func ident(s string) lexer.Token {
	return lexer.Token{Kind: cctoken.Identifier, Spelling: s}
}

func intConst(s string) lexer.Token {
	return lexer.Token{Kind: cctoken.IntegerConstant, Spelling: s}
}

func punct(k cctoken.PunctuatorKind) lexer.Token {
	return lexer.Token{Kind: cctoken.Punctuator, Punctuator: k, Spelling: k.Spelling()}
}

func keyword(k cctoken.KeywordKind, spelling string) lexer.Token {
	return lexer.Token{Kind: cctoken.Keyword, Keyword: k, Spelling: spelling}
}

func TestParseExpressionPrecedence(t *testing.T) {
	// a + b * c  ==  a + (b * c)
	toks := []lexer.Token{
		ident("a"), punct(cctoken.Plus), ident("b"), punct(cctoken.Star), ident("c"),
	}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	require.NotNil(t, n)
	assert.Equal(t, Binary, n.Kind)
	assert.Equal(t, cctoken.Plus, n.Tok.Punctuator)
	assert.Equal(t, "a", n.Children[0].Tok.Spelling)
	require.Equal(t, Binary, n.Children[1].Kind)
	assert.Equal(t, cctoken.Star, n.Children[1].Tok.Punctuator)
}

func TestParseExpressionRightAssociativeAssignment(t *testing.T) {
	// a = b = c  ==  a = (b = c)
	toks := []lexer.Token{
		ident("a"), punct(cctoken.Equal), ident("b"), punct(cctoken.Equal), ident("c"),
	}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, Binary, n.Kind)
	assert.Equal(t, "a", n.Children[0].Tok.Spelling)
	require.Equal(t, Binary, n.Children[1].Kind)
	assert.Equal(t, "b", n.Children[1].Children[0].Tok.Spelling)
	assert.Equal(t, "c", n.Children[1].Children[1].Tok.Spelling)
}

func TestParseExpressionTernary(t *testing.T) {
	// a ? b : c
	toks := []lexer.Token{
		ident("a"), punct(cctoken.Question), ident("b"), punct(cctoken.Colon), ident("c"),
	}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, Ternary, n.Kind)
	assert.Equal(t, "a", n.Children[0].Tok.Spelling)
	assert.Equal(t, "b", n.Children[1].Tok.Spelling)
	assert.Equal(t, "c", n.Children[2].Tok.Spelling)
}

func TestParseExpressionCall(t *testing.T) {
	// f(a, b)
	toks := []lexer.Token{
		ident("f"), punct(cctoken.ParenLeft), ident("a"), punct(cctoken.Comma), ident("b"), punct(cctoken.ParenRight),
	}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, Call, n.Kind)
	require.Len(t, n.Children, 3)
	assert.Equal(t, "f", n.Children[0].Tok.Spelling)
	assert.Equal(t, "a", n.Children[1].Tok.Spelling)
	assert.Equal(t, "b", n.Children[2].Tok.Spelling)
}

func TestParseExpressionCastVsParenDisambiguation(t *testing.T) {
	// (x) parses as a paren expression, not a cast, since a plain
	// identifier never starts a type unless it is a bound typedef name.
	toks := []lexer.Token{punct(cctoken.ParenLeft), ident("x"), punct(cctoken.ParenRight)}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	assert.Equal(t, Paren, n.Kind)
	assert.Equal(t, "x", n.Children[0].Tok.Spelling)
}

func TestParseExpressionCastWithTypedefName(t *testing.T) {
	// (T)x, with T registered as a typedef name, parses as a Cast.
	toks := []lexer.Token{punct(cctoken.ParenLeft), ident("T"), punct(cctoken.ParenRight), ident("x")}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, collections.SetOf("T"))
	require.Empty(t, sink.All())
	require.Equal(t, Cast, n.Kind)
	assert.Equal(t, "x", n.Children[1].Tok.Spelling)
}

func TestParseExpressionCastWithKeywordType(t *testing.T) {
	// (int)x
	toks := []lexer.Token{
		punct(cctoken.ParenLeft), keyword(cctoken.KwInt, "int"), punct(cctoken.ParenRight), ident("x"),
	}
	sink := &diag.Sink{}
	n := ParseExpression(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, Cast, n.Kind)
	assert.Equal(t, DeclaratorSpecifier, n.Children[0].Kind)
	assert.Equal(t, cctoken.KwInt, n.Children[0].Tok.Keyword)
	assert.Equal(t, "x", n.Children[1].Tok.Spelling)
}

func TestParseDeclaratorSimplePointer(t *testing.T) {
	// int *p
	toks := []lexer.Token{keyword(cctoken.KwInt, "int"), punct(cctoken.Star), ident("p")}
	sink := &diag.Sink{}
	n := ParseDeclarator(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, DeclaratorSpecifier, n.Kind)
	require.Equal(t, DeclaratorPointer, n.Children[0].Kind)
	assert.Equal(t, "p", n.Children[0].Children[0].Tok.Spelling)
}

func TestParseDeclaratorArrayOfPointerNotPointerToArray(t *testing.T) {
	// int *a[3]: array 3 of pointer to int ([6.7.6]/1's own example).
	toks := []lexer.Token{
		keyword(cctoken.KwInt, "int"), punct(cctoken.Star), ident("a"),
		punct(cctoken.SquareLeft), intConst("3"), punct(cctoken.SquareRight),
	}
	sink := &diag.Sink{}
	n := ParseDeclarator(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, DeclaratorSpecifier, n.Kind)
	require.Equal(t, DeclaratorPointer, n.Children[0].Kind)
	arr := n.Children[0].Children[0]
	require.Equal(t, DeclaratorArray, arr.Kind)
	assert.Equal(t, "a", arr.Children[0].Tok.Spelling)
	assert.Equal(t, "3", arr.Children[1].Tok.Spelling)
}

func TestParseDeclaratorFunctionPointer(t *testing.T) {
	// int (*fp)(char*, ...)
	toks := []lexer.Token{
		keyword(cctoken.KwInt, "int"), punct(cctoken.ParenLeft), punct(cctoken.Star), ident("fp"), punct(cctoken.ParenRight),
		punct(cctoken.ParenLeft),
		keyword(cctoken.KwChar, "char"), punct(cctoken.Star), punct(cctoken.Comma), punct(cctoken.Ellipsis),
		punct(cctoken.ParenRight),
	}
	sink := &diag.Sink{}
	n := ParseDeclarator(toks, sink, nil)
	require.Empty(t, sink.All())

	require.Equal(t, DeclaratorSpecifier, n.Kind)
	assert.Equal(t, cctoken.KwInt, n.Tok.Keyword)

	fn := n.Children[0]
	require.Equal(t, DeclaratorFunction, fn.Kind)
	require.Len(t, fn.Children, 3)

	returnedFrom := fn.Children[0]
	require.Equal(t, Paren, returnedFrom.Kind)
	ptr := returnedFrom.Children[0]
	require.Equal(t, DeclaratorPointer, ptr.Kind)
	assert.Equal(t, "fp", ptr.Children[0].Tok.Spelling)

	param1 := fn.Children[1]
	require.Equal(t, DeclaratorSpecifier, param1.Kind)
	assert.Equal(t, cctoken.KwChar, param1.Tok.Keyword)
	require.Equal(t, DeclaratorPointer, param1.Children[0].Kind)
	assert.Equal(t, AbstractPlaceholder, param1.Children[0].Children[0].Kind)

	param2 := fn.Children[2]
	assert.Equal(t, Leaf, param2.Kind)
	assert.Equal(t, cctoken.Ellipsis, param2.Tok.Punctuator)
}

func TestParseDeclaratorStructTag(t *testing.T) {
	// struct Point *p
	toks := []lexer.Token{
		keyword(cctoken.KwStruct, "struct"), ident("Point"), punct(cctoken.Star), ident("p"),
	}
	sink := &diag.Sink{}
	n := ParseDeclarator(toks, sink, nil)
	require.Empty(t, sink.All())
	require.Equal(t, DeclaratorSpecifier, n.Kind)
	require.Len(t, n.Children, 2)
	tag := n.Children[0]
	require.Equal(t, Tag, tag.Kind)
	assert.Equal(t, "Point", tag.TagName)
	ptr := n.Children[1]
	require.Equal(t, DeclaratorPointer, ptr.Kind)
	assert.Equal(t, "p", ptr.Children[0].Tok.Spelling)
}

func TestParseExpressionUnexpectedTokenDiagnoses(t *testing.T) {
	toks := []lexer.Token{punct(cctoken.ParenRight)}
	sink := &diag.Sink{}
	ParseExpression(toks, sink, nil)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.ParseError, sink.All()[0].ID)
}
