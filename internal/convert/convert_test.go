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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

func str(prefix cctoken.StringPrefix, spelling string) lexer.Token {
	return lexer.Token{Kind: cctoken.StringLiteral, StringPrefix: prefix, Spelling: spelling}
}

func space() lexer.Token { return lexer.Token{Kind: cctoken.Space, Spelling: " "} }

func TestFinalizeDropsWhitespace(t *testing.T) {
	toks := []lexer.Token{
		{Kind: cctoken.Identifier, Spelling: "x"},
		space(),
		{Kind: cctoken.Punctuator, Punctuator: cctoken.Plus, Spelling: "+"},
	}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	require.Len(t, out, 2)
	assert.Equal(t, "x", out[0].Spelling)
}

func TestFinalizeReclassifiesKeyword(t *testing.T) {
	toks := []lexer.Token{{Kind: cctoken.Identifier, Spelling: "return"}}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	require.Len(t, out, 1)
	assert.Equal(t, cctoken.Keyword, out[0].Kind)
	assert.Equal(t, cctoken.KwReturn, out[0].Keyword)
}

func TestFinalizeReclassifiesIntegerConstant(t *testing.T) {
	toks := []lexer.Token{{Kind: cctoken.PPNumber, Spelling: "0x2AUL"}}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	assert.Equal(t, cctoken.IntegerConstant, out[0].Kind)
}

func TestFinalizeReclassifiesFloatingConstant(t *testing.T) {
	toks := []lexer.Token{{Kind: cctoken.PPNumber, Spelling: "3.14e10f"}}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	assert.Equal(t, cctoken.FloatingConstant, out[0].Kind)
}

func TestFinalizeHexFloatingConstant(t *testing.T) {
	toks := []lexer.Token{{Kind: cctoken.PPNumber, Spelling: "0x1.8p3"}}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	assert.Equal(t, cctoken.FloatingConstant, out[0].Kind)
}

func TestFinalizeUnconvertiblePPNumberDiagnoses(t *testing.T) {
	toks := []lexer.Token{{Kind: cctoken.PPNumber, Spelling: "0x"}}
	sink := &diag.Sink{}
	Finalize(toks, sink)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.TokenConversionFailed, sink.All()[0].ID)
}

func TestConcatenatesAdjacentStringLiterals(t *testing.T) {
	toks := []lexer.Token{
		str(cctoken.PrefixNone, `"foo"`), space(), str(cctoken.PrefixNone, `"bar"`),
	}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	require.Len(t, out, 1)
	assert.Equal(t, `"foobar"`, out[0].Spelling)
}

func TestConcatenationPrefersWidePrefix(t *testing.T) {
	toks := []lexer.Token{
		str(cctoken.PrefixNone, `"a"`), str(cctoken.PrefixL, `L"b"`),
	}
	sink := &diag.Sink{}
	out := Finalize(toks, sink)
	require.Empty(t, sink.All())
	require.Len(t, out, 1)
	assert.Equal(t, cctoken.PrefixL, out[0].StringPrefix)
	assert.Equal(t, `L"ab"`, out[0].Spelling)
}

func TestConcatenationClashBetweenU8AndWideDiagnoses(t *testing.T) {
	toks := []lexer.Token{
		str(cctoken.PrefixU8, `u8"a"`), str(cctoken.PrefixL, `L"b"`),
	}
	sink := &diag.Sink{}
	Finalize(toks, sink)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.StringLiteralPrefixClash, sink.All()[0].ID)
}

func TestConcatenationClashBetweenDifferentWidePrefixesDiagnoses(t *testing.T) {
	toks := []lexer.Token{
		str(cctoken.PrefixL, `L"a"`), str(cctoken.PrefixU, `U"b"`),
	}
	sink := &diag.Sink{}
	Finalize(toks, sink)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.StringLiteralPrefixClash, sink.All()[0].ID)
}
