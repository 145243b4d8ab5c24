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

package pp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

func noInclude(name string, system bool, fromDir string) (*source.Buffer, error) {
	return nil, errors.New("no includes in this test")
}

func runPP(t *testing.T, src string) ([]string, *diag.Sink) {
	t.Helper()
	buf := source.NewRawBuffer("<test>", []byte(src))
	sink := &diag.Sink{}
	m := NewManager(buf, sink, noInclude, nil, Date{Month: 1, Day: 1, Year: 2026})
	toks := m.Run()
	var spellings []string
	for _, tok := range toks {
		if tok.Kind == cctoken.Space || tok.Kind == cctoken.Newline || tok.Kind == cctoken.EOF {
			continue
		}
		spellings = append(spellings, tok.Spelling)
	}
	return spellings, sink
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	out, sink := runPP(t, "#define N 42\nN + N\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"42", "+", "42"}, out)
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	out, sink := runPP(t, "#define ADD(a, b) ((a) + (b))\nADD(1, 2)\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"(", "(", "1", ")", "+", "(", "2", ")", ")"}, out)
}

func TestMacroDoesNotSelfRecurse(t *testing.T) {
	out, sink := runPP(t, "#define X X + 1\nX\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"X", "+", "1"}, out)
}

func TestStringizeOperator(t *testing.T) {
	out, sink := runPP(t, "#define STR(x) #x\nSTR(a + b)\n")
	assert.Empty(t, sink.All())
	require.Len(t, out, 1)
	assert.Equal(t, `"a + b"`, out[0])
}

func TestPasteOperator(t *testing.T) {
	out, sink := runPP(t, "#define CAT(a, b) a ## b\nCAT(foo, bar)\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"foobar"}, out)
}

func TestVariadicMacro(t *testing.T) {
	out, sink := runPP(t, "#define LOG(fmt, ...) fmt : __VA_ARGS__\nLOG(\"x\", 1, 2)\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{`"x"`, ":", "1", ",", "2"}, out)
}

func TestStringizeVariadicArgsJoinsWithCommaSpace(t *testing.T) {
	out, sink := runPP(t, "#define STR(...) #__VA_ARGS__\nSTR(1, 2)\n")
	assert.Empty(t, sink.All())
	require.Len(t, out, 1)
	assert.Equal(t, `"1, 2"`, out[0])
}

func TestPasteDeletesCommaOnEmptyVariadicArgs(t *testing.T) {
	out, sink := runPP(t, "#define LOG(fmt, ...) f(fmt, ## __VA_ARGS__)\nLOG(\"x\")\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"f", "(", `"x"`, ")"}, out)
}

func TestIfdefTakesTrueBranch(t *testing.T) {
	out, sink := runPP(t, "#define FOO\n#ifdef FOO\nyes\n#else\nno\n#endif\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"yes"}, out)
}

func TestIfndefSkipsDefinedBranch(t *testing.T) {
	out, sink := runPP(t, "#define FOO\n#ifndef FOO\nyes\n#else\nno\n#endif\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"no"}, out)
}

func TestIfIsNeverTakenButElseIs(t *testing.T) {
	out, sink := runPP(t, "#if 1\nyes\n#else\nno\n#endif\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"no"}, out)
}

func TestUnmatchedEndifDiagnoses(t *testing.T) {
	_, sink := runPP(t, "#endif\n")
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.MismatchedConditional, sink.All()[0].ID)
}

func TestUndefRemovesMacro(t *testing.T) {
	out, sink := runPP(t, "#define N 1\n#undef N\nN\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"N"}, out)
}

func TestErrorDirectiveReportsMessage(t *testing.T) {
	_, sink := runPP(t, "#error something went wrong\n")
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.ErrorDirective, sink.All()[0].ID)
}

func TestUnknownPragmaWarns(t *testing.T) {
	_, sink := runPP(t, "#pragma weird 1 2\n")
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.UnknownPragma, sink.All()[0].ID)
}

func TestMacroRedefinitionDiagnoses(t *testing.T) {
	_, sink := runPP(t, "#define N 1\n#define N 2\n")
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diag.MacroRedefinition, sink.All()[0].ID)
}

func TestIdenticalRedefinitionIsSilent(t *testing.T) {
	_, sink := runPP(t, "#define N 1\n#define N 1\n")
	assert.Empty(t, sink.All())
}

func TestPredefinedLineAndFile(t *testing.T) {
	out, sink := runPP(t, "__LINE__ __FILE__\n")
	assert.Empty(t, sink.All())
	assert.Equal(t, []string{"1", `"<test>"`}, out)
}
