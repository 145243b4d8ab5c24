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

package ppphase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

func TestPhase1NormalizesCRLF(t *testing.T) {
	data := []byte("int x;\r\nint y;\r\n")
	assert.True(t, hasCRLF(data), "fixture sanity check")

	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", data)
	out := Phase1(buf, sink)

	assert.False(t, hasCRLF(out.Data()))
	assert.Equal(t, "int x;\nint y;\n", string(out.Data()))
	assert.Empty(t, sink.All())
}

func TestPhase1ReplacesTrigraphs(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", []byte("??(??)"))
	out := Phase1(buf, sink)
	assert.Equal(t, "[]", string(out.Data()))
}

func TestPhase1SubstitutesNonASCIIWithUCN(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", []byte("// caf\xc3\xa9"))
	out := Phase1(buf, sink)
	assert.Equal(t, "// caf\\u00E9", string(out.Data()))
	assert.Empty(t, sink.All())
}

func TestPhase1DiagnosesInvalidUTF8(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", []byte{'a', 0x80, 'b'})
	Phase1(buf, sink)
	assert.NotEmpty(t, sink.All())
}
