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

func TestPhase2SplicesBackslashNewline(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", []byte("int x \\\n= 1;\n"))
	out := Phase2(buf, sink)
	assert.Equal(t, "int x = 1;\n", string(out.Data()))
	assert.Empty(t, sink.All())
}

func TestPhase2DiagnosesMissingFinalNewline(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", []byte("int x;"))
	out := Phase2(buf, sink)
	assert.Equal(t, "int x;\n", string(out.Data()))
	assert.NotEmpty(t, sink.All())
}

func TestPhase2EmptyInputNeedsNoNewline(t *testing.T) {
	sink := &diag.Sink{}
	buf := source.NewRawBuffer("t.c", nil)
	Phase2(buf, sink)
	assert.Empty(t, sink.All())
}
