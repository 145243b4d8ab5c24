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
	"bytes"

	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
)

// Phase2 runs translation phase 2 over src (the phase-1 output):
// backslash-newline splicing, followed by the trailing-newline rule of
// spec.md section 4.4.
func Phase2(src *source.Buffer, sink *diag.Sink) *source.Buffer {
	rw := source.NewRewriter(src)
	for {
		data := rw.Peek()
		if len(data) == 0 {
			break
		}
		if len(data) >= 2 && data[0] == '\\' && data[1] == '\n' {
			rw.Erase(2)
			continue
		}
		rw.Propagate(1)
	}

	buf := rw.Done(src.Name())
	if src.Len() > 0 && !bytes.HasSuffix(buf.Data(), []byte("\n")) {
		loc := source.Location{Buffer: src, Offset: src.Len()}
		if src.Len() >= 1 && src.Data()[src.Len()-1] == '\\' {
			loc.Offset = src.Len() - 1
		}
		sink.Report(diag.New(diag.MissingFinalNewline, loc))

		rw2 := source.NewRewriter(buf)
		for {
			data := rw2.Peek()
			if len(data) == 0 {
				break
			}
			rw2.Propagate(1)
		}
		rw2.Insert("\n")
		buf = rw2.Done(src.Name())
	}
	return buf
}
