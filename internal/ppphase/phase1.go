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

// Package ppphase implements translation phases 1 and 2 of spec.md
// section 4.3/4.4: encoding normalization (trigraphs, UCN substitution,
// line-ending normalization) and backslash-newline splicing, both
// expressed as source.Rewriter passes over a derived buffer.
package ppphase

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/source"
	"github.com/cc11/frontend/internal/utf8codec"
)

// trigraphs is the closed set of nine C99 trigraph sequences, spec.md
// section 4.3.
var trigraphs = map[string]byte{
	"??=": '#', "??(": '[', "??/": '\\', "??)": ']', "??'": '^',
	"??<": '{', "??!": '|', "??>": '}', "??-": '~',
}

// Phase1 runs translation phase 1 over src, returning a derived buffer
// with non-ASCII bytes substituted by their universal-character-name,
// CRLF pairs normalized to LF, and trigraphs replaced. Diagnostics are
// reported to sink.
func Phase1(src *source.Buffer, sink *diag.Sink) *source.Buffer {
	rw := source.NewRewriter(src)
	if n := bomLength(rw.Peek()); n > 0 {
		rw.Erase(n)
	}
	for {
		data := rw.Peek()
		if len(data) == 0 {
			break
		}

		head := data[0]
		switch {
		case utf8codec.IsASCII(head):
			if handleTrigraph(rw, data) {
				continue
			}
			if len(data) >= 2 && data[0] == '\r' && data[1] == '\n' {
				rw.Replace(2, "\n")
				continue
			}
			rw.Propagate(1)

		default:
			n, err := utf8codec.Measure(data)
			if err != nil {
				loc := source.Location{Buffer: src, Offset: rw.ParentIndex()}
				sink.Report(diag.New(diag.InvalidUTF8, loc))
				rw.Replace(1, "")
				continue
			}
			cp, err := utf8codec.Decode(data[:min(n, len(data))])
			if err != nil {
				loc := source.Location{Buffer: src, Offset: rw.ParentIndex()}
				sink.Report(diag.New(diag.InvalidUTF8, loc))
				rw.Replace(1, "")
				continue
			}
			rw.Replace(n, utf8codec.ToUCN(cp))
		}
	}
	return rw.Done(src.Name())
}

// bomLength reports how many leading bytes of data are a byte-order mark,
// using x/text's BOM-aware decoder rather than hand-rolling the UTF-8/
// UTF-16LE/UTF-16BE sniff: BOMOverride consumes a recognized BOM and leaves
// everything else untouched through the Nop fallback, so the length
// difference is exactly the BOM's byte width (0 if none is present).
func bomLength(data []byte) int {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return 0
	}
	return len(data) - len(out)
}

func handleTrigraph(rw *source.Rewriter, data []byte) bool {
	if len(data) < 3 || data[0] != '?' || data[1] != '?' {
		return false
	}
	if repl, ok := trigraphs[string(data[:3])]; ok {
		rw.Replace(3, string(repl))
		return true
	}
	return false
}

// hasCRLF reports whether data contains a CRLF pair, used only by tests
// to sanity-check fixture inputs before running Phase1.
func hasCRLF(data []byte) bool {
	return bytes.Contains(data, []byte("\r\n"))
}
