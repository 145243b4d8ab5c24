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

// Package source implements the buffer/location machinery of spec.md
// section 3 and section 4.1: byte-accurate source rewriting with
// provenance, and spelling-location recovery for diagnostics. It is
// grounded on original_source/include/buffer.hh (the `buffer` /
// `translator` split) generalized with the fragment table spec.md 4.1
// requires for byte-accurate offset mapping across trigraphs, line
// splicing and UCN substitution.
package source

import "fmt"

// Buffer is either raw (owns a name and byte string, is its own origin)
// or derived (owns exactly one parent and an ordered fragment table
// mapping its own bytes back onto the parent). spec.md section 3 "Buffer".
type Buffer struct {
	name   string
	data   []byte
	parent *Buffer

	// fragments is non-empty only for derived buffers. Concatenation of
	// fragment.localRange covers [0, len(data)) without gaps; the
	// parentRange of successive fragments advances monotonically.
	fragments []fragment

	// includedAt is set on a raw buffer created to satisfy a #include;
	// nil for the top-level translation unit.
	includedAt *Location

	lineStarts []int // lazily computed, raw buffers only

	// presumed records #line directives applied to this (raw) buffer,
	// spec.md's supplemented "#line" feature (see original_source's
	// pp_phase4.cc). Entries are appended in increasing offset order.
	presumed []presumedMark
}

type presumedMark struct {
	offset int
	name   string
	line   int
}

// ApplyLineDirective records that, from byte offset onward, diagnostics
// should report name (or the buffer's own name if name == "") and a
// line number counted from line starting at offset.
func (b *Buffer) ApplyLineDirective(offset int, name string, line int) {
	raw := b.Original()
	raw.presumed = append(raw.presumed, presumedMark{offset: offset, name: name, line: line})
}

// PresumedLineCol returns the file name and line/column diagnostics
// should cite for offset, honoring any #line directives applied to
// this buffer via ApplyLineDirective.
func (b *Buffer) PresumedLineCol(offset int) (file string, line, col int) {
	raw := b.Original()
	rawLine, col := b.LineCol(offset)
	file = raw.name
	line = rawLine
	var best *presumedMark
	for i := range raw.presumed {
		m := &raw.presumed[i]
		if m.offset <= offset && (best == nil || m.offset > best.offset) {
			best = m
		}
	}
	if best != nil {
		markLine, _ := b.LineCol(best.offset)
		if best.name != "" {
			file = best.name
		}
		line = best.line + (rawLine - markLine)
	}
	return file, line, col
}

type fragment struct {
	localBegin, localEnd   int
	parentBegin, parentEnd int
	propagate              bool
}

// NewRawBuffer creates a buffer that is its own origin, e.g. the bytes
// read from disk for the translation unit or for an included file.
func NewRawBuffer(name string, data []byte) *Buffer {
	return &Buffer{name: name, data: data}
}

// NewRawBufferIncludedAt is NewRawBuffer for a file opened to satisfy a
// #include directive at loc.
func NewRawBufferIncludedAt(name string, data []byte, loc Location) *Buffer {
	b := NewRawBuffer(name, data)
	b.includedAt = &loc
	return b
}

// Name returns the buffer's file name. For a derived buffer this is
// inherited from the original raw buffer.
func (b *Buffer) Name() string {
	return b.Original().name
}

// Data returns the buffer's current byte content.
func (b *Buffer) Data() []byte { return b.data }

// Len returns the number of bytes currently in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// IsRaw reports whether this buffer is its own origin.
func (b *Buffer) IsRaw() bool { return b.parent == nil }

// Parent returns the buffer this one was derived from, or nil for a raw
// buffer.
func (b *Buffer) Parent() *Buffer { return b.parent }

// Original walks derived->parent to the raw buffer at the root of the
// chain.
func (b *Buffer) Original() *Buffer {
	for b.parent != nil {
		b = b.parent
	}
	return b
}

// IncludedAt returns the location of the #include directive that caused
// this raw buffer to be read, if any.
func (b *Buffer) IncludedAt() (Location, bool) {
	if b.includedAt == nil {
		return Location{}, false
	}
	return *b.includedAt, true
}

// GetLine returns the 1-based source line lno's text, without its
// trailing newline, for use in diagnostic source citations.
func (b *Buffer) GetLine(lno int) string {
	raw := b.Original()
	raw.ensureLineStarts()
	if lno < 1 || lno > len(raw.lineStarts) {
		return ""
	}
	start := raw.lineStarts[lno-1]
	end := len(raw.data)
	if lno < len(raw.lineStarts) {
		end = raw.lineStarts[lno] - 1 // exclude the newline
	} else if end > start && raw.data[end-1] == '\n' {
		end--
	}
	if end < start {
		end = start
	}
	return string(raw.data[start:end])
}

// LineCol converts a byte offset into this (raw) buffer into a 1-based
// (line, column) pair, counting UTF-8 continuation bytes as zero-width
// per spec.md section 6's diagnostic caret rule.
func (b *Buffer) LineCol(offset int) (line, col int) {
	raw := b.Original()
	raw.ensureLineStarts()
	line = 1
	for i, start := range raw.lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	lineStart := raw.lineStarts[line-1]
	col = 1
	for i := lineStart; i < offset && i < len(raw.data); i++ {
		if raw.data[i]&0xC0 != 0x80 { // not a UTF-8 continuation byte
			col++
		}
	}
	return line, col
}

func (b *Buffer) ensureLineStarts() {
	if b.lineStarts != nil {
		return
	}
	starts := []int{0}
	for i, c := range b.data {
		if c == '\n' && i+1 < len(b.data) {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer(%s, %d bytes)", b.name, len(b.data))
}
