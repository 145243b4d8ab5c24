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

// Package pp implements translation phase 4 (spec.md section 4.6): the
// directive loop, conditional inclusion, file inclusion and macro
// expansion with rescan/hygiene. It generalizes the teacher's
// directive-oriented parser (parser/parser.go's parseDirective
// dispatch and #include/#define handling) from a one-shot "collect
// directives for Bazel dependency analysis" pass into a full,
// token-stream-rewriting preprocessor, and reuses the teacher's
// internal/collections.Set for the macro-expansion hideset.
package pp

import (
	"path"
	"path/filepath"

	"github.com/cc11/frontend/internal/ccmacro"
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

// MaxIncludeDepth bounds #include nesting, spec.md section 4.6's
// translation-limit diagnostic.
const MaxIncludeDepth = 200

// FileOpener resolves and reads an include target. name is the
// spelling inside the quotes or angle brackets; system is true for
// <...>; fromDir is the directory of the file containing the
// #include, used for the quote-form's "search relative to the
// including file first" rule, [6.10.2]/3.
type FileOpener func(name string, system bool, fromDir string) (*source.Buffer, error)

// reader is one entry of the manager's token-stream stack: either the
// remaining tokens of an included file, or the pending tokens of a
// macro expansion awaiting rescan.
type reader struct {
	toks      []lexer.Token
	pos       int
	macroName string // non-empty while this reader's tokens expand that macro
	buf       *source.Buffer
	dir       string // including file's directory, for nested quote-form lookup
	path      string // resolveAbsolute'd include path, the #pragma once guard key
}

func (r *reader) exhausted() bool { return r.pos >= len(r.toks) }

// condFrame is one level of #if/#ifdef/#ifndef/#elif/#else/#endif
// nesting, spec.md section 4.6.
type condFrame struct {
	parentEmitting bool
	anyTaken       bool
	branchActive   bool
}

// streamState is the reader-stack core shared by the top-level phase-4
// loop and by macro-argument pre-expansion (expand.go's expandArgument):
// a stack of pending token readers plus the hideset of macro names
// currently being replaced, [6.10.3.4].
type streamState struct {
	readers []*reader
	active  collections.Set[string]
}

func (s *streamState) top() *reader {
	for len(s.readers) > 0 {
		r := s.readers[len(s.readers)-1]
		if !r.exhausted() {
			return r
		}
		if r.macroName != "" {
			s.active.Delete(r.macroName)
		}
		s.readers = s.readers[:len(s.readers)-1]
	}
	return nil
}

// peek returns the next unconsumed token without advancing, or an
// EOF-kind token if every reader is exhausted.
func (s *streamState) peek() lexer.Token {
	r := s.top()
	if r == nil {
		return lexer.Token{Kind: cctoken.EOF}
	}
	return r.toks[r.pos]
}

func (s *streamState) advance() lexer.Token {
	r := s.top()
	if r == nil {
		return lexer.Token{Kind: cctoken.EOF}
	}
	tok := r.toks[r.pos]
	r.pos++
	return tok
}

// push installs toks to be read before anything currently pending,
// implementing rescan: the replacement list of a macro invocation is
// rescanned, together with all subsequent tokens, for further macro
// names to replace, [6.10.3.4]/1.
func (s *streamState) push(toks []lexer.Token, macroName string) {
	if macroName != "" {
		s.active.Add(macroName)
	}
	s.readers = append(s.readers, &reader{toks: toks, macroName: macroName})
}

// Manager runs phase 4 over an already phase-3-lexed token stream,
// producing the expanded pp-token stream phase 5 consumes.
type Manager struct {
	Macros Table
	sink   *diag.Sink
	open   FileOpener

	ss   streamState
	cond []*condFrame
	once collections.Set[string] // resolved paths consumed under #pragma once

	includeDirs []string
}

// Table is an alias kept for readability at call sites; the real type
// lives in package ccmacro.
type Table = ccmacro.Table

// NewManager constructs a Manager seeded with the predefined macros
// (predefined.go) and ready to process buf as the top-level
// translation unit.
func NewManager(buf *source.Buffer, sink *diag.Sink, open FileOpener, includeDirs []string, sourceDate Date) *Manager {
	m := &Manager{
		Macros:      ccmacro.NewTable(),
		sink:        sink,
		open:        open,
		ss:          streamState{active: make(collections.Set[string])},
		once:        make(collections.Set[string]),
		includeDirs: includeDirs,
	}
	definePredefined(m.Macros, sourceDate)
	toks := lexAll(buf, sink)
	m.ss.readers = []*reader{{toks: toks, buf: buf, dir: filepath.Dir(buf.Name()), path: resolveAbsolute(".", buf.Name())}}
	return m
}

func lexAll(buf *source.Buffer, sink *diag.Sink) []lexer.Token {
	var out []lexer.Token
	for tok := range lexer.New(buf, sink).AllTokens() {
		out = append(out, tok)
		if tok.Kind == cctoken.EOF {
			break
		}
	}
	return out
}

// pushInclude installs an included file's token stream atop the reader
// stack. path is the same resolveAbsolute'd key handleInclude already
// checked against m.once, carried along so handlePragma's #pragma once
// guard reads back the identical string instead of recomputing it.
func (m *Manager) pushInclude(buf *source.Buffer, toks []lexer.Token, dir, path string) {
	m.ss.readers = append(m.ss.readers, &reader{toks: toks, buf: buf, dir: dir, path: path})
}

func (m *Manager) currentlyEmitting() bool {
	if len(m.cond) == 0 {
		return true
	}
	top := m.cond[len(m.cond)-1]
	return top.parentEmitting && top.branchActive
}

func (m *Manager) currentDir() string {
	for i := len(m.ss.readers) - 1; i >= 0; i-- {
		if m.ss.readers[i].dir != "" {
			return m.ss.readers[i].dir
		}
	}
	return "."
}

func (m *Manager) currentBuf() *source.Buffer {
	for i := len(m.ss.readers) - 1; i >= 0; i-- {
		if m.ss.readers[i].buf != nil {
			return m.ss.readers[i].buf
		}
	}
	return nil
}

// currentPath returns the innermost file reader's resolveAbsolute'd
// #pragma once guard key, the same string handleInclude computed and
// checked against m.once before opening that file.
func (m *Manager) currentPath() string {
	for i := len(m.ss.readers) - 1; i >= 0; i-- {
		if m.ss.readers[i].buf != nil {
			return m.ss.readers[i].path
		}
	}
	return ""
}

// Run drives phase 4 to completion and returns the fully macro-expanded,
// conditional-inclusion-resolved pp-token stream (still carrying Space
// and Newline tokens; phase 5/6/7 in package convert consume those).
func (m *Manager) Run() []lexer.Token {
	var out []lexer.Token
	for {
		tok := m.ss.peek()
		if tok.Kind == cctoken.EOF {
			m.ss.readers = nil // top-level file exhausted; drop any stragglers
			break
		}
		if m.atLineStartDirective() {
			m.handleDirective()
			continue
		}
		m.ss.advance()
		if !m.currentlyEmitting() {
			continue
		}
		expandOne(m.Macros, m.sink, &m.ss, tok, func(t lexer.Token) { out = append(out, t) })
	}
	if len(m.cond) > 0 {
		loc := source.Location{}
		if len(out) > 0 {
			loc = out[len(out)-1].Range.End
		}
		m.sink.Report(diag.New(diag.MismatchedConditional, loc, "#endif"))
	}
	return out
}

// atLineStartDirective reports whether the reader is positioned at a
// '#' that begins a directive line: only file-level readers (not
// macro-expansion readers) recognize directives, [6.10]/2.
func (m *Manager) atLineStartDirective() bool {
	r := m.ss.top()
	if r == nil || r.macroName != "" {
		return false
	}
	if r.pos > 0 {
		prev := r.toks[r.pos-1]
		if prev.Kind != cctoken.Newline {
			return false
		}
	}
	i := r.pos
	for i < len(r.toks) && r.toks[i].Kind == cctoken.Space {
		i++
	}
	return i < len(r.toks) && r.toks[i].Kind == cctoken.Punctuator && r.toks[i].Punctuator == cctoken.Hash
}

func resolveAbsolute(dir, name string) string {
	if filepath.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Clean(filepath.Join(dir, name))
}
