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
	"strconv"
	"strings"

	"github.com/cc11/frontend/internal/ccmacro"
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

// handleDirective consumes one directive line starting at the leading
// '#' (already known to be present by atLineStartDirective) and
// dispatches on the directive name, [6.10].
func (m *Manager) handleDirective() {
	hash := m.ss.advance() // '#'
	line := m.restOfLine()

	i := 0
	for i < len(line) && line[i].Kind == cctoken.Space {
		i++
	}
	if i >= len(line) {
		return // null directive, [6.10]/7
	}
	name := line[i]
	rest := line[i+1:]

	// Conditional-inclusion directives must be tracked even while not
	// emitting, so that nested #endif/#else are matched correctly.
	switch {
	case name.Kind == cctoken.Identifier && name.Spelling == "ifdef":
		m.handleIfdef(rest, true)
		return
	case name.Kind == cctoken.Identifier && name.Spelling == "ifndef":
		m.handleIfdef(rest, false)
		return
	case name.Kind == cctoken.Identifier && name.Spelling == "if":
		m.handleIf(hash.Range.Begin)
		return
	case name.Kind == cctoken.Identifier && name.Spelling == "elif":
		m.handleElif(hash.Range.Begin)
		return
	case name.Kind == cctoken.Identifier && name.Spelling == "else":
		m.handleElse(hash.Range.Begin)
		return
	case name.Kind == cctoken.Identifier && name.Spelling == "endif":
		m.handleEndif(hash.Range.Begin)
		return
	}

	if !m.currentlyEmitting() {
		return
	}

	switch {
	case name.Kind == cctoken.Identifier && name.Spelling == "define":
		m.handleDefine(rest, hash.Range.Begin)
	case name.Kind == cctoken.Identifier && name.Spelling == "undef":
		m.handleUndef(rest, hash.Range.Begin)
	case name.Kind == cctoken.Identifier && name.Spelling == "include":
		m.handleInclude(rest, hash.Range.Begin)
	case name.Kind == cctoken.Identifier && name.Spelling == "line":
		m.handleLine(rest, hash.Range.Begin)
	case name.Kind == cctoken.Identifier && name.Spelling == "pragma":
		m.handlePragma(rest, hash.Range.Begin)
	case name.Kind == cctoken.Identifier && name.Spelling == "error":
		m.handleError(rest, hash.Range.Begin)
	default:
		m.sink.Report(diag.New(diag.MalformedDirective, hash.Range.Begin, "#"+spellingOf(name), "unrecognized directive"))
	}
}

func spellingOf(tok lexer.Token) string { return tok.Spelling }

// restOfLine consumes and returns every token up to (and including the
// consumption of, but not returning) the directive-terminating newline
// or end of file.
func (m *Manager) restOfLine() []lexer.Token {
	var out []lexer.Token
	for {
		t := m.ss.peek()
		if t.Kind == cctoken.EOF {
			return out
		}
		if t.Kind == cctoken.Newline {
			m.ss.advance()
			return out
		}
		out = append(out, m.ss.advance())
	}
}

func skipSpace(toks []lexer.Token) []lexer.Token {
	i := 0
	for i < len(toks) && toks[i].Kind == cctoken.Space {
		i++
	}
	return toks[i:]
}

func trimTrailingSpace(toks []lexer.Token) []lexer.Token {
	j := len(toks)
	for j > 0 && toks[j-1].Kind == cctoken.Space {
		j--
	}
	return toks[:j]
}

// handleIfdef implements #ifdef (want == true) and #ifndef
// (want == false), [6.10.1]. These are the only conditional directives
// this implementation evaluates against the macro table; #if/#elif are
// recognized as dispatch slots whose branch is never taken (see
// handleIf/handleElif).
func (m *Manager) handleIfdef(rest []lexer.Token, want bool) {
	parentEmitting := m.currentlyEmitting()
	rest = trimTrailingSpace(skipSpace(rest))
	active := false
	if len(rest) > 0 && rest[0].Kind == cctoken.Identifier {
		active = m.Macros.IsDefined(rest[0].Spelling) == want
	}
	m.cond = append(m.cond, &condFrame{
		parentEmitting: parentEmitting,
		branchActive:   parentEmitting && active,
		anyTaken:       active,
	})
}

// handleIf implements #if, [6.10.1]. Full constant-expression
// evaluation is out of scope; the branch is always treated as not
// taken, so an #elif or #else later in the same group gets the usual
// chance to be selected instead.
func (m *Manager) handleIf(loc source.Location) {
	parentEmitting := m.currentlyEmitting()
	m.cond = append(m.cond, &condFrame{
		parentEmitting: parentEmitting,
		branchActive:   false,
		anyTaken:       false,
	})
}

// handleElif implements #elif. Like #if, its condition is never
// evaluated as true; it exists only so well-formed conditional groups
// using #elif are tracked without spurious mismatched-conditional
// diagnostics.
func (m *Manager) handleElif(loc source.Location) {
	if len(m.cond) == 0 {
		m.sink.Report(diag.New(diag.MismatchedConditional, loc, "#elif"))
		return
	}
	top := m.cond[len(m.cond)-1]
	top.branchActive = false
}

func (m *Manager) handleElse(loc source.Location) {
	if len(m.cond) == 0 {
		m.sink.Report(diag.New(diag.MismatchedConditional, loc, "#else"))
		return
	}
	top := m.cond[len(m.cond)-1]
	top.branchActive = top.parentEmitting && !top.anyTaken
	if top.branchActive {
		top.anyTaken = true
	}
}

func (m *Manager) handleEndif(loc source.Location) {
	if len(m.cond) == 0 {
		m.sink.Report(diag.New(diag.MismatchedConditional, loc, "#endif"))
		return
	}
	m.cond = m.cond[:len(m.cond)-1]
}

// handleDefine implements #define, [6.10.3].
func (m *Manager) handleDefine(rest []lexer.Token, loc source.Location) {
	rest = skipSpace(rest)
	if len(rest) == 0 || rest[0].Kind != cctoken.Identifier {
		m.sink.Report(diag.New(diag.MalformedDirective, loc, "#define", "missing macro name"))
		return
	}
	name := rest[0].Spelling
	rest = rest[1:]

	def := &ccmacro.Macro{Name: name, DefinitionLoc: loc}

	if len(rest) > 0 && rest[0].Kind == cctoken.Punctuator && rest[0].Punctuator == cctoken.ParenLeft {
		def.FunctionLike = true
		rest = rest[1:]
		params, variadic, body, ok := parseParamList(m.sink, rest, loc)
		if !ok {
			return
		}
		def.Params = params
		def.Variadic = variadic
		def.Body = trimTrailingSpace(skipSpace(body))
	} else {
		def.Body = trimTrailingSpace(skipSpace(rest))
	}

	if prev, ok := m.Macros.Lookup(name); ok && !prev.Predefined {
		if !prev.SameDefinition(*def) {
			m.sink.Report(diag.New(diag.MacroRedefinition, loc, name).
				Note(diag.PreviousDefinitionHere, prev.DefinitionLoc))
		}
	}
	m.Macros.Define(def)
}

// parseParamList consumes a function-like macro's parameter list up to
// and including the closing ')', returning the remaining tokens (the
// replacement list) unconsumed-from.
func parseParamList(sink *diag.Sink, toks []lexer.Token, loc source.Location) (params []string, variadic bool, rest []lexer.Token, ok bool) {
	i := 0
	for {
		toks2 := skipSpace(toks[i:])
		i = len(toks) - len(toks2)
		if i >= len(toks) {
			sink.Report(diag.New(diag.MalformedDirective, loc, "#define", "unterminated parameter list"))
			return nil, false, nil, false
		}
		t := toks[i]
		if t.Kind == cctoken.Punctuator && t.Punctuator == cctoken.ParenRight {
			i++
			return params, variadic, toks[i:], true
		}
		if t.Kind == cctoken.Punctuator && t.Punctuator == cctoken.Ellipsis {
			variadic = true
			i++
			toks2 = skipSpace(toks[i:])
			i = len(toks) - len(toks2)
			if i >= len(toks) || toks[i].Kind != cctoken.Punctuator || toks[i].Punctuator != cctoken.ParenRight {
				sink.Report(diag.New(diag.MalformedDirective, loc, "#define", "'...' must be the last parameter"))
				return nil, false, nil, false
			}
			i++
			return params, variadic, toks[i:], true
		}
		if t.Kind != cctoken.Identifier {
			sink.Report(diag.New(diag.MalformedDirective, loc, "#define", "expected parameter name"))
			return nil, false, nil, false
		}
		params = append(params, t.Spelling)
		i++
		toks2 = skipSpace(toks[i:])
		i = len(toks) - len(toks2)
		if i < len(toks) && toks[i].Kind == cctoken.Punctuator && toks[i].Punctuator == cctoken.Comma {
			i++
			continue
		}
	}
}

func (m *Manager) handleUndef(rest []lexer.Token, loc source.Location) {
	rest = trimTrailingSpace(skipSpace(rest))
	if len(rest) == 0 || rest[0].Kind != cctoken.Identifier {
		m.sink.Report(diag.New(diag.MalformedDirective, loc, "#undef", "missing macro name"))
		return
	}
	m.Macros.Undefine(rest[0].Spelling)
}

// handleInclude implements #include, [6.10.2]. The header-name token
// was already disambiguated by the phase-3 lexer's line-start state
// machine, so this only needs to resolve and open the file.
func (m *Manager) handleInclude(rest []lexer.Token, loc source.Location) {
	rest = trimTrailingSpace(skipSpace(rest))
	if len(rest) == 0 || rest[0].Kind != cctoken.HeaderName {
		m.sink.Report(diag.New(diag.MalformedDirective, loc, "#include", "expected a header name"))
		return
	}
	tok := rest[0]
	system := tok.HeaderKind == cctoken.HeaderAngle
	name := strings.Trim(tok.Spelling, "\"<>")

	if m.depth() >= MaxIncludeDepth {
		m.sink.Report(diag.New(diag.IncludeDepthExceeded, loc, MaxIncludeDepth))
		return
	}

	resolved := resolveAbsolute(m.currentDir(), name)
	if m.once.Contains(resolved) {
		return
	}

	buf, err := m.open(name, system, m.currentDir())
	if err != nil {
		m.sink.Report(diag.New(diag.CannotOpenFile, loc, name))
		return
	}

	toks := lexAll(buf, m.sink)
	m.pushInclude(buf, toks, dirOf(buf.Name()), resolved)
}

func (m *Manager) depth() int {
	n := 0
	for _, r := range m.ss.readers {
		if r.buf != nil {
			n++
		}
	}
	return n
}

func dirOf(name string) string {
	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return "."
	}
	return name[:i]
}

// handleLine implements #line, [6.10.4]: the remaining tokens on the
// directive line are macro-expanded (unless already simple) before
// being interpreted as a line number and optional file name.
func (m *Manager) handleLine(rest []lexer.Token, loc source.Location) {
	rest = trimTrailingSpace(skipSpace(rest))
	expanded := expandArgument(m.Macros, m.sink, filterSpace(rest))
	if len(expanded) == 0 || expanded[0].Kind != cctoken.PPNumber {
		m.sink.Report(diag.New(diag.MalformedDirective, loc, "#line", "expected a line number"))
		return
	}
	lineNo, err := strconv.Atoi(expanded[0].Spelling)
	if err != nil {
		m.sink.Report(diag.New(diag.MalformedDirective, loc, "#line", "invalid line number"))
		return
	}
	name := ""
	if len(expanded) > 1 && expanded[1].Kind == cctoken.StringLiteral {
		name = strings.Trim(expanded[1].Spelling, `"`)
	}
	buf := m.currentBuf()
	if buf == nil {
		return
	}
	spelling := source.FindSpellingLoc(loc)
	if spelling.Buffer == nil {
		return
	}
	// The line following the directive is presumed to be lineNo and
	// later lines count up from there, so the mark's anchor offset is
	// the first byte of that following line.
	nextLineOffset := endOfLine(buf, spelling.Offset)
	buf.ApplyLineDirective(nextLineOffset, name, lineNo)
}

func endOfLine(buf *source.Buffer, offset int) int {
	data := buf.Data()
	for i := offset; i < len(data); i++ {
		if data[i] == '\n' {
			return i + 1
		}
	}
	return len(data)
}

// handlePragma implements #pragma, [6.10.6]. Only `once` is given
// semantics; everything else is diagnosed as an ignored unknown
// pragma, per spec.md's supplemented feature list.
func (m *Manager) handlePragma(rest []lexer.Token, loc source.Location) {
	rest = trimTrailingSpace(skipSpace(rest))
	if len(rest) == 1 && rest[0].Kind == cctoken.Identifier && rest[0].Spelling == "once" {
		if key := m.currentPath(); key != "" {
			m.once.Add(key)
		}
		return
	}
	var b strings.Builder
	for i, t := range rest {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Spelling)
	}
	m.sink.Report(diag.New(diag.UnknownPragma, loc, b.String()))
}

// handleError implements #error, [6.10.5].
func (m *Manager) handleError(rest []lexer.Token, loc source.Location) {
	rest = trimTrailingSpace(skipSpace(rest))
	var b strings.Builder
	for i, t := range rest {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Spelling)
	}
	m.sink.Report(diag.New(diag.ErrorDirective, loc, b.String()))
}
