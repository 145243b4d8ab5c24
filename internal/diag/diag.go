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

// Package diag implements the categorized, cited, located diagnostic
// engine of spec.md sections 6 and 7, grounded on
// original_source/include/diagnostic.hh's diagnostic_id / category /
// citation-pattern design.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cc11/frontend/internal/source"
)

// Category is one of the four diagnostic categories spec.md section 7
// defines.
type Category int

const (
	Error Category = iota
	Warning
	UndefinedBehavior
	Auxiliary
)

func (c Category) String() string {
	switch c {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case UndefinedBehavior:
		return "undefined-behavior"
	case Auxiliary:
		return "auxiliary"
	default:
		return "?"
	}
}

// ID names every diagnosable condition spec.md sections 4 and 7
// enumerate, mirroring original_source's diagnostic_id enum.
type ID int

const (
	InvalidUTF8 ID = iota
	MissingFinalNewline
	IncompleteBlockComment
	AmbiguousLex
	StrayQuote
	UndefCharInHeaderName
	CannotOpenFile
	MacroRedefinition
	VAArgsMisuse
	MismatchedConditional
	IncludeDepthExceeded
	TokenConversionFailed
	StringLiteralPrefixClash
	NonCSourceExtension
	UnknownPragma
	TranslationLimitExceeded
	MalformedDirective
	ErrorDirective
	UCNFromPaste
	PreviousDefinitionHere
	ExpandedFromHere
	IncludedHere
	MacroDefinedHere
	ParseError
)

type descriptor struct {
	category Category
	citation string
	pattern  string
}

var registry = map[ID]descriptor{
	InvalidUTF8:              {Error, "[5.2.1.2]", "invalid UTF-8 byte sequence"},
	MissingFinalNewline:      {Error, "[5.1.1.2]/2", "source file does not end in a newline"},
	IncompleteBlockComment:   {Error, "[6.4.9]", "unterminated block comment"},
	AmbiguousLex:             {Error, "[6.4]/1", "ambiguous preprocessing token lex at this position"},
	StrayQuote:               {UndefinedBehavior, "[6.4]/1", "stray unmatched quote character"},
	UndefCharInHeaderName:    {UndefinedBehavior, "[6.4.7]/3", "undefined behavior: %s inside a header-name"},
	CannotOpenFile:           {Error, "[6.10.2]", "cannot open file %q"},
	MacroRedefinition:        {Error, "[6.10.3]/2", "redefinition of macro %q is not identical to a previous definition"},
	VAArgsMisuse:             {Error, "[6.10.3]/5", "__VA_ARGS__ used outside a variadic macro"},
	MismatchedConditional:    {Error, "[6.10.1]", "%s without matching #if"},
	IncludeDepthExceeded:     {Error, "[6.10.2]", "#include nested too deeply (limit %d)"},
	TokenConversionFailed:    {Error, "[6.4]", "preprocessing token %q cannot be converted to a token"},
	StringLiteralPrefixClash: {Error, "[6.4.5]/5", "adjacent string literals have incompatible encoding prefixes"},
	NonCSourceExtension:      {Warning, "", "input file %q does not have a .c extension"},
	UnknownPragma:            {Warning, "[6.10.6]", "unknown #pragma %q ignored"},
	TranslationLimitExceeded: {Warning, "[5.2.4.1]", "translation limit exceeded: %s"},
	MalformedDirective:       {Error, "[6.10]", "malformed %s directive: %s"},
	ErrorDirective:           {Error, "[6.10.5]", "%s"},
	UCNFromPaste:             {UndefinedBehavior, "[6.10.3.3]/3", "## produced a universal-character-name"},
	PreviousDefinitionHere:   {Auxiliary, "", "previous definition is here"},
	ExpandedFromHere:         {Auxiliary, "", "expanded from macro %q here"},
	IncludedHere:             {Auxiliary, "", "included here"},
	MacroDefinedHere:         {Auxiliary, "", "macro defined here"},
	ParseError:               {Error, "[6.5]/[6.7]", "%s"},
}

// Diagnostic is one reported condition, located and optionally annotated
// with auxiliary follow-on notes (spec.md section 7's "Auxiliary"
// category, always attached to a primary diagnostic).
type Diagnostic struct {
	ID       ID
	Category Category
	Message  string
	Citation string
	Loc      source.Location
	Notes    []Diagnostic
}

// New constructs a Diagnostic for id at loc, formatting its registered
// message pattern with args.
func New(id ID, loc source.Location, args ...any) Diagnostic {
	d, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("diag: unregistered diagnostic id %d", id))
	}
	return Diagnostic{
		ID:       id,
		Category: d.category,
		Message:  fmt.Sprintf(d.pattern, args...),
		Citation: d.citation,
		Loc:      loc,
	}
}

// Note attaches an auxiliary diagnostic to d and returns d for chaining.
func (d Diagnostic) Note(id ID, loc source.Location, args ...any) Diagnostic {
	d.Notes = append(d.Notes, New(id, loc, args...))
	return d
}

// Sink accumulates diagnostics in discovery order, as spec.md section 7
// requires ("diagnostics are emitted in discovery order").
type Sink struct {
	diags []Diagnostic
}

// Report appends d (and any of its Notes) to the sink.
func (s *Sink) Report(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// All returns every reported diagnostic in discovery order.
func (s *Sink) All() []Diagnostic { return s.diags }

// HasErrors reports whether any reported diagnostic is Error-category;
// this drives the process exit code (spec.md section 6).
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Category == Error {
			return true
		}
	}
	return false
}

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	ubStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	noteStyle  = lipgloss.NewStyle().Faint(true)
)

func categoryStyle(c Category) lipgloss.Style {
	switch c {
	case Error:
		return errorStyle
	case Warning:
		return warnStyle
	case UndefinedBehavior:
		return ubStyle
	default:
		return noteStyle
	}
}

// Render writes every diagnostic in s to w in the
// "<file>:<line>:<col>: <category>: <message> [citation]" format
// mandated by spec.md section 6, followed by the cited source line and
// a column-aligned caret, then any auxiliary notes.
func (s *Sink) Render(w io.Writer, color bool) {
	for _, d := range s.diags {
		renderOne(w, d, color)
		for _, note := range d.Notes {
			renderOne(w, note, color)
		}
	}
}

func renderOne(w io.Writer, d Diagnostic, color bool) {
	spelling := source.FindSpellingLoc(d.Loc)
	file, line, col := "<unknown>", 0, 0
	rawLine := 0
	if spelling.Buffer != nil {
		file, line, col = spelling.Buffer.PresumedLineCol(spelling.Offset)
		rawLine, _ = spelling.Buffer.LineCol(spelling.Offset)
	}

	label := d.Category.String()
	if color {
		label = categoryStyle(d.Category).Render(label)
	}

	citation := ""
	if d.Citation != "" {
		citation = " " + d.Citation
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s%s\n", file, line, col, label, d.Message, citation)

	if spelling.Buffer != nil && rawLine > 0 {
		lineText := spelling.Buffer.GetLine(rawLine)
		fmt.Fprintf(w, "%s\n", lineText)
		fmt.Fprintf(w, "%s^\n", caretPrefix(lineText, col))
	}
}

// caretPrefix builds the whitespace run preceding a diagnostic caret,
// preserving tabs and counting UTF-8 continuation bytes as zero-width,
// per spec.md section 6.
func caretPrefix(line string, col int) string {
	var b strings.Builder
	bytes := []byte(line)
	col--
	for i := 0; i < len(bytes) && col > 0; i++ {
		if bytes[i]&0xC0 == 0x80 {
			continue // UTF-8 continuation byte contributes zero width
		}
		if bytes[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		col--
	}
	return b.String()
}
