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

// Package ccmacro holds the macro table spec.md section 4.6 operates
// over. It generalizes the teacher's package-level cc.Macros
// map[string]int (cc/macros.go) -- built only to evaluate #if/#elif
// integer constants -- into the full object-like/function-like macro
// definition record a real preprocessor needs, while keeping the
// teacher's "macro table is a flat name->definition map" shape.
package ccmacro

import (
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

// Macro is one #define'd name's current definition, spec.md section 3
// "Macro".
type Macro struct {
	Name           string
	DefinitionLoc  source.Location
	Params         []string
	Variadic       bool
	FunctionLike   bool
	Body           []lexer.Token
	Predefined     bool

	// BeingReplaced is not set or read by package pp's expansion code.
	// Recursive self-reference is blocked there by a set of the macro
	// names whose replacement lists are being rescanned; a name found
	// in that set is emitted unexpanded with Token.Blue set.
	BeingReplaced bool
}

// SameDefinition reports whether m and other are "identical" in the
// sense [6.10.3]/2 requires for a legal redefinition: same kind
// (object/function-like), same parameter spelling and order, and
// token sequences that agree kind-for-kind and spelling-for-spelling.
// Whitespace tokens are dropped before the comparison, so neither the
// amount nor the presence of whitespace between tokens is compared.
func (m Macro) SameDefinition(other Macro) bool {
	if m.FunctionLike != other.FunctionLike || m.Variadic != other.Variadic {
		return false
	}
	if len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	significant := func(toks []lexer.Token) []lexer.Token {
		var out []lexer.Token
		for _, t := range toks {
			if t.IsWhitespaceLike() {
				continue
			}
			out = append(out, t)
		}
		return out
	}
	a, b := significant(m.Body), significant(other.Body)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Spelling != b[i].Spelling {
			return false
		}
	}
	return true
}

// Table is the flat name->definition map spec.md section 4.6 requires,
// generalizing the teacher's cc.Macros map[string]int.
type Table map[string]*Macro

// NewTable returns an empty macro table.
func NewTable() Table { return make(Table) }

// Define installs def, overwriting any previous definition.
func (t Table) Define(def *Macro) { t[def.Name] = def }

// Undefine removes name's definition, if any, per [6.10.3.5].
func (t Table) Undefine(name string) { delete(t, name) }

// Lookup returns name's current definition, if defined.
func (t Table) Lookup(name string) (*Macro, bool) {
	m, ok := t[name]
	return m, ok
}

// IsDefined reports whether name has a current definition, the
// predicate the `defined` operator and #ifdef/#ifndef consult.
func (t Table) IsDefined(name string) bool {
	_, ok := t[name]
	return ok
}
