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

package source

// Location is a (buffer, byte_offset) pair, spec.md section 3
// "Location". ExpandedFrom optionally chains to the macro-invocation
// site a token's spelling was produced from; the chain is capped at
// depth 10 (spec.md section 9, "Cyclic provenance") to bound memory
// during deeply nested variadic expansions.
type Location struct {
	Buffer       *Buffer
	Offset       int
	ExpandedFrom *ExpansionSite
}

// ExpansionSite records one hop of macro-expansion provenance: the
// macro name and the location of its invocation.
type ExpansionSite struct {
	MacroName string
	Invoked   Location
	depth     int
}

const maxExpansionDepth = 10

// ExpandedFrom returns a Location identical to loc but with one more
// expansion-provenance hop recorded, or loc unchanged if the chain has
// already reached maxExpansionDepth.
func ExpandedFrom(loc Location, macroName string, invoked Location) Location {
	depth := 1
	if loc.ExpandedFrom != nil {
		depth = loc.ExpandedFrom.depth + 1
	}
	if depth > maxExpansionDepth {
		return loc
	}
	loc.ExpandedFrom = &ExpansionSite{MacroName: macroName, Invoked: invoked, depth: depth}
	return loc
}

// Range is a half-open pair of locations spanning a token or node,
// spec.md section 3 "Token": Range.End >= Range.Begin, both within the
// same buffer.
type Range struct {
	Begin, End Location
}

// FindSpellingLoc walks derived->parent via the fragment table until it
// lands in a raw buffer, returning the location diagnostics should cite.
// spec.md section 8 invariant: terminates in some raw buffer at an
// offset <= len(raw.data).
func FindSpellingLoc(loc Location) Location {
	for loc.Buffer != nil && !loc.Buffer.IsRaw() {
		parentOffset := loc.Buffer.offsetInOriginal(loc.Offset)
		loc = Location{Buffer: loc.Buffer.parent, Offset: parentOffset, ExpandedFrom: loc.ExpandedFrom}
	}
	return loc
}
