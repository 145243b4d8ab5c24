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
	"strings"

	"github.com/cc11/frontend/internal/ccmacro"
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

const variadicParam = "__VA_ARGS__"

// expandOne consumes zero or more further tokens from ss (for a
// function-like macro's argument list) and either emits tok verbatim
// or pushes its fully substituted replacement list onto ss for rescan,
// [6.10.3.4].
func expandOne(macros Table, sink *diag.Sink, ss *streamState, tok lexer.Token, emit func(lexer.Token)) {
	if tok.Kind != cctoken.Identifier {
		emit(tok)
		return
	}
	name := tok.Spelling
	def, ok := macros.Lookup(name)
	if !ok {
		emit(tok)
		return
	}
	if ss.active.Contains(name) {
		tok.Blue = true
		emit(tok)
		return
	}

	if !def.FunctionLike {
		if def.Predefined {
			if body, ok := dynamicBody(name, tok.Range.Begin); ok {
				ss.push(body, name)
				return
			}
		}
		body := substitute(macros, sink, def, nil, tok.Range.Begin)
		ss.push(body, name)
		return
	}

	var skipped []lexer.Token
	for {
		p := ss.peek()
		if p.Kind == cctoken.Space || p.Kind == cctoken.Newline {
			skipped = append(skipped, p)
			ss.advance()
			continue
		}
		break
	}
	p := ss.peek()
	if !(p.Kind == cctoken.Punctuator && p.Punctuator == cctoken.ParenLeft) {
		emit(tok)
		for _, s := range skipped {
			emit(s)
		}
		return
	}
	ss.advance() // consume '('

	groups, ok := parseArgs(sink, ss, tok)
	if !ok {
		emit(tok)
		return
	}
	args := bindArguments(macros, sink, def, groups, tok.Range.Begin)
	body := substitute(macros, sink, def, args, tok.Range.Begin)
	ss.push(body, name)
}

// parseArgs collects a function-like macro invocation's argument
// groups, splitting on top-level commas and tracking parenthesis
// nesting, [6.10.3]/11. The opening '(' must already be consumed.
func parseArgs(sink *diag.Sink, ss *streamState, nameTok lexer.Token) ([][]lexer.Token, bool) {
	var groups [][]lexer.Token
	var current []lexer.Token
	depth := 0
	for {
		t := ss.peek()
		if t.Kind == cctoken.EOF {
			sink.Report(diag.New(diag.MalformedDirective, nameTok.Range.Begin, "macro invocation", "unterminated argument list"))
			return nil, false
		}
		ss.advance()
		if t.Kind == cctoken.Punctuator {
			switch t.Punctuator {
			case cctoken.ParenLeft:
				depth++
			case cctoken.ParenRight:
				if depth == 0 {
					groups = append(groups, current)
					return groups, true
				}
				depth--
			case cctoken.Comma:
				if depth == 0 {
					groups = append(groups, current)
					current = nil
					continue
				}
			}
		}
		current = append(current, t)
	}
}

func filterSpace(toks []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, t := range toks {
		if t.Kind == cctoken.Space || t.Kind == cctoken.Newline {
			continue
		}
		out = append(out, t)
	}
	return out
}

func trimSpaceEnds(toks []lexer.Token) []lexer.Token {
	i, j := 0, len(toks)
	for i < j && toks[i].Kind == cctoken.Space {
		i++
	}
	for j > i && toks[j-1].Kind == cctoken.Space {
		j--
	}
	return toks[i:j]
}

// boundArgs holds, per parameter name, the three views of its
// argument text [6.10.3.1]/1 substitution needs: the raw spelling
// (with internal whitespace presence preserved, for `#` stringizing),
// the same with whitespace dropped (for `##` pasting), and the fully
// macro-expanded form (for plain substitution).
type boundArgs struct {
	rawWithSpace map[string][]lexer.Token
	raw          map[string][]lexer.Token
	expanded     map[string][]lexer.Token
	hasVarArgs   bool
}

func bindArguments(macros Table, sink *diag.Sink, def *ccmacro.Macro, groups [][]lexer.Token, loc source.Location) *boundArgs {
	b := &boundArgs{
		rawWithSpace: make(map[string][]lexer.Token),
		raw:          make(map[string][]lexer.Token),
		expanded:     make(map[string][]lexer.Token),
	}
	get := func(i int) []lexer.Token {
		if i < len(groups) {
			return trimSpaceEnds(groups[i])
		}
		return nil
	}
	for i, name := range def.Params {
		withSpace := get(i)
		b.rawWithSpace[name] = withSpace
		raw := filterSpace(withSpace)
		b.raw[name] = raw
		b.expanded[name] = expandArgument(macros, sink, raw)
	}
	if def.Variadic {
		var varGroups [][]lexer.Token
		if len(groups) > len(def.Params) {
			varGroups = groups[len(def.Params):]
		}
		var joined []lexer.Token
		for i, g := range varGroups {
			if i > 0 {
				joined = append(joined,
					lexer.Token{Kind: cctoken.Punctuator, Punctuator: cctoken.Comma, Spelling: ","},
					lexer.Token{Kind: cctoken.Space, Spelling: " "},
				)
			}
			joined = append(joined, trimSpaceEnds(g)...)
		}
		b.rawWithSpace[variadicParam] = joined
		raw := filterSpace(joined)
		b.raw[variadicParam] = raw
		b.expanded[variadicParam] = expandArgument(macros, sink, raw)
		b.hasVarArgs = true
	}
	return b
}

// expandArgument fully macro-expands an argument's token sequence in
// isolation before it is spliced into a plain (non-#, non-##)
// parameter reference, [6.10.3.1]/1. active is the shared hideset, so
// an argument cannot reintroduce a macro already being replaced in the
// enclosing invocation.
func expandArgument(macros Table, sink *diag.Sink, toks []lexer.Token) []lexer.Token {
	local := &streamState{active: make(collections.Set[string])}
	local.push(toks, "")
	var out []lexer.Token
	for {
		t := local.peek()
		if t.Kind == cctoken.EOF {
			break
		}
		local.advance()
		expandOne(macros, sink, local, t, func(tok lexer.Token) { out = append(out, tok) })
	}
	return out
}

// substitute builds a macro's replacement list: it stringizes `#`
// operands, pastes `##` operands, splices in fully expanded parameter
// references, and copies every other body token unchanged,
// [6.10.3.2]/[6.10.3.3]. args is nil for an object-like macro.
func substitute(macros Table, sink *diag.Sink, def *ccmacro.Macro, args *boundArgs, loc source.Location) []lexer.Token {
	body := filterSpace(def.Body)
	isParam := func(name string) bool {
		if args == nil {
			return false
		}
		if name == variadicParam {
			return args.hasVarArgs
		}
		_, ok := args.raw[name]
		return ok && containsParam(def.Params, name)
	}

	var result []lexer.Token
	i := 0
	for i < len(body) {
		tok := body[i]

		if tok.Kind == cctoken.Punctuator && isHash(tok.Punctuator) && args != nil {
			if i+1 < len(body) && body[i+1].Kind == cctoken.Identifier && isParam(body[i+1].Spelling) {
				pname := body[i+1].Spelling
				result = append(result, stringizeArgument(args.rawWithSpace[pname], loc))
				i += 2
				continue
			}
			// [6.10.3.2]/1: in a function-like macro's replacement list, `#`
			// must be followed by a parameter name.
			sink.Report(diag.New(diag.MalformedDirective, loc, "#", "not followed by a macro parameter"))
			i++
			continue
		}

		if tok.Kind == cctoken.Punctuator && isHashHash(tok.Punctuator) {
			rhsIdx := i + 1
			if rhsIdx >= len(body) {
				sink.Report(diag.New(diag.MalformedDirective, loc, "##", "at end of replacement list"))
				i++
				continue
			}
			rhsTok := body[rhsIdx]
			var rhsFirst *lexer.Token
			var rhsRest []lexer.Token
			if rhsTok.Kind == cctoken.Identifier && isParam(rhsTok.Spelling) {
				raw := args.raw[rhsTok.Spelling]
				if len(raw) > 0 {
					rhsFirst = &raw[0]
					rhsRest = raw[1:]
				}
			} else {
				rhsFirst = &rhsTok
			}
			if len(result) == 0 {
				if rhsFirst != nil {
					result = append(result, *rhsFirst)
					result = append(result, rhsRest...)
				}
				i = rhsIdx + 1
				continue
			}
			lhs := result[len(result)-1]
			result = result[:len(result)-1]
			if rhsFirst == nil {
				variadicRHS := rhsTok.Kind == cctoken.Identifier && rhsTok.Spelling == variadicParam
				lhsIsComma := lhs.Kind == cctoken.Punctuator && lhs.Punctuator == cctoken.Comma
				if !(variadicRHS && lhsIsComma) {
					// rhs is an empty argument: placemarker elided, [6.10.3.3]/2.
					result = append(result, lhs)
				}
				// else: `, ## __VA_ARGS__` with no variadic arguments deletes
				// the preceding comma too, the GNU/C23 extension open
				// question (c) adopts.
			} else {
				result = append(result, pasteTokens(sink, lhs, *rhsFirst, loc))
				result = append(result, rhsRest...)
			}
			i = rhsIdx + 1
			continue
		}

		if tok.Kind == cctoken.Identifier && isParam(tok.Spelling) {
			// An operand immediately to the left of ## is pasted, so it
			// must splice in its raw (unexpanded) tokens: the ## branch
			// below pops the last entry of result as its lhs.
			if i+1 < len(body) && body[i+1].Kind == cctoken.Punctuator && isHashHash(body[i+1].Punctuator) {
				result = append(result, args.raw[tok.Spelling]...)
			} else {
				result = append(result, args.expanded[tok.Spelling]...)
			}
			i++
			continue
		}

		if tok.Kind == cctoken.Identifier && tok.Spelling == variadicParam && (args == nil || !args.hasVarArgs) {
			sink.Report(diag.New(diag.VAArgsMisuse, loc))
		}

		tok.Range = source.Range{Begin: loc, End: loc}
		result = append(result, tok)
		i++
	}
	return result
}

func isHash(p cctoken.PunctuatorKind) bool {
	return p == cctoken.Hash || p == cctoken.DigraphPercentColon
}

func isHashHash(p cctoken.PunctuatorKind) bool {
	return p == cctoken.HashHash || p == cctoken.DigraphPercentColonPercentColon
}

func containsParam(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}

// stringizeArgument implements the `#` operator, [6.10.3.2]/2: each
// run of intervening whitespace becomes one space, leading/trailing
// whitespace is already trimmed by the caller, and `\` and `"` inside
// a string-literal or character-constant token are backslash-escaped.
func stringizeArgument(toks []lexer.Token, loc source.Location) lexer.Token {
	var b strings.Builder
	b.WriteByte('"')
	pendingSpace := false
	wrote := false
	for _, t := range toks {
		if t.Kind == cctoken.Space || t.Kind == cctoken.Newline {
			if wrote {
				pendingSpace = true
			}
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		if t.Kind == cctoken.StringLiteral || t.Kind == cctoken.CharacterConstant {
			b.WriteString(escapeForStringize(t.Spelling))
		} else {
			b.WriteString(t.Spelling)
		}
		wrote = true
	}
	b.WriteByte('"')
	return lexer.Token{
		Kind:     cctoken.StringLiteral,
		Spelling: b.String(),
		Range:    source.Range{Begin: loc, End: loc},
	}
}

var stringizeEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeForStringize(spelling string) string {
	return stringizeEscaper.Replace(spelling)
}

// pasteTokens implements `##`, [6.10.3.3]/3: the two token spellings
// are concatenated and re-lexed; if that does not yield exactly one
// preprocessing token the result is undefined behavior, diagnosed and
// passed through as a best-effort Other token.
func pasteTokens(sink *diag.Sink, lhs, rhs lexer.Token, loc source.Location) lexer.Token {
	combined := lhs.Spelling + rhs.Spelling
	toks := lexSynthetic(combined)
	if len(toks) == 1 && toks[0].Spelling == combined {
		pasted := toks[0]
		pasted.Range = source.Range{Begin: loc, End: loc}
		if pasted.Kind == cctoken.Identifier && (strings.Contains(combined, `\u`) || strings.Contains(combined, `\U`)) {
			sink.Report(diag.New(diag.UCNFromPaste, loc))
		}
		return pasted
	}
	sink.Report(diag.New(diag.TokenConversionFailed, loc, combined))
	return lexer.Token{Kind: cctoken.Other, Spelling: combined, Range: source.Range{Begin: loc, End: loc}}
}

func lexSynthetic(s string) []lexer.Token {
	buf := source.NewRawBuffer("<paste>", []byte(s))
	discard := &diag.Sink{}
	var out []lexer.Token
	for tok := range lexer.New(buf, discard).AllTokens() {
		if tok.Kind == cctoken.EOF {
			break
		}
		out = append(out, tok)
	}
	return out
}
