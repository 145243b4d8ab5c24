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

package parse

import (
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

// Declarator precedence: only two levels are needed, since `*` binds
// looser than the postfix `(...)`/`[...]` declarator forms, [6.7.6]/3:
// pointer declarators group right-to-left; function and array
// declarators group left-to-right and bind tighter, which the
// recursive-call structure of starDeclRule/parenDeclRule below
// expresses directly rather than through the precedence table.
const (
	declPrecNone = iota
	declPrecPostfix
)

var qualifierKeywords = map[cctoken.KeywordKind]bool{
	cctoken.KwConst: true, cctoken.KwVolatile: true,
	cctoken.KwRestrict: true, cctoken.KwAtomic: true,
}

// declaratorCanStart reports whether tok can begin a direct-declarator
// or pointer: an identifier, `*`, or `(`. Anything else — `)`, `,`,
// `]`, EOF — means the declarator position is empty, the
// abstract-placeholder case spec.md's canonical example
// `int (*fp)(char*, ...)` exercises for its unnamed parameter types
// (e.g. `char*` has no identifier to attach to).
func declaratorCanStart(tok lexer.Token) bool {
	if tok.Kind == cctoken.Identifier {
		return true
	}
	if tok.Kind != cctoken.Punctuator {
		return false
	}
	return tok.Punctuator == cctoken.Star || tok.Punctuator == cctoken.ParenLeft
}

// NewDeclaratorRuleset builds the second of the two rulesets spec.md
// section 4.8 names, covering the direct-declarator/pointer/abstract-
// declarator grammar of [6.7.6]. Leading declaration-specifiers
// (type-specifier and type-qualifier keywords, [6.7]) are read outside
// this ruleset by parseSpecifiers below, since they precede rather
// than compose with a declarator.
func NewDeclaratorRuleset() *Ruleset {
	rs := newRuleset("declarator")
	rs.isPlaceholder = func(tok lexer.Token) bool { return !declaratorCanStart(tok) }

	rs.prefix(ruleKey{Kind: cctoken.Identifier}, identDeclRule)
	rs.prefix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.Star}, starDeclRule)
	rs.prefix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.ParenLeft}, parenDeclRule)

	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.SquareLeft}, declPrecPostfix, arrayDeclRule)
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.ParenLeft}, declPrecPostfix, funcDeclRule)

	return rs
}

func identDeclRule(p *Parser) *Node { return leaf(p.prevTok) }

// starDeclRule parses a pointer declarator: `*` type-qualifier-list?
// declarator. It recurses for the rest of the declarator (rather than
// just returning so the caller's postfix loop picks it up) because a
// pointer wraps its ENTIRE remaining direct-declarator, including any
// array/function suffixes — `*a[3]` is "array 3 of pointer to T", not
// "pointer to array 3 of T" ([6.7.6]/1 example).
func starDeclRule(p *Parser) *Node {
	star := p.prevTok
	for p.peek().Kind == cctoken.Keyword && qualifierKeywords[p.peek().Keyword] {
		p.advance()
	}
	inner := p.parse(declPrecNone)
	return &Node{Kind: DeclaratorPointer, Tok: star, Children: []*Node{inner}}
}

// parenDeclRule parses a parenthesized sub-declarator, the form that
// lets a pointer bind to a function/array declarator instead of to its
// return type or element type, e.g. `(*fp)(char*, ...)`.
func parenDeclRule(p *Parser) *Node {
	open := p.prevTok
	inner := p.parse(declPrecNone)
	p.expectPunct(cctoken.ParenRight, "`)` closing parenthesized declarator")
	return &Node{Kind: Paren, Tok: open, Children: []*Node{inner}}
}

func arrayDeclRule(p *Parser, left *Node) *Node {
	open := p.prevTok
	var size *Node
	if !(p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.SquareRight) {
		p.push(NewExpressionRuleset())
		size = p.parse(precAssign)
		p.pop()
	}
	p.expectPunct(cctoken.SquareRight, "`]` closing array declarator")
	children := []*Node{left, size}
	return &Node{Kind: DeclaratorArray, Tok: open, Children: children}
}

func funcDeclRule(p *Parser, left *Node) *Node {
	open := p.prevTok
	children := []*Node{left}
	for !(p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.ParenRight) {
		if p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.Ellipsis {
			children = append(children, leaf(p.advance()))
			break
		}
		children = append(children, parseParameterDeclaration(p))
		if p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(cctoken.ParenRight, "`)` closing parameter list")
	return &Node{Kind: DeclaratorFunction, Tok: open, Children: children}
}

// parseParameterDeclaration parses one parameter-declaration,
// [6.7.6]/1: declaration-specifiers followed by a (possibly abstract,
// possibly absent) declarator.
func parseParameterDeclaration(p *Parser) *Node {
	return parseAbstractDeclarator(p)
}

// parseAbstractDeclarator reads a full declaration-specifier run
// (spec.md section 4.8's cast/sizeof "type" operand, and each
// parameter-declaration in funcDeclRule above), then switches into the
// declarator ruleset for whatever pointer/paren/array/function/
// identifier form follows, wrapping the result in the specifier node
// spec.md names. It is the parser's one recognized entry point for
// "parse a type", shared by cast, sizeof, and parameter lists.
func parseAbstractDeclarator(p *Parser) *Node {
	spec := parseSpecifiers(p)

	p.push(NewDeclaratorRuleset())
	decl := p.parse(declPrecNone)
	p.pop()

	spec.Children = append(spec.Children, decl)
	return spec
}

// parseSpecifiers consumes the leading run of type-specifier and
// type-qualifier keywords, [6.7.2]/[6.7.3], folding struct/union/enum's
// optional tag identifier into a Tag child. C permits multiple
// specifier keywords (`unsigned long long`, `const int`); this builds
// one DeclaratorSpecifier node per keyword, nested so the last
// keyword read ends up outermost.
func parseSpecifiers(p *Parser) *Node {
	var spec *Node
	for p.peek().Kind == cctoken.Keyword && cctoken.TypeSpecifierKeywords[p.peek().Keyword] {
		tok := p.advance()
		node := &Node{Kind: DeclaratorSpecifier, Tok: tok}
		if isTagKeyword(tok.Keyword) && p.peek().Kind == cctoken.Identifier {
			tagTok := p.advance()
			node.Children = append(node.Children, &Node{Kind: Tag, Tok: tagTok, TagName: tagTok.Spelling})
		}
		if spec == nil {
			spec = node
		} else {
			node.Children = append(node.Children, spec)
			spec = node
		}
	}
	if spec == nil {
		spec = &Node{Kind: DeclaratorSpecifier}
	}
	return spec
}

func isTagKeyword(k cctoken.KeywordKind) bool {
	return k == cctoken.KwStruct || k == cctoken.KwUnion || k == cctoken.KwEnum
}

// ParseDeclarator parses toks (e.g. `int (*fp)(char*, ...)`) as a
// complete declaration-specifiers + declarator, the entry point
// cmd/cc11's parse-declarator debugging subcommand drives.
func ParseDeclarator(toks []lexer.Token, sink *diag.Sink, typedefNames collections.Set[string]) *Node {
	p := NewParser(toks, sink, typedefNames)
	if p.atEnd() {
		return nil
	}
	return parseAbstractDeclarator(p)
}
