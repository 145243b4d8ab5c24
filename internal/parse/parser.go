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
	"fmt"

	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/collections"
	"github.com/cc11/frontend/internal/diag"
	"github.com/cc11/frontend/internal/lexer"
)

// Parser drives the shared Pratt core of spec.md section 4.8 over a
// fixed token slice (phase 7 has already dropped whitespace/newline
// tokens and reclassified keywords by the time a Parser runs), with a
// ruleset stack so one ruleset's rule can nest a switch to the other
// (e.g. a declarator's array-size expression, or a cast's abstract
// declarator inside parens), generalized from the rami3l/golox
// compiler's single fixed-ruleset parsePrec loop (other_examples).
type Parser struct {
	toks []lexer.Token
	pos  int

	prevTok lexer.Token
	sink    *diag.Sink

	stack []*Ruleset

	// typedefNames is consulted by the cast/grouping disambiguation
	// rule: an identifier that names a typedef starts a type, any other
	// identifier starts an expression.
	typedefNames collections.Set[string]
}

// NewParser constructs a Parser over toks, reporting diagnostics to
// sink and consulting typedefNames for cast-vs-parenthesization
// disambiguation ([6.7.7], spec.md section 4.8).
func NewParser(toks []lexer.Token, sink *diag.Sink, typedefNames collections.Set[string]) *Parser {
	if typedefNames == nil {
		typedefNames = make(collections.Set[string])
	}
	return &Parser{toks: toks, sink: sink, typedefNames: typedefNames}
}

// ParseExpression parses toks as a single C expression, [6.5], the
// entry point cmd/cc11's parse-expr debugging subcommand drives.
func ParseExpression(toks []lexer.Token, sink *diag.Sink, typedefNames collections.Set[string]) *Node {
	p := NewParser(toks, sink, typedefNames)
	return p.Parse(NewExpressionRuleset())
}

func (p *Parser) push(rs *Ruleset) { p.stack = append(p.stack, rs) }

func (p *Parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Parser) current() *Ruleset {
	return p.stack[len(p.stack)-1]
}

// atEnd reports whether the parser has consumed every non-EOF token.
func (p *Parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Kind == cctoken.EOF
}

// peek returns the next unconsumed token without consuming it. Past
// the end of the stream it returns a synthetic EOF token so rules can
// always inspect "the next token" uniformly.
func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: cctoken.EOF}
	}
	return p.toks[p.pos]
}

// peekAt looks ahead n tokens past the current position without
// consuming anything, used by the cast-vs-paren lookahead.
func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return lexer.Token{Kind: cctoken.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	p.prevTok = tok
	return tok
}

// expectPunct consumes the next token if it is the punctuator k,
// diagnosing diag.ParseError and leaving the cursor in place otherwise.
func (p *Parser) expectPunct(k cctoken.PunctuatorKind, what string) bool {
	tok := p.peek()
	if tok.Kind == cctoken.Punctuator && tok.Punctuator == k {
		p.advance()
		return true
	}
	p.errorf(tok, "expected %s", what)
	return false
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) {
	p.sink.Report(diag.New(diag.ParseError, tok.Range.Begin, fmt.Sprintf(format, args...)))
}

// Parse runs the Pratt core seeded with rs as the outermost ruleset and
// returns the single resulting node, or nil if the token stream was
// empty. If no prefix rule matches the first token, parse diagnoses it
// and returns that token as a Leaf node.
func (p *Parser) Parse(rs *Ruleset) *Node {
	p.push(rs)
	defer p.pop()
	if p.atEnd() {
		return nil
	}
	return p.parse(0)
}

// parse is the Pratt core: spec.md section 4.8's parse(min_prec).
// It consumes one token, dispatches its unique matching prefix rule
// (or treats an isPlaceholder match as an empty abstract declarator),
// then repeatedly consumes infix rules whose precedence exceeds
// minPrec.
func (p *Parser) parse(minPrec int) *Node {
	rs := p.current()

	if rs.isPlaceholder != nil && rs.isPlaceholder(p.peek()) {
		return &Node{Kind: AbstractPlaceholder, Tok: p.peek()}
	}

	tok := p.advance()
	entry, ok := rs.rules[keyOf(tok)]
	if !ok || entry.prefix == nil {
		p.errorf(tok, "unexpected token %q", tok.Spelling)
		return &Node{Kind: Leaf, Tok: tok}
	}
	left := entry.prefix(p)

	for {
		if p.atEnd() {
			break
		}
		next := p.peek()
		nextEntry, ok := rs.rules[keyOf(next)]
		if !ok || nextEntry.infix == nil || nextEntry.prec <= minPrec {
			break
		}
		p.advance()
		left = nextEntry.infix(p, left)
	}
	return left
}
