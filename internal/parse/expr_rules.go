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

import "github.com/cc11/frontend/internal/cctoken"

// Expression precedence ladder, spec.md section 4.8, lowest to
// highest. Binary operators bind left-to-right except assignment,
// which binaryRule makes right-associative by recursing at prec-1
// instead of prec. ternaryRule parses the middle operand at precNone
// and the else operand at precTernary-1, so `?:` also groups to the
// right.
const (
	precNone = iota
	precComma
	precAssign
	precTernary
	precLogOr
	precLogAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

// NewExpressionRuleset builds the ruleset parse.exprRuleset-equivalent
// for C expressions, [6.5]. It is exported so the declarator ruleset
// can push it for an array's size sub-expression or a cast operand.
func NewExpressionRuleset() *Ruleset {
	rs := newRuleset("expression")

	leafKinds := []cctoken.Kind{
		cctoken.Identifier, cctoken.IntegerConstant, cctoken.FloatingConstant,
		cctoken.StringLiteral, cctoken.CharacterConstant,
	}
	for _, k := range leafKinds {
		rs.prefix(ruleKey{Kind: k}, leafRule)
	}

	prefixUnary := func(punct cctoken.PunctuatorKind) {
		rs.prefix(ruleKey{Kind: cctoken.Punctuator, Punct: punct}, unaryPrefixRule)
	}
	prefixUnary(cctoken.Plus)
	prefixUnary(cctoken.Minus)
	prefixUnary(cctoken.Bang)
	prefixUnary(cctoken.Tilde)
	prefixUnary(cctoken.Star)
	prefixUnary(cctoken.Ampersand)
	prefixUnary(cctoken.PlusPlus)
	prefixUnary(cctoken.MinusMinus)
	rs.prefix(ruleKey{Kind: cctoken.Keyword, Keyword: cctoken.KwSizeof}, sizeofPrefixRule)

	rs.prefix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.ParenLeft}, parenPrefixRule)

	binary := func(punct cctoken.PunctuatorKind, prec int) {
		rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: punct}, prec, binaryRule(prec, false))
	}
	binary(cctoken.Star, precMultiplicative)
	binary(cctoken.Slash, precMultiplicative)
	binary(cctoken.Percent, precMultiplicative)
	binary(cctoken.Plus, precAdditive)
	binary(cctoken.Minus, precAdditive)
	binary(cctoken.LessLess, precShift)
	binary(cctoken.GreaterGreater, precShift)
	binary(cctoken.Less, precRelational)
	binary(cctoken.Greater, precRelational)
	binary(cctoken.LessEqual, precRelational)
	binary(cctoken.GreaterEqual, precRelational)
	binary(cctoken.EqualEqual, precEquality)
	binary(cctoken.BangEqual, precEquality)
	binary(cctoken.Ampersand, precBitAnd)
	binary(cctoken.Caret, precBitXor)
	binary(cctoken.Pipe, precBitOr)
	binary(cctoken.AmpersandAmpersand, precLogAnd)
	binary(cctoken.PipePipe, precLogOr)

	rightAssign := func(punct cctoken.PunctuatorKind) {
		rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: punct}, precAssign, binaryRule(precAssign, true))
	}
	rightAssign(cctoken.Equal)
	rightAssign(cctoken.StarEqual)
	rightAssign(cctoken.SlashEqual)
	rightAssign(cctoken.PercentEqual)
	rightAssign(cctoken.PlusEqual)
	rightAssign(cctoken.MinusEqual)
	rightAssign(cctoken.LessLessEqual)
	rightAssign(cctoken.GreaterGreaterEqual)
	rightAssign(cctoken.AmpersandEqual)
	rightAssign(cctoken.CaretEqual)
	rightAssign(cctoken.PipeEqual)

	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.Question}, precTernary, ternaryRule)
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.Comma}, precComma, binaryRule(precComma, false))

	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.ParenLeft}, precPostfix, callRule)
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.SquareLeft}, precPostfix, indexRule)
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.Dot}, precPostfix, memberRule(false))
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.Arrow}, precPostfix, memberRule(true))
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.PlusPlus}, precPostfix, postfixRule)
	rs.infix(ruleKey{Kind: cctoken.Punctuator, Punct: cctoken.MinusMinus}, precPostfix, postfixRule)

	return rs
}

func leafRule(p *Parser) *Node { return leaf(p.prevTok) }

func unaryPrefixRule(p *Parser) *Node {
	op := p.prevTok
	operand := p.parse(precUnary - 1)
	return &Node{Kind: Unary, Tok: op, Children: []*Node{operand}}
}

func sizeofPrefixRule(p *Parser) *Node {
	op := p.prevTok
	if p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.ParenLeft &&
		looksLikeTypeStart(p, 1) {
		p.advance() // consume '('
		decl := parseAbstractDeclarator(p)
		p.expectPunct(cctoken.ParenRight, "`)` closing sizeof's parenthesized type")
		return &Node{Kind: Unary, Tok: op, Children: []*Node{decl}}
	}
	operand := p.parse(precUnary - 1)
	return &Node{Kind: Unary, Tok: op, Children: []*Node{operand}}
}

// binaryRule builds an infixRule for a left-associative (rightAssoc ==
// false) or right-associative operator at precedence prec. Right
// associativity is encoded, per spec.md section 4.8, by recursing at
// prec-1 rather than prec so a same-precedence operator to the right
// is consumed by this call rather than returned to the caller's loop.
func binaryRule(prec int, rightAssoc bool) infixRule {
	minPrec := prec
	if rightAssoc {
		minPrec = prec - 1
	}
	return func(p *Parser, left *Node) *Node {
		op := p.prevTok
		right := p.parse(minPrec)
		return &Node{Kind: Binary, Tok: op, Children: []*Node{left, right}}
	}
}

func ternaryRule(p *Parser, cond *Node) *Node {
	op := p.prevTok
	then := p.parse(precNone)
	p.expectPunct(cctoken.Colon, "`:` in conditional expression")
	els := p.parse(precTernary - 1)
	return &Node{Kind: Ternary, Tok: op, Children: []*Node{cond, then, els}}
}

func callRule(p *Parser, callee *Node) *Node {
	op := p.prevTok
	children := []*Node{callee}
	if !(p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.ParenRight) {
		for {
			children = append(children, p.parse(precAssign))
			if p.peek().Kind == cctoken.Punctuator && p.peek().Punctuator == cctoken.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	p.expectPunct(cctoken.ParenRight, "`)` closing call argument list")
	return &Node{Kind: Call, Tok: op, Children: children}
}

func indexRule(p *Parser, left *Node) *Node {
	op := p.prevTok
	idx := p.parse(precNone)
	p.expectPunct(cctoken.SquareRight, "`]` closing array subscript")
	return &Node{Kind: Binary, Tok: op, Children: []*Node{left, idx}}
}

func memberRule(arrow bool) infixRule {
	return func(p *Parser, left *Node) *Node {
		op := p.prevTok
		member := p.advance()
		return &Node{Kind: Unary, Tok: op, Postfix: arrow, Children: []*Node{left, leaf(member)}}
	}
}

func postfixRule(p *Parser, left *Node) *Node {
	op := p.prevTok
	return &Node{Kind: Unary, Tok: op, Postfix: true, Children: []*Node{left}}
}

// parenPrefixRule disambiguates `(type)expr` casts from `(expr)`
// parenthesization, [6.5.4], by peeking whether the token following
// `(` could only start a type (spec.md section 4.8's "could this be an
// expression" test, applied in the negative).
func parenPrefixRule(p *Parser) *Node {
	op := p.prevTok
	if looksLikeTypeStart(p, 0) {
		decl := parseAbstractDeclarator(p)
		p.expectPunct(cctoken.ParenRight, "`)` closing cast type")
		operand := p.parse(precUnary - 1)
		return &Node{Kind: Cast, Tok: op, Children: []*Node{decl, operand}}
	}
	inner := p.parse(precNone)
	p.expectPunct(cctoken.ParenRight, "`)` closing parenthesized expression")
	return &Node{Kind: Paren, Tok: op, Children: []*Node{inner}}
}

// looksLikeTypeStart reports whether the token n positions past the
// current cursor begins a type-name: a type-specifier/qualifier
// keyword, or an identifier bound as a typedef name. Any other
// identifier is expression-capable and takes priority, per [6.5.4]'s
// "shall not be ambiguous" proviso resolved by symbol-table lookup.
func looksLikeTypeStart(p *Parser, n int) bool {
	tok := p.peekAt(n)
	if tok.Kind == cctoken.Keyword && cctoken.TypeSpecifierKeywords[tok.Keyword] {
		return true
	}
	if tok.Kind == cctoken.Identifier && p.typedefNames.Contains(tok.Spelling) {
		return true
	}
	return false
}
