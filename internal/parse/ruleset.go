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
	"github.com/cc11/frontend/internal/lexer"
)

// ruleKey identifies a token for rule dispatch. Only the field(s)
// relevant to Kind are meaningful: Punct for Kind == Punctuator,
// Keyword for Kind == Keyword, neither for any other Kind (dispatch on
// Kind alone, e.g. Identifier/IntegerConstant/StringLiteral).
//
// spec.md section 4.8 describes rule selection as matching against an
// ordered list of predicates, diagnosing an internal error if more
// than one predicate matches. Using a plain map key is a deliberate
// simplification recorded in DESIGN.md: a map lookup is structurally
// unambiguous, so the "more than one matching predicate" error case
// cannot arise and is not modeled here.
type ruleKey struct {
	Kind    cctoken.Kind
	Punct   cctoken.PunctuatorKind
	Keyword cctoken.KeywordKind
}

func keyOf(tok lexer.Token) ruleKey {
	k := ruleKey{Kind: tok.Kind}
	switch tok.Kind {
	case cctoken.Punctuator:
		k.Punct = tok.Punctuator
	case cctoken.Keyword:
		k.Keyword = tok.Keyword
	}
	return k
}

// prefixRule parses a construct that can begin at the current token,
// which has already been consumed (p.prevTok holds it).
type prefixRule func(p *Parser) *Node

// infixRule parses a construct that continues from an
// already-parsed left operand, given the operator token (already
// consumed).
type infixRule func(p *Parser, left *Node) *Node

type ruleEntry struct {
	prefix prefixRule
	infix  infixRule
	prec   int
}

// Ruleset is one of the two rule tables spec.md section 4.8 describes
// the parser switching between: expressions and declarators. isPlaceholder,
// when non-nil, lets a ruleset recognize "nothing here" without
// consuming a token, the abstract-placeholder case of an abstract
// declarator (spec.md's canonical example `int (*fp)(char*, ...)`:
// the parameter declarator is empty).
type Ruleset struct {
	name          string
	rules         map[ruleKey]ruleEntry
	isPlaceholder func(tok lexer.Token) bool
}

func newRuleset(name string) *Ruleset {
	return &Ruleset{name: name, rules: make(map[ruleKey]ruleEntry)}
}

func (rs *Ruleset) prefix(k ruleKey, rule prefixRule) {
	e := rs.rules[k]
	e.prefix = rule
	rs.rules[k] = e
}

func (rs *Ruleset) infix(k ruleKey, prec int, rule infixRule) {
	e := rs.rules[k]
	e.infix = rule
	e.prec = prec
	rs.rules[k] = e
}
