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

// Package parse implements the Pratt-style parser of spec.md section
// 4.8: a prefix/infix rule-dispatch core shared by two rulesets
// (expressions, declarators), grounded on the rule-table/parsePrec
// design of other_examples' rami3l/golox bytecode compiler
// (vm/compiler.go's parseRules map and (*Parser).parsePrec), adapted
// from "compile directly to bytecode" into "build an AST node tree".
package parse

import "github.com/cc11/frontend/internal/lexer"

// Kind discriminates the node variants spec.md section 4.8 names.
type Kind int

const (
	Leaf Kind = iota
	Unary
	Paren
	Binary
	Ternary
	Call
	AbstractPlaceholder
	DeclaratorArray
	DeclaratorPointer
	DeclaratorFunction
	DeclaratorSpecifier
	Tag
	Cast
)

// Node is the single tagged-variant AST node every ruleset builds.
// Which of Children/TagName/Postfix are meaningful depends on Kind:
//
//   - Leaf: a token (identifier, constant, string-literal, ellipsis).
//   - Unary: Children[0] is the operand; Postfix distinguishes `x++`
//     from `++x`. For member access (`.`/`->`), Children[1] is the
//     member name and Postfix is true only for `->`.
//   - Paren: Children[0] is the parenthesized node.
//   - Binary: Children[0], Children[1] are the left and right operands.
//   - Ternary: Children[0] is the condition, [1] the then-branch, [2]
//     the else-branch.
//   - Call: Children[0] is the callee, Children[1:] the arguments.
//   - AbstractPlaceholder: no children; Tok is the token that would
//     have started the next rule, used only for its location.
//   - DeclaratorArray: Children[0] is the element declarator,
//     Children[1] the size expression (nil for `[]`).
//   - DeclaratorPointer: Children[0] is the pointee declarator.
//   - DeclaratorFunction: Children[0] is the returned-from declarator,
//     Children[1:] the parameter declarators (an Ellipsis Leaf marks a
//     trailing variadic parameter).
//   - DeclaratorSpecifier: Children holds, in order, the struct/union/
//     enum Tag (if any), the previously read specifier (when several
//     specifier keywords are read, each wraps the one before it), and,
//     on the outermost specifier only, the declarator it modifies as
//     the last child.
//   - Tag: TagName is the struct/union/enum tag identifier, if any.
//   - Cast: Children[0] is the abstract declarator (the cast-to type),
//     Children[1] is the operand.
type Node struct {
	Kind     Kind
	Tok      lexer.Token
	Children []*Node
	TagName  string
	Postfix  bool
}

func leaf(tok lexer.Token) *Node { return &Node{Kind: Leaf, Tok: tok} }
