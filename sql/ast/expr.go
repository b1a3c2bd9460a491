// Copyright 2026 The sqlmemdb Authors.
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

// Package ast defines the tagged-union Expression and Statement variants
// of §3, modeled as one Go type per :type tag the teacher's dynamic
// dictionary-shaped nodes would have used (§9 design note).
package ast

import "github.com/technicaldeft/sqlmemdb/sql/types"

// Expr is implemented by every expression AST node.
type Expr interface {
	exprNode()
}

// BinaryOp enumerates the binary operators of §3.
type BinaryOp int

const (
	OpPlus BinaryOp = iota
	OpMinus
	OpStar
	OpSlash
	OpLt
	OpGt
	OpLte
	OpGte
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

// UnaryOp enumerates the unary operators of §3.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// Literal is a constant value appearing directly in the source text.
type Literal struct {
	Value types.Value
}

func (*Literal) exprNode() {}

// Column is an unqualified column reference.
type Column struct {
	Name string
}

func (*Column) exprNode() {}

// QualifiedColumn is a `t.c` reference.
type QualifiedColumn struct {
	Table  string
	Column string
}

func (*QualifiedColumn) exprNode() {}

// Binary is a BinaryOp applied to two operands.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*Binary) exprNode() {}

// Unary is a UnaryOp applied to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (*Unary) exprNode() {}

// Function is a scalar function call (ABS, MOD, or any other bare
// `NAME(args...)` the parser accepted generically — validation rejects
// unknown names per the Open Question resolution in DESIGN.md).
type Function struct {
	Name string
	Args []Expr
}

func (*Function) exprNode() {}

// AggregateFunction is COUNT or SUM. Arg is nil for the argumentless
// COUNT() / COUNT(*) form.
type AggregateFunction struct {
	Name string
	Arg  Expr // nil means COUNT(*) / COUNT()
	Star bool
}

func (*AggregateFunction) exprNode() {}

// IsNullTest is the postfix `IS NULL` / `IS NOT NULL` operator.
type IsNullTest struct {
	Operand Expr
	Negated bool
}

func (*IsNullTest) exprNode() {}

// Star is the whole-row wildcard projection item, `SELECT * FROM t`.
// It never reaches the scalar evaluator: the analyzer expands it into
// one QualifiedColumn projection per in-scope column before
// validation proceeds (§4.2, §8's round-trip test).
type Star struct{}

func (*Star) exprNode() {}
