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

// Package expression implements the §4.4 scalar expression evaluator:
// three-valued logic, arithmetic/comparison type checks, ABS/MOD, and
// IS [NOT] NULL. Grounded on the teacher's sql/expression/logic_test.go
// (Kleene AND/OR truth table), comparison_test.go and arithmetic_test.go
// (binary-op Eval shape), and isnull_test.go.
package expression

import (
	"github.com/pkg/errors"

	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/rowcontext"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Eval evaluates a scalar expression e against row context rc. rc may be
// a single-source or multi-source RowContext; bare-name ambiguity is
// handled uniformly by rowcontext.RowContext.Bare. Eval fails with a
// validation_error (unknown/ambiguous column, type mismatch, wrong
// argument count, unknown function) or a division_by_zero_error.
//
// Eval must not be called on an AggregateFunction node directly — those
// are evaluated per-group by sql/aggregation before the surrounding
// scalar expression (if any) is evaluated by substituting each aggregate
// subexpression with its per-group Value; encountering one here means
// validation's nested-aggregate check was bypassed, which is a defect in
// the caller, not a user-facing error.
func Eval(rc *rowcontext.RowContext, e ast.Expr) (types.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Column:
		return rc.Bare(n.Name)

	case *ast.QualifiedColumn:
		return rc.Qualified(n.Table, n.Column)

	case *ast.Unary:
		return evalUnary(rc, n)

	case *ast.Binary:
		return evalBinary(rc, n)

	case *ast.Function:
		return evalFunction(rc, n)

	case *ast.IsNullTest:
		operand, err := Eval(rc, n.Operand)
		if err != nil {
			return types.Value{}, err
		}
		isNull := operand.IsNull()
		if n.Negated {
			return types.NewBoolean(!isNull), nil
		}
		return types.NewBoolean(isNull), nil

	case *ast.AggregateFunction:
		return types.Value{}, errors.New("expression.Eval: aggregate function reached the scalar evaluator")

	default:
		return types.Value{}, errors.Errorf("expression.Eval: unhandled expression node %T", e)
	}
}

func evalUnary(rc *rowcontext.RowContext, n *ast.Unary) (types.Value, error) {
	v, err := Eval(rc, n.Operand)
	if err != nil {
		return types.Value{}, err
	}
	switch n.Op {
	case ast.OpNeg:
		if v.IsNull() {
			return types.Null, nil
		}
		if v.Type() != types.Integer {
			return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "unary - requires INTEGER")
		}
		return types.NewInteger(-v.Integer), nil
	case ast.OpNot:
		if v.IsNull() {
			return types.Null, nil
		}
		if v.Type() != types.Boolean {
			return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "NOT requires BOOLEAN")
		}
		return types.NewBoolean(!v.Boolean), nil
	default:
		return types.Value{}, errors.Errorf("expression.evalUnary: unknown op %v", n.Op)
	}
}

func evalBinary(rc *rowcontext.RowContext, n *ast.Binary) (types.Value, error) {
	// AND/OR implement Kleene three-valued short-circuiting and must
	// evaluate their operands independently of the strict-arithmetic
	// NULL-propagation rule below.
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return evalLogic(rc, n)
	}

	left, err := Eval(rc, n.Left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := Eval(rc, n.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch n.Op {
	case ast.OpPlus, ast.OpMinus, ast.OpStar, ast.OpSlash:
		return evalArithmetic(n.Op, left, right)
	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		return evalOrdering(n.Op, left, right)
	case ast.OpEqual, ast.OpNotEqual:
		return evalEquality(n.Op, left, right)
	default:
		return types.Value{}, errors.Errorf("expression.evalBinary: unknown op %v", n.Op)
	}
}

func evalLogic(rc *rowcontext.RowContext, n *ast.Binary) (types.Value, error) {
	left, err := Eval(rc, n.Left)
	if err != nil {
		return types.Value{}, err
	}
	if !left.IsNull() && left.Type() != types.Boolean {
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "AND/OR requires BOOLEAN operands")
	}

	if n.Op == ast.OpAnd && !left.IsNull() && !left.Boolean {
		return types.NewBoolean(false), nil // FALSE AND x = FALSE, even if x is NULL
	}
	if n.Op == ast.OpOr && !left.IsNull() && left.Boolean {
		return types.NewBoolean(true), nil // TRUE OR x = TRUE
	}

	right, err := Eval(rc, n.Right)
	if err != nil {
		return types.Value{}, err
	}
	if !right.IsNull() && right.Type() != types.Boolean {
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "AND/OR requires BOOLEAN operands")
	}

	switch n.Op {
	case ast.OpAnd:
		if left.IsNull() || right.IsNull() {
			// TRUE AND NULL = NULL; NULL AND NULL = NULL; NULL AND FALSE = FALSE
			if !right.IsNull() && !right.Boolean {
				return types.NewBoolean(false), nil
			}
			return types.Null, nil
		}
		return types.NewBoolean(left.Boolean && right.Boolean), nil
	case ast.OpOr:
		if left.IsNull() || right.IsNull() {
			if !right.IsNull() && right.Boolean {
				return types.NewBoolean(true), nil
			}
			return types.Null, nil
		}
		return types.NewBoolean(left.Boolean || right.Boolean), nil
	default:
		return types.Value{}, errors.Errorf("expression.evalLogic: unknown op %v", n.Op)
	}
}

func evalArithmetic(op ast.BinaryOp, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.Null, nil
	}
	if left.Type() != types.Integer || right.Type() != types.Integer {
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "arithmetic requires INTEGER operands")
	}
	switch op {
	case ast.OpPlus:
		return types.NewInteger(left.Integer + right.Integer), nil
	case ast.OpMinus:
		return types.NewInteger(left.Integer - right.Integer), nil
	case ast.OpStar:
		return types.NewInteger(left.Integer * right.Integer), nil
	case ast.OpSlash:
		if right.Integer == 0 {
			return types.Value{}, errkind.DivByZero(errkind.ErrDivisionByZero)
		}
		return types.NewInteger(left.Integer / right.Integer), nil
	default:
		return types.Value{}, errors.Errorf("expression.evalArithmetic: unknown op %v", op)
	}
}

func evalOrdering(op ast.BinaryOp, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.Null, nil
	}
	if left.Type() != right.Type() {
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "comparison requires operands of the same type")
	}
	var cmp int
	switch left.Type() {
	case types.Integer:
		switch {
		case left.Integer < right.Integer:
			cmp = -1
		case left.Integer > right.Integer:
			cmp = 1
		}
	case types.Boolean:
		// FALSE < TRUE, per spec.md §9's Open Question resolution.
		lb, rb := boolRank(left.Boolean), boolRank(right.Boolean)
		switch {
		case lb < rb:
			cmp = -1
		case lb > rb:
			cmp = 1
		}
	default:
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "comparison operands must be INTEGER or BOOLEAN")
	}
	switch op {
	case ast.OpLt:
		return types.NewBoolean(cmp < 0), nil
	case ast.OpGt:
		return types.NewBoolean(cmp > 0), nil
	case ast.OpLte:
		return types.NewBoolean(cmp <= 0), nil
	case ast.OpGte:
		return types.NewBoolean(cmp >= 0), nil
	default:
		return types.Value{}, errors.Errorf("expression.evalOrdering: unknown op %v", op)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func evalEquality(op ast.BinaryOp, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.Null, nil
	}
	if left.Type() != right.Type() {
		return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "equality requires operands of the same type")
	}
	eq := left.Equal(right)
	if op == ast.OpNotEqual {
		eq = !eq
	}
	return types.NewBoolean(eq), nil
}

func evalFunction(rc *rowcontext.RowContext, n *ast.Function) (types.Value, error) {
	switch n.Name {
	case "ABS":
		if len(n.Args) != 1 {
			return types.Value{}, errkind.Validation(errkind.ErrWrongArgumentCount, "ABS")
		}
		v, err := Eval(rc, n.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		if v.IsNull() {
			return types.Null, nil
		}
		if v.Type() != types.Integer {
			return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "ABS requires INTEGER")
		}
		if v.Integer < 0 {
			return types.NewInteger(-v.Integer), nil
		}
		return v, nil

	case "MOD":
		if len(n.Args) != 2 {
			return types.Value{}, errkind.Validation(errkind.ErrWrongArgumentCount, "MOD")
		}
		x, err := Eval(rc, n.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		y, err := Eval(rc, n.Args[1])
		if err != nil {
			return types.Value{}, err
		}
		if x.IsNull() || y.IsNull() {
			return types.Null, nil
		}
		if x.Type() != types.Integer || y.Type() != types.Integer {
			return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "MOD requires INTEGER operands")
		}
		if y.Integer == 0 {
			return types.Value{}, errkind.DivByZero(errkind.ErrModuloByZero)
		}
		return types.NewInteger(x.Integer % y.Integer), nil

	default:
		return types.Value{}, errkind.Validation(errkind.ErrUnknownFunction, n.Name)
	}
}
