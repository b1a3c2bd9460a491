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

package parser

import (
	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/token"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// parseExpr is the entry point into the precedence-climbing expression
// parser (§4.3). Precedence, high to low: unary (NOT, unary -) with
// postfix IS [NOT] NULL binding at the same tier; multiplicative (* /);
// additive (+ -); comparisons (< > <= >= = <>); AND; OR.
func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(token.KwOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.accept(token.KwAnd) {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.Lt:  ast.OpLt,
	token.Gt:  ast.OpGt,
	token.Lte: ast.OpLte,
	token.Gte: ast.OpGte,
	token.Eq:  ast.OpEqual,
	token.Neq: ast.OpNotEqual,
}

func (p *parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.OpPlus
		case token.Minus:
			op = ast.OpMinus
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.OpStar
		case token.Slash:
			op = ast.OpSlash
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	switch p.peek().Kind {
	case token.KwNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNot, Operand: operand}, nil
	case token.Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNeg, Operand: operand}, nil
	default:
		primary, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(primary)
	}
}

// parsePostfix applies the postfix `IS NULL` / `IS NOT NULL` test, which
// binds tighter than every binary operator (DESIGN.md Open Question
// resolution): it is consumed here, before parseMultiplicative and above
// ever see a binary operator token.
func (p *parser) parsePostfix(e ast.Expr) (ast.Expr, error) {
	for p.at(token.KwIs) {
		p.advance()
		negated := p.accept(token.KwNot)
		if _, err := p.expect(token.KwNull, "NULL"); err != nil {
			return nil, err
		}
		e = &ast.IsNullTest{Operand: e, Negated: negated}
	}
	return e, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tk := p.peek()
	switch tk.Kind {
	case token.Integer:
		p.advance()
		v, err := parseIntegerLiteral(tk.Text)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: v}, nil
	case token.KwTrue:
		p.advance()
		return &ast.Literal{Value: types.NewBoolean(true)}, nil
	case token.KwFalse:
		p.advance()
		return &ast.Literal{Value: types.NewBoolean(false)}, nil
	case token.KwNull:
		p.advance()
		return &ast.Literal{Value: types.Null}, nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, ")"); err != nil {
			return nil, errkind.Parsing(errkind.ErrUnmatchedParen)
		}
		return inner, nil
	case token.Ident, token.KwCount, token.KwSum, token.KwAbs, token.KwMod:
		return p.parseIdentOrCall()
	case token.EOF:
		return nil, errkind.Parsing(errkind.ErrUnexpectedEOF)
	default:
		return nil, errkind.Parsing(errkind.ErrUnexpectedToken, tk.Text)
	}
}

func (p *parser) parseIdentOrCall() (ast.Expr, error) {
	name := p.advance().Text

	if p.at(token.LParen) {
		return p.parseCall(name)
	}

	if p.accept(token.Dot) {
		col, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		return &ast.QualifiedColumn{Table: name, Column: col}, nil
	}

	return &ast.Column{Name: name}, nil
}

func (p *parser) parseCall(name string) (ast.Expr, error) {
	p.advance() // consume '('
	canonical := canonicalFuncName(name)

	if canonical == "COUNT" && p.at(token.Star) {
		if p.peekAt(1).Kind == token.RParen {
			p.advance() // consume '*'
			p.advance() // consume ')'
			return &ast.AggregateFunction{Name: "COUNT", Star: true}, nil
		}
	}

	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, ")"); err != nil {
		return nil, errkind.Parsing(errkind.ErrUnmatchedParen)
	}

	switch canonical {
	case "COUNT":
		// COUNT admits zero or one argument (§3); COUNT(*) is handled above
		// before args are parsed at all.
		if len(args) > 1 {
			return nil, errkind.Validation(errkind.ErrWrongArgumentCount, "COUNT")
		}
		if len(args) == 0 {
			return &ast.AggregateFunction{Name: "COUNT"}, nil
		}
		return &ast.AggregateFunction{Name: "COUNT", Arg: args[0]}, nil
	case "SUM":
		// SUM requires exactly one argument (§3).
		if len(args) != 1 {
			return nil, errkind.Validation(errkind.ErrWrongArgumentCount, "SUM")
		}
		return &ast.AggregateFunction{Name: "SUM", Arg: args[0]}, nil
	default:
		return &ast.Function{Name: canonical, Args: args}, nil
	}
}

func (p *parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.at(token.RParen) {
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(token.Comma) {
			return args, nil
		}
	}
}
