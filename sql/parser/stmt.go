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

// parseStatement dispatches on the first keyword per §4.2.
func (p *parser) parseStatement() (ast.Statement, error) {
	switch p.peek().Kind {
	case token.KwCreate:
		return p.parseCreateTable()
	case token.KwDrop:
		return p.parseDropTable()
	case token.KwInsert:
		return p.parseInsert()
	case token.KwSelect:
		return p.parseSelect()
	case token.EOF:
		return nil, errkind.Parsing(errkind.ErrUnexpectedEOF)
	default:
		return nil, errkind.Parsing(errkind.ErrUnexpectedToken, p.peek().Text)
	}
}

func (p *parser) parseCreateTable() (ast.Statement, error) {
	p.advance() // CREATE
	if _, err := p.expect(token.KwTable, "TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "("); err != nil {
		return nil, err
	}
	var cols []ast.ColumnDef
	for {
		colName, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		var declared types.DeclaredType
		switch p.peek().Kind {
		case token.KwInteger:
			p.advance()
			declared = types.Integer
		case token.KwBoolean:
			p.advance()
			declared = types.Boolean
		default:
			return nil, errkind.Parsing(errkind.ErrExpectedKeyword, "INTEGER or BOOLEAN", p.peek().Text)
		}
		cols = append(cols, ast.ColumnDef{Name: colName, Type: declared})
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, ")"); err != nil {
		return nil, errkind.Parsing(errkind.ErrUnmatchedParen)
	}
	return &ast.CreateTable{Table: name, Columns: cols}, nil
}

func (p *parser) parseDropTable() (ast.Statement, error) {
	p.advance() // DROP
	if _, err := p.expect(token.KwTable, "TABLE"); err != nil {
		return nil, err
	}
	ifExists := false
	if p.accept(token.KwIf) {
		if _, err := p.expect(token.KwExists, "EXISTS"); err != nil {
			return nil, err
		}
		ifExists = true
	}
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	return &ast.DropTable{Table: name, IfExists: ifExists}, nil
}

func (p *parser) parseInsert() (ast.Statement, error) {
	p.advance() // INSERT
	if _, err := p.expect(token.KwInto, "INTO"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwValues, "VALUES"); err != nil {
		return nil, err
	}
	var sets [][]ast.Expr
	for {
		set, err := p.parseValueSet()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
		if !p.accept(token.Comma) {
			break
		}
	}
	return &ast.InsertMultiple{Table: name, ValueSets: sets}, nil
}

func (p *parser) parseValueSet() ([]ast.Expr, error) {
	if _, err := p.expect(token.LParen, "("); err != nil {
		return nil, err
	}
	var values []ast.Expr
	for {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, ")"); err != nil {
		return nil, errkind.Parsing(errkind.ErrUnmatchedParen)
	}
	return values, nil
}

func (p *parser) parseSelect() (ast.Statement, error) {
	p.advance() // SELECT
	projections, err := p.parseProjectionList()
	if err != nil {
		return nil, err
	}
	if !p.at(token.KwFrom) {
		return &ast.SelectConstant{Projections: projections}, nil
	}
	p.advance() // FROM

	from, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	fromAlias, err := p.parseAliasOpt()
	if err != nil {
		return nil, err
	}

	var joins []ast.Join
	for {
		kind, ok, err := p.tryParseJoinKind()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if _, err := p.expect(token.KwJoin, "JOIN"); err != nil {
			return nil, err
		}
		table, err := p.expectIdent("table name")
		if err != nil {
			return nil, err
		}
		alias, err := p.parseAliasOpt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwOn, "ON"); err != nil {
			return nil, errkind.Parsing(errkind.ErrMissingOnClause)
		}
		on, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		joins = append(joins, ast.Join{Kind: kind, Table: table, Alias: alias, On: on})
	}

	sel := &ast.Select{Projections: projections, From: from, FromAlias: fromAlias, Joins: joins}

	if p.accept(token.KwWhere) {
		sel.Where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.accept(token.KwGroup) {
		if _, err := p.expect(token.KwBy, "BY"); err != nil {
			return nil, err
		}
		sel.GroupBy, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.accept(token.KwOrder) {
		if _, err := p.expect(token.KwBy, "BY"); err != nil {
			return nil, err
		}
		orderExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dir := ast.Asc
		switch p.peek().Kind {
		case token.KwAsc:
			p.advance()
		case token.KwDesc:
			p.advance()
			dir = ast.Desc
		}
		sel.OrderBy = &ast.OrderBy{Expr: orderExpr, Direction: dir}
	}
	if p.accept(token.KwLimit) {
		sel.Limit, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.accept(token.KwOffset) {
		sel.Offset, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return sel, nil
}

// parseAliasOpt parses an optional `[AS] identifier` table/join alias.
func (p *parser) parseAliasOpt() (string, error) {
	if p.accept(token.KwAs) {
		return p.expectIdent("alias")
	}
	if p.at(token.Ident) {
		return p.advance().Text, nil
	}
	return "", nil
}

// tryParseJoinKind consumes the join-kind qualifier keyword(s) (but not
// the JOIN keyword itself) and reports whether a join clause follows.
func (p *parser) tryParseJoinKind() (ast.JoinKind, bool, error) {
	switch p.peek().Kind {
	case token.KwInner:
		p.advance()
		return ast.InnerJoin, true, nil
	case token.KwLeft:
		p.advance()
		if _, err := p.expect(token.KwOuter, "OUTER"); err != nil {
			return 0, false, err
		}
		return ast.LeftOuterJoin, true, nil
	case token.KwRight:
		p.advance()
		if _, err := p.expect(token.KwOuter, "OUTER"); err != nil {
			return 0, false, err
		}
		return ast.RightOuterJoin, true, nil
	case token.KwFull:
		p.advance()
		if _, err := p.expect(token.KwOuter, "OUTER"); err != nil {
			return 0, false, err
		}
		return ast.FullOuterJoin, true, nil
	default:
		return 0, false, nil
	}
}

func (p *parser) parseProjectionList() ([]ast.Projection, error) {
	var projections []ast.Projection
	for {
		// A bare `*` is the whole-row wildcard (§4.2); it parses as its
		// own projection item rather than falling into parseExpr, where
		// a leading `*` has no meaning.
		if p.at(token.Star) {
			p.advance()
			projections = append(projections, ast.Projection{Expr: &ast.Star{}})
			if !p.accept(token.Comma) {
				return projections, nil
			}
			continue
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.accept(token.KwAs) {
			alias, err = p.expectIdent("alias")
			if err != nil {
				return nil, err
			}
		}
		projections = append(projections, ast.Projection{Expr: expr, Alias: alias})
		if !p.accept(token.Comma) {
			return projections, nil
		}
	}
}
