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

// Package parser implements the §4.2 statement parser and the §4.3
// precedence-climbing expression parser, publishing the single entry
// point Parse(text) -> (ast.Statement, error) that spec.md §1 calls for.
package parser

import (
	"strconv"
	"strings"

	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/lexer"
	"github.com/technicaldeft/sqlmemdb/sql/token"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// parser holds the token stream and cursor shared by the statement and
// expression parsers in this package.
type parser struct {
	tokens []token.Token
	pos    int
}

// Parse lexes and parses a single SQL statement. A trailing semicolon is
// the only content permitted after the statement proper (§4.2).
func Parse(text string) (ast.Statement, error) {
	tokens, err := lexer.All(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	p.accept(token.Semicolon)
	if p.peek().Kind != token.EOF {
		return nil, errkind.Parsing(errkind.ErrTrailingContent, p.peek().Text)
	}
	return stmt, nil
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[i]
}

func (p *parser) advance() token.Token {
	tk := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tk
}

func (p *parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(k token.Kind, name string) (token.Token, error) {
	if !p.at(k) {
		if p.peek().Kind == token.EOF {
			return token.Token{}, errkind.Parsing(errkind.ErrUnexpectedEOF)
		}
		return token.Token{}, errkind.Parsing(errkind.ErrExpectedKeyword, name, p.peek().Text)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent(what string) (string, error) {
	if !p.at(token.Ident) {
		if p.peek().Kind == token.EOF {
			return "", errkind.Parsing(errkind.ErrUnexpectedEOF)
		}
		return "", errkind.Parsing(errkind.ErrExpectedKeyword, what, p.peek().Text)
	}
	return p.advance().Text, nil
}

func parseIntegerLiteral(text string) (types.Value, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return types.Value{}, errkind.Parsing(errkind.ErrMalformedStatement, "integer literal out of range: "+text)
	}
	return types.NewInteger(n), nil
}

func isClauseKeyword(k token.Kind) bool {
	switch k {
	case token.KwWhere, token.KwGroup, token.KwOrder, token.KwLimit, token.KwOffset,
		token.KwJoin, token.KwInner, token.KwLeft, token.KwRight, token.KwFull, token.KwOn,
		token.EOF, token.Semicolon:
		return true
	default:
		return false
	}
}

func canonicalFuncName(name string) string {
	return strings.ToUpper(name)
}
