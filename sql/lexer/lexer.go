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

// Package lexer implements the §4.1 lexer: a rune-at-a-time state-function
// scanner in the style of hashicorp-mql/lex.go. It reads by index from
// the source rune slice; unreadRune steps back a single rune, and a stack
// records the runes consumed since the last emit.
package lexer

import (
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/token"
)

const eof = rune(-1)

type stateFunc func(*Lexer) (stateFunc, error)

// Lexer scans a SQL statement's source text into a token.Token stream.
type Lexer struct {
	runes   []rune
	pos     int
	read    stack[rune] // runes consumed since the last emit; cleared on emit
	pending []token.Token
	state   stateFunc
	done    bool
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{
		runes: []rune(src),
		state: lexStart,
	}
}

// All scans src completely and returns every token up to and including a
// trailing token.EOF, or the first lexing error encountered (returned as
// a parsing_error, per §4.1: an unrecognized character fails the whole
// statement).
func All(src string) ([]token.Token, error) {
	l := New(src)
	var out []token.Token
	for {
		tk, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tk)
		if tk.Kind == token.EOF {
			return out, nil
		}
	}
}

// Next returns the next token. Once EOF has been returned, Next keeps
// returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	for len(l.pending) == 0 {
		if l.done {
			return token.Token{Kind: token.EOF}, nil
		}
		next, err := l.state(l)
		if err != nil {
			return token.Token{}, err
		}
		l.state = next
		if next == nil {
			l.done = true
		}
	}
	tk := l.pending[0]
	l.pending = l.pending[1:]
	return tk, nil
}

func (l *Lexer) emit(k token.Kind, text string) {
	l.pending = append(l.pending, token.Token{Kind: k, Text: text})
	l.read.clear()
}

func (l *Lexer) readRune() rune {
	if l.pos >= len(l.runes) {
		return eof
	}
	r := l.runes[l.pos]
	l.pos++
	l.read.push(r)
	return r
}

func (l *Lexer) unreadRune() {
	if l.pos > 0 {
		l.pos--
	}
	l.read.pop()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func lexStart(l *Lexer) (stateFunc, error) {
	r := l.readRune()
	switch {
	case r == eof:
		l.emit(token.EOF, "")
		return nil, nil
	case isSpace(r):
		return lexWhitespace, nil
	case r == '(':
		l.emit(token.LParen, "(")
		return lexStart, nil
	case r == ')':
		l.emit(token.RParen, ")")
		return lexStart, nil
	case r == ',':
		l.emit(token.Comma, ",")
		return lexStart, nil
	case r == ';':
		l.emit(token.Semicolon, ";")
		return lexStart, nil
	case r == '.':
		l.emit(token.Dot, ".")
		return lexStart, nil
	case r == '+':
		l.emit(token.Plus, "+")
		return lexStart, nil
	case r == '-':
		l.emit(token.Minus, "-")
		return lexStart, nil
	case r == '*':
		l.emit(token.Star, "*")
		return lexStart, nil
	case r == '/':
		l.emit(token.Slash, "/")
		return lexStart, nil
	case r == '<':
		return lexLess, nil
	case r == '>':
		return lexGreater, nil
	case r == '=':
		l.emit(token.Eq, "=")
		return lexStart, nil
	case isDigit(r):
		l.unreadRune()
		return lexInteger, nil
	case isIdentStart(r):
		l.unreadRune()
		return lexIdent, nil
	default:
		return nil, errkind.Parsing(errkind.ErrUnexpectedChar, string(r))
	}
}

func lexWhitespace(l *Lexer) (stateFunc, error) {
	for {
		r := l.readRune()
		if r == eof || !isSpace(r) {
			if r != eof {
				l.unreadRune()
			}
			l.read.clear()
			return lexStart, nil
		}
	}
}

func lexLess(l *Lexer) (stateFunc, error) {
	r := l.readRune()
	switch r {
	case '=':
		l.emit(token.Lte, "<=")
	case '>':
		l.emit(token.Neq, "<>")
	default:
		if r != eof {
			l.unreadRune()
		}
		l.emit(token.Lt, "<")
	}
	return lexStart, nil
}

func lexGreater(l *Lexer) (stateFunc, error) {
	r := l.readRune()
	if r == '=' {
		l.emit(token.Gte, ">=")
	} else {
		if r != eof {
			l.unreadRune()
		}
		l.emit(token.Gt, ">")
	}
	return lexStart, nil
}

func lexInteger(l *Lexer) (stateFunc, error) {
	start := l.pos
	for {
		r := l.readRune()
		if !isDigit(r) {
			if r != eof {
				l.unreadRune()
			}
			break
		}
	}
	l.emit(token.Integer, string(l.runes[start:l.pos]))
	return lexStart, nil
}

func lexIdent(l *Lexer) (stateFunc, error) {
	start := l.pos
	for {
		r := l.readRune()
		if !isIdentPart(r) {
			if r != eof {
				l.unreadRune()
			}
			break
		}
	}
	text := string(l.runes[start:l.pos])
	if kw, ok := token.LookupKeyword(text); ok {
		l.emit(kw, text)
	} else {
		l.emit(token.Ident, text)
	}
	return lexStart, nil
}
