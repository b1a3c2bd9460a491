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

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb/sql/lexer"
	"github.com/technicaldeft/sqlmemdb/sql/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	tokens, err := lexer.All(src)
	require.New(t).NoError(err)
	out := make([]token.Kind, len(tokens))
	for i, tk := range tokens {
		out[i] = tk.Kind
	}
	return out
}

func TestLexPunctuation(t *testing.T) {
	require := require.New(t)
	got := kinds(t, "( ) , . + - * / < > = <= >= <>")
	require.Equal([]token.Kind{
		token.LParen, token.RParen, token.Comma, token.Dot, token.Plus, token.Minus,
		token.Star, token.Slash, token.Lt, token.Gt, token.Eq, token.Lte, token.Gte,
		token.Neq, token.EOF,
	}, got)
}

func TestLexKeywordsCaseInsensitive(t *testing.T) {
	require := require.New(t)
	got := kinds(t, "select From WHERE")
	require.Equal([]token.Kind{token.KwSelect, token.KwFrom, token.KwWhere, token.EOF}, got)
}

func TestLexIdentifierPreservesCase(t *testing.T) {
	require := require.New(t)
	tokens, err := lexer.All("MyTable")
	require.NoError(err)
	require.Equal(token.Ident, tokens[0].Kind)
	require.Equal("MyTable", tokens[0].Text)
}

func TestLexIntegerLiteral(t *testing.T) {
	require := require.New(t)
	tokens, err := lexer.All("12345")
	require.NoError(err)
	require.Equal(token.Integer, tokens[0].Kind)
	require.Equal("12345", tokens[0].Text)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	require := require.New(t)
	_, err := lexer.All("SELECT 1 # 2")
	require.Error(err)
}

func TestLexWhitespaceSkipped(t *testing.T) {
	require := require.New(t)
	got := kinds(t, "  \t SELECT  \n  1  ")
	require.Equal([]token.Kind{token.KwSelect, token.Integer, token.EOF}, got)
}
