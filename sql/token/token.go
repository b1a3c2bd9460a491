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

// Package token defines the token vocabulary produced by sql/lexer.
package token

// Kind discriminates token variants.
type Kind int

const (
	EOF Kind = iota
	Ident
	Integer

	// Punctuation
	LParen
	RParen
	Comma
	Dot
	Semicolon
	Plus
	Minus
	Star
	Slash

	// Comparisons
	Lt
	Gt
	Lte
	Gte
	Eq
	Neq

	// Keywords
	KwTrue
	KwFalse
	KwNull
	KwNot
	KwAnd
	KwOr
	KwAs
	KwSelect
	KwFrom
	KwWhere
	KwGroup
	KwBy
	KwOrder
	KwLimit
	KwOffset
	KwJoin
	KwInner
	KwLeft
	KwRight
	KwFull
	KwOuter
	KwOn
	KwCreate
	KwTable
	KwDrop
	KwInsert
	KwInto
	KwValues
	KwIf
	KwExists
	KwInteger
	KwBoolean
	KwAbs
	KwMod
	KwCount
	KwSum
	KwIs
	KwAsc
	KwDesc
)

// Token is a single lexed token: its Kind plus the original source text
// (for identifiers, the original case is retained; for integers, the
// decimal digit text).
type Token struct {
	Kind Kind
	Text string
}

// keywords maps the upper-cased spelling of a reserved word to its Kind.
// Keyword comparison is case-insensitive (§4.1); identifier case is
// preserved separately by the lexer.
var keywords = map[string]Kind{
	"TRUE":    KwTrue,
	"FALSE":   KwFalse,
	"NULL":    KwNull,
	"NOT":     KwNot,
	"AND":     KwAnd,
	"OR":      KwOr,
	"AS":      KwAs,
	"SELECT":  KwSelect,
	"FROM":    KwFrom,
	"WHERE":   KwWhere,
	"GROUP":   KwGroup,
	"BY":      KwBy,
	"ORDER":   KwOrder,
	"LIMIT":   KwLimit,
	"OFFSET":  KwOffset,
	"JOIN":    KwJoin,
	"INNER":   KwInner,
	"LEFT":    KwLeft,
	"RIGHT":   KwRight,
	"FULL":    KwFull,
	"OUTER":   KwOuter,
	"ON":      KwOn,
	"CREATE":  KwCreate,
	"TABLE":   KwTable,
	"DROP":    KwDrop,
	"INSERT":  KwInsert,
	"INTO":    KwInto,
	"VALUES":  KwValues,
	"IF":      KwIf,
	"EXISTS":  KwExists,
	"INTEGER": KwInteger,
	"BOOLEAN": KwBoolean,
	"ABS":     KwAbs,
	"MOD":     KwMod,
	"COUNT":   KwCount,
	"SUM":     KwSum,
	"IS":      KwIs,
	"ASC":     KwAsc,
	"DESC":    KwDesc,
}

// LookupKeyword returns the keyword Kind for the upper-cased spelling of
// ident, and true if ident is a reserved word.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[upper(ident)]
	return k, ok
}

// IsReserved reports whether ident (case-insensitively) is any keyword in
// the table above. This is a wider set than the §6.3 reserved
// identifiers, which sql/analyzer checks with its own list.
func IsReserved(ident string) bool {
	_, ok := LookupKeyword(ident)
	return ok
}

func upper(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
