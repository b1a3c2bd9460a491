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

package ast

import "github.com/technicaldeft/sqlmemdb/sql/types"

// Statement is implemented by every top-level statement variant of §3.
type Statement interface {
	stmtNode()
}

// ColumnDef is a single column definition inside CREATE TABLE.
type ColumnDef struct {
	Name string
	Type types.DeclaredType
}

// CreateTable is `CREATE TABLE name (col_def, ...)`.
type CreateTable struct {
	Table   string
	Columns []ColumnDef
}

func (*CreateTable) stmtNode() {}

// DropTable is `DROP TABLE [IF EXISTS] name`.
type DropTable struct {
	Table    string
	IfExists bool
}

func (*DropTable) stmtNode() {}

// InsertMultiple is `INSERT INTO name VALUES (...), (...)`.
type InsertMultiple struct {
	Table     string
	ValueSets [][]Expr
}

func (*InsertMultiple) stmtNode() {}

// Projection is a single SELECT list item: `expression [AS alias]`.
type Projection struct {
	Expr  Expr
	Alias string // "" if no AS alias
}

// JoinKind enumerates the four join kinds of §3.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
)

// Join is a single `JOIN table [alias] ON expr` clause.
type Join struct {
	Kind  JoinKind
	Table string
	Alias string // "" if no alias given; resolution then uses Table
	On    Expr
}

// OrderDirection is ASC (default) or DESC.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// OrderBy is a single ORDER BY expression with its direction.
type OrderBy struct {
	Expr      Expr
	Direction OrderDirection
}

// SelectConstant is `SELECT projection_list` with no FROM.
type SelectConstant struct {
	Projections []Projection
}

func (*SelectConstant) stmtNode() {}

// Select is the full SELECT grammar of §4.2.
type Select struct {
	Projections []Projection
	From        string
	FromAlias   string // "" if no alias given; resolution then uses From
	Joins       []Join
	Where       Expr // nil if no WHERE
	GroupBy     Expr // nil if no GROUP BY
	OrderBy     *OrderBy
	Limit       Expr // nil if no LIMIT
	Offset      Expr // nil if no OFFSET
}

func (*Select) stmtNode() {}
