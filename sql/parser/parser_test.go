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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/parser"
)

func TestParseCreateTable(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("CREATE TABLE t (a INTEGER, b BOOLEAN);")
	require.NoError(err)
	ct, ok := stmt.(*ast.CreateTable)
	require.True(ok)
	require.Equal("t", ct.Table)
	require.Len(ct.Columns, 2)
	require.Equal("a", ct.Columns[0].Name)
	require.Equal("b", ct.Columns[1].Name)
}

func TestParseDropTableIfExists(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("DROP TABLE IF EXISTS t")
	require.NoError(err)
	dt, ok := stmt.(*ast.DropTable)
	require.True(ok)
	require.True(dt.IfExists)
}

func TestParseInsertMultiple(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("INSERT INTO t VALUES (1, TRUE), (2, FALSE)")
	require.NoError(err)
	ins, ok := stmt.(*ast.InsertMultiple)
	require.True(ok)
	require.Len(ins.ValueSets, 2)
	require.Len(ins.ValueSets[0], 2)
}

func TestParseSelectConstant(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT 1 + 2 AS x")
	require.NoError(err)
	sc, ok := stmt.(*ast.SelectConstant)
	require.True(ok)
	require.Len(sc.Projections, 1)
	require.Equal("x", sc.Projections[0].Alias)
}

func TestParseSelectFull(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse(
		"SELECT a, SUM(b) AS t FROM u INNER JOIN v ON u.id = v.id WHERE a > 0 " +
			"GROUP BY a ORDER BY a DESC LIMIT 10 OFFSET 1")
	require.NoError(err)
	sel, ok := stmt.(*ast.Select)
	require.True(ok)
	require.Equal("u", sel.From)
	require.Len(sel.Joins, 1)
	require.Equal(ast.InnerJoin, sel.Joins[0].Kind)
	require.NotNil(sel.Where)
	require.NotNil(sel.GroupBy)
	require.NotNil(sel.OrderBy)
	require.Equal(ast.Desc, sel.OrderBy.Direction)
	require.NotNil(sel.Limit)
	require.NotNil(sel.Offset)
}

func TestParseOuterJoinKinds(t *testing.T) {
	require := require.New(t)
	for src, want := range map[string]ast.JoinKind{
		"SELECT * FROM a LEFT OUTER JOIN b ON a.x = b.x":  ast.LeftOuterJoin,
		"SELECT * FROM a RIGHT OUTER JOIN b ON a.x = b.x": ast.RightOuterJoin,
		"SELECT * FROM a FULL OUTER JOIN b ON a.x = b.x":  ast.FullOuterJoin,
	} {
		stmt, err := parser.Parse(src)
		require.NoError(err)
		sel := stmt.(*ast.Select)
		require.Equal(want, sel.Joins[0].Kind, src)
	}
}

func TestParseUnmatchedParenIsParsingError(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT (1 + 2")
	require.Error(err)
}

func TestParseTrailingContentIsParsingError(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT 1 SELECT 2")
	require.Error(err)
}

func TestParseExpressionPrecedence(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT 1 + 2 * 3")
	require.NoError(err)
	sc := stmt.(*ast.SelectConstant)
	bin, ok := sc.Projections[0].Expr.(*ast.Binary)
	require.True(ok)
	require.Equal(ast.OpPlus, bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(ok)
	require.Equal(ast.OpStar, rhs.Op)
}

func TestParseIsNullPostfix(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT a IS NOT NULL FROM t")
	require.NoError(err)
	sel := stmt.(*ast.Select)
	test, ok := sel.Projections[0].Expr.(*ast.IsNullTest)
	require.True(ok)
	require.True(test.Negated)
}

func TestParseQualifiedColumn(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT t.a FROM t")
	require.NoError(err)
	sel := stmt.(*ast.Select)
	qc, ok := sel.Projections[0].Expr.(*ast.QualifiedColumn)
	require.True(ok)
	require.Equal("t", qc.Table)
	require.Equal("a", qc.Column)
}

func TestParseAggregateCountStar(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT COUNT(*) FROM t")
	require.NoError(err)
	sel := stmt.(*ast.Select)
	agg, ok := sel.Projections[0].Expr.(*ast.AggregateFunction)
	require.True(ok)
	require.True(agg.Star)
	require.Nil(agg.Arg)
}

func TestParseCountWithNoArgument(t *testing.T) {
	require := require.New(t)
	stmt, err := parser.Parse("SELECT COUNT() FROM t")
	require.NoError(err)
	sel := stmt.(*ast.Select)
	agg, ok := sel.Projections[0].Expr.(*ast.AggregateFunction)
	require.True(ok)
	require.False(agg.Star)
	require.Nil(agg.Arg)
}

// TestParseCountRejectsExtraArguments and TestParseSumRejectsExtraArguments
// cover §3: COUNT admits zero or one argument, SUM exactly one; both used
// to silently discard extra arguments instead of rejecting them.
func TestParseCountRejectsExtraArguments(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT COUNT(a, b) FROM t")
	require.Error(err)
	require.True(errkind.ErrWrongArgumentCount.Is(err))
}

func TestParseSumRejectsExtraArguments(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT SUM(a, b) FROM t")
	require.Error(err)
	require.True(errkind.ErrWrongArgumentCount.Is(err))
}

func TestParseSumRejectsNoArguments(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT SUM() FROM t")
	require.Error(err)
	require.True(errkind.ErrWrongArgumentCount.Is(err))
}

func TestParseUnexpectedEOFInExpression(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("SELECT a +")
	require.Error(err)
	require.True(errkind.ErrUnexpectedEOF.Is(err))
}

func TestParseUnexpectedEOFAsStatement(t *testing.T) {
	require := require.New(t)
	_, err := parser.Parse("")
	require.Error(err)
	require.True(errkind.ErrUnexpectedEOF.Is(err))
}
