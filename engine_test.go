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

package sqlmemdb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

func mustExec(t *testing.T, e *sqlmemdb.Engine, stmt string) *sqlmemdb.Result {
	t.Helper()
	require := require.New(t)
	res, err := e.Execute(stmt)
	require.NoError(err)
	return res
}

// TestScenarioDDLInsertAliasOrderByDesc exercises a CREATE TABLE, an
// InsertMultiple, and a SELECT with an aliased projection sorted
// descending.
func TestScenarioDDLInsertAliasOrderByDesc(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE people (id INTEGER, age INTEGER);")
	mustExec(t, e, "INSERT INTO people VALUES (1, 30), (2, 25), (3, 40);")

	res := mustExec(t, e, "SELECT age AS years FROM people ORDER BY years DESC;")
	require.True(res.HasNames)
	require.Equal([]string{"years"}, res.ColumnNames)
	require.Equal([][]types.Value{
		{types.NewInteger(40)},
		{types.NewInteger(30)},
		{types.NewInteger(25)},
	}, res.Rows)
}

// TestScenarioThreeValuedWhereExcludesNull covers a WHERE clause whose
// Kleene result is NULL for some rows, which must be excluded from the
// result set exactly like an explicit FALSE.
func TestScenarioThreeValuedWhereExcludesNull(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE t (flag BOOLEAN);")
	mustExec(t, e, "INSERT INTO t VALUES (TRUE), (NULL), (FALSE);")

	res := mustExec(t, e, "SELECT flag FROM t WHERE flag;")
	require.Equal([][]types.Value{{types.NewBoolean(true)}}, res.Rows)
}

// TestScenarioGroupByWithNullGroupAndSum covers explicit GROUP BY
// bucketing a NULL key into its own group alongside a SUM aggregate.
func TestScenarioGroupByWithNullGroupAndSum(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE orders (customer INTEGER, amount INTEGER);")
	mustExec(t, e, "INSERT INTO orders VALUES (1, 10), (1, 5), (NULL, 7);")

	res := mustExec(t, e, "SELECT customer, SUM(amount) FROM orders GROUP BY customer;")
	require.Len(res.Rows, 2)
	require.Equal(types.NewInteger(1), res.Rows[0][0])
	require.Equal(types.NewInteger(15), res.Rows[0][1])
	require.True(res.Rows[1][0].IsNull())
	require.Equal(types.NewInteger(7), res.Rows[1][1])
}

// TestScenarioDivisionByZero covers the division_by_zero_error bucket
// surfacing from a scalar expression in a projection.
func TestScenarioDivisionByZero(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE t (n INTEGER);")
	mustExec(t, e, "INSERT INTO t VALUES (1);")

	_, err := e.Execute("SELECT n / 0 FROM t;")
	require.Error(err)
}

// TestScenarioLeftOuterJoinPadsWithNull covers a LEFT OUTER JOIN whose
// right side has no match for one left row.
func TestScenarioLeftOuterJoinPadsWithNull(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE a (x INTEGER);")
	mustExec(t, e, "CREATE TABLE b (x INTEGER);")
	mustExec(t, e, "INSERT INTO a VALUES (1), (2);")
	mustExec(t, e, "INSERT INTO b VALUES (1);")

	res := mustExec(t, e, "SELECT a.x, b.x FROM a LEFT OUTER JOIN b ON a.x = b.x;")
	require.Len(res.Rows, 2)
	require.Equal(types.NewInteger(2), res.Rows[1][0])
	require.True(res.Rows[1][1].IsNull())
}

// TestScenarioImplicitGroupingOverEmptyFilteredInput covers an
// aggregate-only projection with no GROUP BY whose WHERE filters out
// every row, which must still produce exactly one row (COUNT=0,
// SUM=NULL), not zero rows.
func TestScenarioImplicitGroupingOverEmptyFilteredInput(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE t (n INTEGER, active BOOLEAN);")
	mustExec(t, e, "INSERT INTO t VALUES (1, FALSE), (2, FALSE);")

	res := mustExec(t, e, "SELECT COUNT(*), SUM(n) FROM t WHERE active;")
	require.Len(res.Rows, 1)
	require.Equal(types.NewInteger(0), res.Rows[0][0])
	require.True(res.Rows[0][1].IsNull())
}

// TestScenarioUnnamedAggregateProjectionsStillReportColumnNames covers
// §8 scenario 6 precisely: a Select whose projections are all unnamed
// aggregates must still report column_names (as empty strings), since
// the "omitted when unaliased" rule is restricted to the FROM-less
// SelectConstant.
func TestScenarioUnnamedAggregateProjectionsStillReportColumnNames(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})

	mustExec(t, e, "CREATE TABLE u (a INTEGER);")
	mustExec(t, e, "INSERT INTO u VALUES (1);")

	res := mustExec(t, e, "SELECT COUNT(a), SUM(a) FROM u WHERE a > 1000;")
	require.True(res.HasNames)
	require.Equal([]string{"", ""}, res.ColumnNames)
	require.Equal([][]types.Value{{types.NewInteger(0), types.Null}}, res.Rows)
}

func TestInsertAtomicityLeavesStoreUntouchedOnMidStatementFailure(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})
	mustExec(t, e, "CREATE TABLE t (n INTEGER);")

	_, err := e.Execute("INSERT INTO t VALUES (1), (1 / 0);")
	require.Error(err)

	res := mustExec(t, e, "SELECT n FROM t;")
	require.Empty(res.Rows)
}

func TestDropTableIfExistsIsNoopWhenMissing(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})
	_, err := e.Execute("DROP TABLE IF EXISTS nope;")
	require.NoError(err)
}

func TestUnknownCommandIsRejected(t *testing.T) {
	require := require.New(t)
	e := sqlmemdb.New(sqlmemdb.Config{})
	_, err := e.Execute("not sql at all ???")
	require.Error(err)
}
