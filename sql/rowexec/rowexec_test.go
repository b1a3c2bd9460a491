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

package rowexec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb/memory"
	"github.com/technicaldeft/sqlmemdb/sql/analyzer"
	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/rowexec"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

func run(t *testing.T, store *memory.Store, sel *ast.Select) *rowexec.Result {
	t.Helper()
	require := require.New(t)
	vc, err := analyzer.ValidateSelect(store, sel)
	require.NoError(err)
	res, err := rowexec.Run(store, sel, vc)
	require.NoError(err)
	return res
}

func usersStore(t *testing.T, rows ...[]types.Value) *memory.Store {
	t.Helper()
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("users", []memory.Column{
		{Name: "id", DeclaredType: types.Integer},
		{Name: "active", DeclaredType: types.Boolean},
	}))
	for _, r := range rows {
		require.NoError(s.Insert("users", r))
	}
	return s
}

func TestRunFilterAndProject(t *testing.T) {
	s := usersStore(t,
		[]types.Value{types.NewInteger(1), types.NewBoolean(true)},
		[]types.Value{types.NewInteger(2), types.NewBoolean(false)},
	)
	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{{Expr: &ast.Column{Name: "id"}}},
		From:        "users",
		Where:       &ast.Column{Name: "active"},
	})
	require.New(t).Equal([][]types.Value{{types.NewInteger(1)}}, res.Rows)
}

func TestRunWhereExcludesNullRows(t *testing.T) {
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("t", []memory.Column{{Name: "flag", DeclaredType: types.Boolean}}))
	require.NoError(s.Insert("t", []types.Value{types.NewBoolean(true)}))
	require.NoError(s.Insert("t", []types.Value{types.Null}))
	require.NoError(s.Insert("t", []types.Value{types.NewBoolean(false)}))
	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{{Expr: &ast.Column{Name: "flag"}}},
		From:        "t",
		Where:       &ast.Column{Name: "flag"},
	})
	require.Equal([][]types.Value{{types.NewBoolean(true)}}, res.Rows)
}

func TestRunInnerJoin(t *testing.T) {
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("a", []memory.Column{{Name: "x", DeclaredType: types.Integer}}))
	require.NoError(s.Create("b", []memory.Column{{Name: "x", DeclaredType: types.Integer}}))
	require.NoError(s.Insert("a", []types.Value{types.NewInteger(1)}))
	require.NoError(s.Insert("a", []types.Value{types.NewInteger(2)}))
	require.NoError(s.Insert("b", []types.Value{types.NewInteger(1)}))

	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{{Expr: &ast.QualifiedColumn{Table: "a", Column: "x"}}},
		From:        "a",
		Joins: []ast.Join{{
			Kind: ast.InnerJoin, Table: "b",
			On: &ast.Binary{Op: ast.OpEqual, Left: &ast.QualifiedColumn{Table: "a", Column: "x"}, Right: &ast.QualifiedColumn{Table: "b", Column: "x"}},
		}},
	})
	require.Equal([][]types.Value{{types.NewInteger(1)}}, res.Rows)
}

func TestRunLeftOuterJoinPadsUnmatchedWithNull(t *testing.T) {
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("a", []memory.Column{{Name: "x", DeclaredType: types.Integer}}))
	require.NoError(s.Create("b", []memory.Column{{Name: "x", DeclaredType: types.Integer}}))
	require.NoError(s.Insert("a", []types.Value{types.NewInteger(1)}))
	require.NoError(s.Insert("a", []types.Value{types.NewInteger(2)}))
	require.NoError(s.Insert("b", []types.Value{types.NewInteger(1)}))

	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{
			{Expr: &ast.QualifiedColumn{Table: "a", Column: "x"}},
			{Expr: &ast.QualifiedColumn{Table: "b", Column: "x"}},
		},
		From: "a",
		Joins: []ast.Join{{
			Kind: ast.LeftOuterJoin, Table: "b",
			On: &ast.Binary{Op: ast.OpEqual, Left: &ast.QualifiedColumn{Table: "a", Column: "x"}, Right: &ast.QualifiedColumn{Table: "b", Column: "x"}},
		}},
	})
	require.Len(res.Rows, 2)
	require.Equal(types.NewInteger(2), res.Rows[1][0])
	require.True(res.Rows[1][1].IsNull())
}

func TestRunExplicitGroupByWithNullBucketAndSum(t *testing.T) {
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("orders", []memory.Column{
		{Name: "customer", DeclaredType: types.Integer},
		{Name: "amount", DeclaredType: types.Integer},
	}))
	require.NoError(s.Insert("orders", []types.Value{types.NewInteger(1), types.NewInteger(10)}))
	require.NoError(s.Insert("orders", []types.Value{types.NewInteger(1), types.NewInteger(5)}))
	require.NoError(s.Insert("orders", []types.Value{types.Null, types.NewInteger(7)}))

	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{
			{Expr: &ast.Column{Name: "customer"}},
			{Expr: &ast.AggregateFunction{Name: "SUM", Arg: &ast.Column{Name: "amount"}}},
		},
		From:    "orders",
		GroupBy: &ast.Column{Name: "customer"},
	})
	require.Len(res.Rows, 2)
	require.Equal(types.NewInteger(1), res.Rows[0][0])
	require.Equal(types.NewInteger(15), res.Rows[0][1])
	require.True(res.Rows[1][0].IsNull())
	require.Equal(types.NewInteger(7), res.Rows[1][1])
}

func TestRunImplicitGroupingOverEmptyFilteredInput(t *testing.T) {
	require := require.New(t)
	s := usersStore(t, []types.Value{types.NewInteger(1), types.NewBoolean(false)})
	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{
			{Expr: &ast.AggregateFunction{Name: "COUNT", Star: true}},
			{Expr: &ast.AggregateFunction{Name: "SUM", Arg: &ast.Column{Name: "id"}}},
		},
		From:  "users",
		Where: &ast.Column{Name: "active"},
	})
	require.Len(res.Rows, 1)
	require.Equal(types.NewInteger(0), res.Rows[0][0])
	require.True(res.Rows[0][1].IsNull())
}

func TestRunOrderByDescAndLimitOffset(t *testing.T) {
	require := require.New(t)
	s := memory.NewStore()
	require.NoError(s.Create("t", []memory.Column{{Name: "n", DeclaredType: types.Integer}}))
	for _, n := range []int64{3, 1, 2} {
		require.NoError(s.Insert("t", []types.Value{types.NewInteger(n)}))
	}
	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{{Expr: &ast.Column{Name: "n"}}},
		From:        "t",
		OrderBy:     &ast.OrderBy{Expr: &ast.Column{Name: "n"}, Direction: ast.Desc},
		Limit:       &ast.Literal{Value: types.NewInteger(1)},
		Offset:      &ast.Literal{Value: types.NewInteger(1)},
	})
	want := [][]types.Value{{types.NewInteger(2)}}
	if diff := cmp.Diff(want, res.Rows); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestRunStarProjectionReportsBareColumnNames(t *testing.T) {
	require := require.New(t)
	s := usersStore(t, []types.Value{types.NewInteger(1), types.NewBoolean(true)})
	res := run(t, s, &ast.Select{
		Projections: []ast.Projection{{Expr: &ast.Star{}}},
		From:        "users",
	})
	require.True(res.HasNames)
	require.Equal([]string{"id", "active"}, res.ColumnNames)
	require.Equal([][]types.Value{{types.NewInteger(1), types.NewBoolean(true)}}, res.Rows)
}
