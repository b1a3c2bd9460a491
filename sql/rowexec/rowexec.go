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

// Package rowexec implements the §4.9-§4.13 query processor: row-context
// materialization for simple and JOIN queries, WHERE filtering, explicit
// and implicit grouping, projection evaluation, sorting, and
// offset/limit. Grounded on the shape implied by the teacher's
// sql/plan/group_by_test.go and sql/plan/innerjoin_test.go fixtures
// (RowIter-style row production feeding a later grouping/sort/limit
// stage), adapted here into a single in-memory pipeline since the whole
// input table set is already resident.
package rowexec

import (
	"github.com/technicaldeft/sqlmemdb/memory"
	"github.com/technicaldeft/sqlmemdb/sql/aggregation"
	"github.com/technicaldeft/sqlmemdb/sql/analyzer"
	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/expression"
	"github.com/technicaldeft/sqlmemdb/sql/rowcontext"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Result is the output of running a Select: the projected column names
// (present only when the wire layer should report them, per §6.2) and
// the row values.
type Result struct {
	ColumnNames []string
	HasNames    bool
	Rows        [][]types.Value
}

// Run executes sel against store using the ValidationContext vc already
// built by analyzer.ValidateSelect.
func Run(store *memory.Store, sel *ast.Select, vc *analyzer.ValidationContext) (*Result, error) {
	contexts, err := materialize(sel, vc.TableCtx)
	if err != nil {
		return nil, err
	}

	contexts, err = applyWhere(contexts, sel.Where)
	if err != nil {
		return nil, err
	}

	groups, err := buildGroups(contexts, sel.GroupBy, vc.HasAggregate)
	if err != nil {
		return nil, err
	}

	rows, err := project(groups, vc.Projections)
	if err != nil {
		return nil, err
	}

	orderExpr := vc.ResolvedOrderBy
	if sel.OrderBy != nil {
		rows, err = sortRows(groups, rows, orderExpr, sel.OrderBy.Direction)
		if err != nil {
			return nil, err
		}
	}

	rows, err = applyOffsetLimit(rows, sel.Offset, sel.Limit)
	if err != nil {
		return nil, err
	}

	names, hasNames := columnNames(vc.Projections)
	return &Result{ColumnNames: names, HasNames: hasNames, Rows: rows}, nil
}

// materialize builds one RowContext per result row of the FROM+JOIN
// product, per §4.8-§4.10.
func materialize(sel *ast.Select, tc *rowcontext.TableContext) ([]*rowcontext.RowContext, error) {
	fromSrc := tc.Sources[0]
	var contexts []*rowcontext.RowContext
	for _, row := range fromSrc.Table.Rows {
		rc := rowcontext.NewRowContext()
		rc.Add(fromSrc.Alias, fromSrc.Table, row)
		contexts = append(contexts, rc)
	}
	leftSources := []rowcontext.Source{fromSrc}

	for i, j := range sel.Joins {
		src := tc.Sources[i+1]
		var err error
		contexts, err = applyJoin(contexts, leftSources, src, j)
		if err != nil {
			return nil, err
		}
		leftSources = append(leftSources, src)
	}
	return contexts, nil
}

// applyJoin implements §4.10: a nested loop of the accumulated left
// contexts against the right table's rows, evaluating the ON condition
// under the combined context, with outer-join NULL padding. leftSources
// names every table contributing to left, needed to build an all-NULL
// left side for unmatched RIGHT/FULL OUTER rows.
func applyJoin(left []*rowcontext.RowContext, leftSources []rowcontext.Source, right rowcontext.Source, j ast.Join) ([]*rowcontext.RowContext, error) {
	var out []*rowcontext.RowContext
	rightMatched := make([]bool, len(right.Table.Rows))

	for _, lrc := range left {
		leftMatched := false
		for ri, rrow := range right.Table.Rows {
			combined := lrc.Clone()
			combined.Add(right.Alias, right.Table, rrow)
			ok, err := evalOn(combined, j.On)
			if err != nil {
				// §7: a runtime error inside a JOIN ON clause is caught
				// locally and treated as "does not match".
				continue
			}
			if ok {
				out = append(out, combined)
				leftMatched = true
				rightMatched[ri] = true
			}
		}
		if !leftMatched && (j.Kind == ast.LeftOuterJoin || j.Kind == ast.FullOuterJoin) {
			padded := lrc.Clone()
			padded.Add(right.Alias, right.Table, nil)
			out = append(out, padded)
		}
	}

	if j.Kind == ast.RightOuterJoin || j.Kind == ast.FullOuterJoin {
		for ri, rrow := range right.Table.Rows {
			if rightMatched[ri] {
				continue
			}
			padded := rowcontext.NewRowContext()
			for _, src := range leftSources {
				padded.Add(src.Alias, src.Table, nil)
			}
			padded.Add(right.Alias, right.Table, rrow)
			out = append(out, padded)
		}
	}

	return out, nil
}

func evalOn(rc *rowcontext.RowContext, on ast.Expr) (bool, error) {
	v, err := expression.Eval(rc, on)
	if err != nil {
		return false, err
	}
	return !v.IsNull() && v.Type() == types.Boolean && v.Boolean, nil
}

func applyWhere(contexts []*rowcontext.RowContext, where ast.Expr) ([]*rowcontext.RowContext, error) {
	if where == nil {
		return contexts, nil
	}
	var out []*rowcontext.RowContext
	for _, rc := range contexts {
		v, err := expression.Eval(rc, where)
		if err != nil {
			return nil, err
		}
		if !v.IsNull() && v.Type() == types.Boolean && v.Boolean {
			out = append(out, rc)
		}
	}
	return out, nil
}

// buildGroups implements §4.11: explicit GROUP BY buckets rows by key in
// first-seen order (the NULL key forms a single group); implicit
// grouping (an aggregate projection with no GROUP BY) folds every row
// into a single group, or emits one empty group when the filtered input
// itself is empty.
func buildGroups(contexts []*rowcontext.RowContext, groupBy ast.Expr, hasAggregate bool) ([]*groupEntry, error) {
	if groupBy != nil {
		return groupExplicit(contexts, groupBy)
	}
	if hasAggregate {
		return []*groupEntry{{rows: contexts}}, nil
	}
	out := make([]*groupEntry, len(contexts))
	for i, rc := range contexts {
		out[i] = &groupEntry{rows: []*rowcontext.RowContext{rc}}
	}
	return out, nil
}

// groupEntry is one GROUP BY bucket: its member row contexts plus a
// representative (the first row) used to evaluate non-aggregate,
// per-group-constant projection subexpressions.
type groupEntry struct {
	rows []*rowcontext.RowContext
}

func (g *groupEntry) representative() *rowcontext.RowContext {
	if len(g.rows) == 0 {
		return rowcontext.NewRowContext()
	}
	return g.rows[0]
}

// groupExplicit buckets rows by the GROUP BY key, in first-seen order.
// types.Value is a plain comparable struct, so it keys the bucket map
// directly: no hash collision can ever merge two distinct keys.
func groupExplicit(contexts []*rowcontext.RowContext, groupBy ast.Expr) ([]*groupEntry, error) {
	keys := make(map[types.Value]*groupEntry)
	nullGroupSeen := false
	var nullGroup *groupEntry
	var order []*groupEntry

	for _, rc := range contexts {
		v, err := expression.Eval(rc, groupBy)
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			if !nullGroupSeen {
				nullGroup = &groupEntry{}
				order = append(order, nullGroup)
				nullGroupSeen = true
			}
			nullGroup.rows = append(nullGroup.rows, rc)
			continue
		}
		g, ok := keys[v]
		if !ok {
			g = &groupEntry{}
			keys[v] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, rc)
	}
	return order, nil
}

func project(groups []*groupEntry, projections []ast.Projection) ([][]types.Value, error) {
	rows := make([][]types.Value, len(groups))
	for gi, g := range groups {
		row := make([]types.Value, len(projections))
		for pi, p := range projections {
			v, err := evalProjection(g, p.Expr)
			if err != nil {
				return nil, err
			}
			row[pi] = v
		}
		rows[gi] = row
	}
	return rows, nil
}

// evalProjection evaluates one projection expression against a group:
// aggregate subexpressions are evaluated once per group via
// sql/aggregation; the surrounding (or standalone) scalar structure is
// evaluated against the group's representative row context, with each
// aggregate subexpression folded to its computed Value first.
func evalProjection(g *groupEntry, e ast.Expr) (types.Value, error) {
	folded, err := foldAggregates(g, e)
	if err != nil {
		return types.Value{}, err
	}
	return expression.Eval(g.representative(), folded)
}

func foldAggregates(g *groupEntry, e ast.Expr) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.AggregateFunction:
		v, err := aggregation.Eval(n, g.rows)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: v}, nil
	case *ast.Binary:
		l, err := foldAggregates(g, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := foldAggregates(g, n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: n.Op, Left: l, Right: r}, nil
	case *ast.Unary:
		o, err := foldAggregates(g, n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: n.Op, Operand: o}, nil
	case *ast.Function:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			fa, err := foldAggregates(g, a)
			if err != nil {
				return nil, err
			}
			args[i] = fa
		}
		return &ast.Function{Name: n.Name, Args: args}, nil
	case *ast.IsNullTest:
		o, err := foldAggregates(g, n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.IsNullTest{Operand: o, Negated: n.Negated}, nil
	default:
		return e, nil
	}
}

// sortRows implements §4.12: a stable sort of the projected rows by
// orderExpr evaluated per group representative (folding aggregates the
// same way projections do, since ORDER BY may itself reference one).
func sortRows(groups []*groupEntry, rows [][]types.Value, orderExpr ast.Expr, dir ast.OrderDirection) ([][]types.Value, error) {
	type keyed struct {
		key types.Value
		row []types.Value
	}
	items := make([]keyed, len(groups))
	for i, g := range groups {
		v, err := evalProjection(g, orderExpr)
		if err != nil {
			return nil, err
		}
		items[i] = keyed{key: v, row: rows[i]}
	}

	less := func(a, b types.Value) bool {
		cmp := compareForSort(a, b)
		if dir == ast.Desc {
			return cmp > 0
		}
		return cmp < 0
	}

	// Stable insertion sort: the input sets are small (in-memory engine)
	// and this keeps the comparator's NULL/type-defensive behavior
	// explicit rather than relying on sort.Slice's swap semantics for a
	// hand-rolled Less.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && less(items[j].key, items[j-1].key) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}

	out := make([][]types.Value, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out, nil
}

// compareForSort implements §4.12's ordering: NULL sorts last under
// ASC, FALSE < TRUE, and incompatible types compare equal (defensive;
// validation should have already ruled this out in practice).
func compareForSort(a, b types.Value) int {
	if a.IsNull() && b.IsNull() {
		return 0
	}
	if a.IsNull() {
		return 1
	}
	if b.IsNull() {
		return -1
	}
	if a.Type() != b.Type() {
		return 0
	}
	switch a.Type() {
	case types.Integer:
		switch {
		case a.Integer < b.Integer:
			return -1
		case a.Integer > b.Integer:
			return 1
		default:
			return 0
		}
	case types.Boolean:
		ar, br := boolRank(a.Boolean), boolRank(b.Boolean)
		return ar - br
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// applyOffsetLimit implements §4.13: both are scalar expressions
// evaluated once against an empty environment; NULL LIMIT is unlimited,
// NULL OFFSET is zero, negative values clamp to zero, and OFFSET is
// applied before LIMIT.
func applyOffsetLimit(rows [][]types.Value, offsetExpr, limitExpr ast.Expr) ([][]types.Value, error) {
	offset, err := evalOffsetLimitExpr(offsetExpr, 0)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]

	limit, hasLimit, err := evalOptionalLimit(limitExpr)
	if err != nil {
		return nil, err
	}
	if hasLimit {
		if limit < 0 {
			limit = 0
		}
		if limit < len(rows) {
			rows = rows[:limit]
		}
	}
	return rows, nil
}

func evalOffsetLimitExpr(e ast.Expr, defaultValue int) (int, error) {
	if e == nil {
		return defaultValue, nil
	}
	v, err := expression.Eval(rowcontext.NewRowContext(), e)
	if err != nil {
		return 0, err
	}
	if v.IsNull() {
		return defaultValue, nil
	}
	if v.Type() != types.Integer {
		return 0, errkind.Validation(errkind.ErrLimitOffsetType)
	}
	return int(v.Integer), nil
}

func evalOptionalLimit(e ast.Expr) (int, bool, error) {
	if e == nil {
		return 0, false, nil
	}
	v, err := expression.Eval(rowcontext.NewRowContext(), e)
	if err != nil {
		return 0, false, err
	}
	if v.IsNull() {
		return 0, false, nil
	}
	if v.Type() != types.Integer {
		return 0, false, errkind.Validation(errkind.ErrLimitOffsetType)
	}
	return int(v.Integer), true, nil
}

// columnNames computes the §6.2 "column_names" list: the alias if one
// was given, otherwise the bare column name for a direct column
// reference, otherwise "" for an unnamed expression (an aggregate or
// other computed projection). Every Select has a FROM clause, so
// column_names is always reported for it; the "omitted when no alias is
// given" rule in §6.2 applies only to the FROM-less SelectConstant,
// handled separately in the root engine.
func columnNames(projections []ast.Projection) ([]string, bool) {
	names := make([]string, len(projections))
	for i, p := range projections {
		switch {
		case p.Alias != "":
			names[i] = p.Alias
		case isColumnExpr(p.Expr):
			names[i] = columnExprName(p.Expr)
		default:
			names[i] = ""
		}
	}
	return names, true
}

func isColumnExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Column, *ast.QualifiedColumn:
		return true
	default:
		return false
	}
}

func columnExprName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Column:
		return n.Name
	case *ast.QualifiedColumn:
		return n.Column
	default:
		return ""
	}
}
