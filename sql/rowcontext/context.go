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

// Package rowcontext implements the §4.8 TableContext and RowContext:
// alias-to-table-name resolution and the per-row environment used during
// scalar evaluation, including the bare-name-ambiguity rule for
// multi-source (JOIN) queries. Grounded on the alias/name-resolution
// idiom visible in the teacher's sql/plan/innerjoin_test.go and
// tablealias_test.go fixtures.
package rowcontext

import (
	"strings"

	"github.com/technicaldeft/sqlmemdb/memory"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Source is one table participating in a query, under its resolved alias.
type Source struct {
	Alias string // the alias (or bare table name if none given)
	Table *memory.Table
}

// TableContext maps aliases to resolved table schemas for a single query
// (§3). Every alias must resolve to a known table and must be unique
// within the query.
type TableContext struct {
	Sources []Source
}

// NewTableContext validates and builds a TableContext from the FROM
// table (with optional alias) and any JOIN sources.
func NewTableContext(store *memory.Store, fromTable, fromAlias string, joinTables, joinAliases []string) (*TableContext, error) {
	tc := &TableContext{}
	add := func(tableName, alias string) error {
		t := store.Lookup(tableName)
		if t == nil {
			return errkind.Validation(errkind.ErrUnknownTable, tableName)
		}
		if alias == "" {
			alias = tableName
		}
		for _, s := range tc.Sources {
			if strings.EqualFold(s.Alias, alias) {
				return errkind.Validation(errkind.ErrDuplicateAlias, alias)
			}
		}
		tc.Sources = append(tc.Sources, Source{Alias: alias, Table: t})
		return nil
	}
	if err := add(fromTable, fromAlias); err != nil {
		return nil, err
	}
	for i, jt := range joinTables {
		if err := add(jt, joinAliases[i]); err != nil {
			return nil, err
		}
	}
	return tc, nil
}

// Lookup returns the Source for a known alias, or nil.
func (tc *TableContext) Lookup(alias string) *Source {
	for i := range tc.Sources {
		if strings.EqualFold(tc.Sources[i].Alias, alias) {
			return &tc.Sources[i]
		}
	}
	return nil
}

// CountColumn returns how many sources in the context declare a column
// named name (case-insensitive), used to detect bare-name ambiguity.
func (tc *TableContext) CountColumn(name string) int {
	n := 0
	for _, s := range tc.Sources {
		if s.Table.ColumnIndex(name) >= 0 {
			n++
		}
	}
	return n
}

// RowContext is the per-row evaluation environment for a single result
// row: it maps both bare column names (when unambiguous) and
// `alias.column` names to Values (§4.8). When the right side of an outer
// join has no match, its entries are all NULL but still present (so
// `alias.column` resolution still succeeds and returns NULL).
type RowContext struct {
	bare      map[string]types.Value
	ambiguous map[string]bool
	qualified map[string]types.Value // key: lower(alias)+"."+lower(column)
	aliases   map[string]bool        // set of every alias ever Add()-ed
}

// NewRowContext builds an empty RowContext.
func NewRowContext() *RowContext {
	return &RowContext{
		bare:      make(map[string]types.Value),
		ambiguous: make(map[string]bool),
		qualified: make(map[string]types.Value),
		aliases:   make(map[string]bool),
	}
}

// Add merges one source's row (or an all-NULL placeholder row, for an
// unmatched outer-join side) into the context under alias.
func (rc *RowContext) Add(alias string, table *memory.Table, row []types.Value) {
	rc.aliases[lower(alias)] = true
	for i, col := range table.Columns {
		var v types.Value
		if row == nil {
			v = types.Null
		} else {
			v = row[i]
		}
		key := lower(col.Name)
		if _, exists := rc.bare[key]; exists {
			rc.ambiguous[key] = true
		} else {
			rc.bare[key] = v
		}
		rc.qualified[lower(alias)+"."+key] = v
	}
}

// Clone returns an independent copy of rc, so that fanning one left-side
// row out across multiple matching right-side rows (§4.10) does not let
// later Adds on one copy leak into another.
func (rc *RowContext) Clone() *RowContext {
	clone := NewRowContext()
	for k, v := range rc.bare {
		clone.bare[k] = v
	}
	for k, v := range rc.ambiguous {
		clone.ambiguous[k] = v
	}
	for k, v := range rc.qualified {
		clone.qualified[k] = v
	}
	for k, v := range rc.aliases {
		clone.aliases[k] = v
	}
	return clone
}

// Bare resolves an unqualified column reference. Ambiguous or unknown
// names fail.
func (rc *RowContext) Bare(name string) (types.Value, error) {
	key := lower(name)
	if rc.ambiguous[key] {
		return types.Value{}, errkind.Validation(errkind.ErrAmbiguousColumn, name)
	}
	v, ok := rc.bare[key]
	if !ok {
		return types.Value{}, errkind.Validation(errkind.ErrUnknownColumn, name)
	}
	return v, nil
}

// Qualified resolves an `alias.column` reference, distinguishing an
// unknown alias from a known alias with no such column.
func (rc *RowContext) Qualified(alias, column string) (types.Value, error) {
	if !rc.aliases[lower(alias)] {
		return types.Value{}, errkind.Validation(errkind.ErrUnknownAlias, alias)
	}
	v, ok := rc.qualified[lower(alias)+"."+lower(column)]
	if !ok {
		return types.Value{}, errkind.Validation(errkind.ErrUnknownColumn, alias+"."+column)
	}
	return v, nil
}

func lower(s string) string {
	return strings.ToLower(s)
}
