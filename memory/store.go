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

// Package memory is the §4.7 table store: an in-memory map of schemas and
// row vectors, grounded on memory/table_test.go and memory/database_test.go
// from the teacher (memory.NewTable(name, schema), insertion-ordered rows).
package memory

import (
	"github.com/pkg/errors"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Column is a single column's schema: its name and declared type. Column
// names are case-sensitive for storage but case-insensitive for
// resolution and comparison (§3).
type Column struct {
	Name        string
	DeclaredType types.DeclaredType
}

// Table is an in-memory table: an ordered column schema plus an ordered
// list of row vectors, each of length len(Columns).
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]types.Value
}

// ColumnIndex returns the position of name within the table's schema
// (case-insensitive), or -1 if not found.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if equalFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Store owns every Table that exists, keyed case-sensitively by table
// name (table name resolution in this engine, like the teacher's
// catalog, is exact-match; only column references are case-insensitive
// per §3).
type Store struct {
	tables map[string]*Table
	order  []string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// Create adds a new table. Fails if the name is already in use or if two
// columns share a (case-insensitive) name.
func (s *Store) Create(name string, columns []Column) error {
	if _, ok := s.tables[name]; ok {
		return errors.Wrap(errkind.Validation(errkind.ErrTableAlreadyExists, name), "memory.Store.Create")
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		key := lower(c.Name)
		if seen[key] {
			return errors.Wrap(errkind.Validation(errkind.ErrDuplicateColumn, c.Name), "memory.Store.Create")
		}
		seen[key] = true
	}
	t := &Table{Name: name, Columns: columns}
	s.tables[name] = t
	s.order = append(s.order, name)
	return nil
}

// Drop removes a table. If ifExists is true, dropping a missing table is
// a no-op success; otherwise it fails.
func (s *Store) Drop(name string, ifExists bool) error {
	if _, ok := s.tables[name]; !ok {
		if ifExists {
			return nil
		}
		return errors.Wrap(errkind.Validation(errkind.ErrUnknownTable, name), "memory.Store.Drop")
	}
	delete(s.tables, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns the table named name, or nil if it does not exist.
func (s *Store) Lookup(name string) *Table {
	return s.tables[name]
}

// Insert appends one row to table name, padding any missing trailing
// values with NULL. Fails if the table is unknown or values has more
// entries than the table has columns.
func (s *Store) Insert(name string, values []types.Value) error {
	t, ok := s.tables[name]
	if !ok {
		return errors.Wrap(errkind.Validation(errkind.ErrUnknownTable, name), "memory.Store.Insert")
	}
	if len(values) > len(t.Columns) {
		return errkind.Validation(errkind.ErrTooManyValues)
	}
	for i, v := range values {
		if !v.IsNull() && v.Type() != t.Columns[i].DeclaredType {
			return errkind.Validation(errkind.ErrTypeMismatch,
				"column "+t.Columns[i].Name+" is "+t.Columns[i].DeclaredType.String()+", got "+v.Type().String())
		}
	}
	row := make([]types.Value, len(t.Columns))
	copy(row, values)
	for i := len(values); i < len(row); i++ {
		row[i] = types.Null
	}
	t.Rows = append(t.Rows, row)
	return nil
}

func equalFold(a, b string) bool {
	return lower(a) == lower(b)
}

func lower(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
