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

// Package sqlmemdb is the executor: it wires the parser, analyzer, and
// row processor together behind a single Execute entry point, mirroring
// the teacher's engine.go (Config, Engine, a single Query-shaped
// entry point over the rest of the stack).
package sqlmemdb

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/technicaldeft/sqlmemdb/memory"
	"github.com/technicaldeft/sqlmemdb/sql/analyzer"
	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/expression"
	"github.com/technicaldeft/sqlmemdb/sql/parser"
	"github.com/technicaldeft/sqlmemdb/sql/rowcontext"
	"github.com/technicaldeft/sqlmemdb/sql/rowexec"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Config configures a new Engine. The zero Config is valid and uses a
// discarding logger.
type Config struct {
	// Logger receives one entry per executed statement plus accept/close
	// events logged by internal/server. Defaults to a logrus.Logger with
	// output discarded if nil.
	Logger logrus.FieldLogger
}

// Engine owns the table store and executes one statement at a time.
// Nothing below this type is safe for concurrent use; internal/server
// serializes calls into it with its own mutex (§5).
type Engine struct {
	store *memory.Store
	log   logrus.FieldLogger
}

// New builds an Engine with an empty store.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(nopWriter{})
		log = discard
	}
	return &Engine{store: memory.NewStore(), log: log}
}

// Result is the outcome of a successful Execute: the projected column
// names (only meaningful when HasNames is true, per §6.2) and the rows.
// For a statement with no result set (CREATE/DROP/INSERT), Execute
// returns a nil *Result.
type Result struct {
	ColumnNames []string
	HasNames    bool
	Rows        [][]types.Value
}

// Execute parses and runs a single statement against e's store. The
// returned error, if any, is always one of the errkind bucket kinds; the
// caller maps it to the §6.2 JSON envelope via errkind.BucketName.
func (e *Engine) Execute(text string) (*Result, error) {
	log := e.log.WithField("query", truncate(text, 200))

	stmt, err := parser.Parse(text)
	if err != nil {
		log.WithError(err).Warn("parse failed")
		return nil, err
	}

	result, err := e.executeStatement(stmt)
	if err != nil {
		log.WithError(err).Warn("statement failed")
		return nil, err
	}
	log.Info("statement executed")
	return result, nil
}

func (e *Engine) executeStatement(stmt ast.Statement) (*Result, error) {
	switch n := stmt.(type) {
	case *ast.CreateTable:
		return nil, e.execCreateTable(n)
	case *ast.DropTable:
		return nil, e.execDropTable(n)
	case *ast.InsertMultiple:
		return nil, e.execInsert(n)
	case *ast.SelectConstant:
		return e.execSelectConstant(n)
	case *ast.Select:
		return e.execSelect(n)
	default:
		return nil, errkind.UnknownCommand()
	}
}

func (e *Engine) execCreateTable(n *ast.CreateTable) error {
	if err := analyzer.ValidateCreateTable(n); err != nil {
		return err
	}
	columns := make([]memory.Column, len(n.Columns))
	for i, c := range n.Columns {
		columns[i] = memory.Column{Name: c.Name, DeclaredType: c.Type}
	}
	return e.store.Create(n.Table, columns)
}

func (e *Engine) execDropTable(n *ast.DropTable) error {
	return e.store.Drop(n.Table, n.IfExists)
}

// execInsert validates and evaluates every value in every row of the
// statement against an empty RowContext before inserting any row, so a
// failure partway through (a bad expression in the third row set, say)
// leaves the store completely untouched (§5, §7).
func (e *Engine) execInsert(n *ast.InsertMultiple) error {
	table := e.store.Lookup(n.Table)
	if table == nil {
		return errkind.Validation(errkind.ErrUnknownTable, n.Table)
	}
	empty := rowcontext.NewRowContext()
	rows := make([][]types.Value, len(n.ValueSets))
	for i, valueSet := range n.ValueSets {
		if len(valueSet) > len(table.Columns) {
			return errkind.Validation(errkind.ErrTooManyValues)
		}
		row := make([]types.Value, len(valueSet))
		for j, expr := range valueSet {
			v, err := expression.Eval(empty, expr)
			if err != nil {
				return err
			}
			if col := table.Columns[j]; !v.IsNull() && v.Type() != col.DeclaredType {
				return errkind.Validation(errkind.ErrTypeMismatch,
					"column "+col.Name+" is "+col.DeclaredType.String()+", got "+v.Type().String())
			}
			row[j] = v
		}
		rows[i] = row
	}
	for _, row := range rows {
		if err := e.store.Insert(n.Table, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execSelectConstant(n *ast.SelectConstant) (*Result, error) {
	if err := analyzer.ValidateSelectConstant(n); err != nil {
		return nil, err
	}
	empty := rowcontext.NewRowContext()
	row := make([]types.Value, len(n.Projections))
	names := make([]string, len(n.Projections))
	hasNames := false
	for i, p := range n.Projections {
		v, err := expression.Eval(empty, p.Expr)
		if err != nil {
			return nil, err
		}
		row[i] = v
		if p.Alias != "" {
			names[i] = p.Alias
			hasNames = true
		}
	}
	return &Result{ColumnNames: names, HasNames: hasNames, Rows: [][]types.Value{row}}, nil
}

func (e *Engine) execSelect(n *ast.Select) (*Result, error) {
	vc, err := analyzer.ValidateSelect(e.store, n)
	if err != nil {
		return nil, err
	}
	r, err := rowexec.Run(e.store, n, vc)
	if err != nil {
		return nil, err
	}
	return &Result{ColumnNames: r.ColumnNames, HasNames: r.HasNames, Rows: r.Rows}, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
