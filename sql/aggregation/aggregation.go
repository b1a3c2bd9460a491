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

// Package aggregation implements the §4.5 aggregate evaluator and
// function registry (COUNT, SUM). Grounded on the teacher's
// sql/expression/aggregation_test.go, which exercises a single
// aggregate's lifecycle over a set of rows (there: NewBuffer/Update/
// Merge/Eval; here, a single per-group pass since this engine has no
// distributed merge step to support).
package aggregation

import (
	"github.com/technicaldeft/sqlmemdb/sql/ast"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
	"github.com/technicaldeft/sqlmemdb/sql/expression"
	"github.com/technicaldeft/sqlmemdb/sql/rowcontext"
	"github.com/technicaldeft/sqlmemdb/sql/types"
)

// Entry is one function registry record (§4.5): whether an argument is
// required, its expected argument type (AnyArgument if unconstrained),
// the return type, and the default value returned over an empty group.
type Entry struct {
	Name             string
	RequiresArgument bool
	AnyArgument      bool
	ArgumentType     types.Type
	ReturnType       types.Type
	Default          types.Value
}

// Registry is the COUNT/SUM function registry of §4.5.
var Registry = map[string]Entry{
	"COUNT": {
		Name:             "COUNT",
		RequiresArgument: false,
		AnyArgument:      true,
		ReturnType:       types.Integer,
		Default:          types.NewInteger(0),
	},
	"SUM": {
		Name:             "SUM",
		RequiresArgument: true,
		ArgumentType:     types.Integer,
		ReturnType:       types.Integer,
		Default:          types.Null,
	},
}

// Lookup returns the registry entry for name (case already canonicalized
// to upper-case by the parser), and whether it exists.
func Lookup(name string) (Entry, bool) {
	e, ok := Registry[name]
	return e, ok
}

// Eval evaluates one AggregateFunction node over a group: a non-empty (or,
// for implicit grouping over an empty filtered input, possibly empty)
// slice of per-row RowContexts that all belong to the same group.
func Eval(n *ast.AggregateFunction, group []*rowcontext.RowContext) (types.Value, error) {
	entry, ok := Lookup(n.Name)
	if !ok {
		return types.Value{}, errkind.Validation(errkind.ErrUnknownFunction, n.Name)
	}

	switch entry.Name {
	case "COUNT":
		if n.Star || n.Arg == nil {
			return types.NewInteger(int64(len(group))), nil
		}
		var count int64
		for _, rc := range group {
			v, err := expression.Eval(rc, n.Arg)
			if err != nil {
				return types.Value{}, err
			}
			if !v.IsNull() {
				count++
			}
		}
		return types.NewInteger(count), nil

	case "SUM":
		if n.Arg == nil {
			return types.Value{}, errkind.Validation(errkind.ErrWrongArgumentCount, "SUM")
		}
		var sum int64
		sawValue := false
		for _, rc := range group {
			v, err := expression.Eval(rc, n.Arg)
			if err != nil {
				return types.Value{}, err
			}
			if v.IsNull() {
				continue
			}
			if v.Type() != types.Integer {
				return types.Value{}, errkind.Validation(errkind.ErrTypeMismatch, "SUM requires an INTEGER argument")
			}
			sum += v.Integer
			sawValue = true
		}
		if !sawValue {
			return types.Null, nil
		}
		return types.NewInteger(sum), nil

	default:
		return types.Value{}, errkind.Validation(errkind.ErrUnknownFunction, n.Name)
	}
}
