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

package server

import "github.com/technicaldeft/sqlmemdb/sql/types"

// envelope is the §6.2 JSON response shape. Fields are omitted by Go's
// encoding/json when empty, giving the three documented shapes:
// success-no-rows, success-with-rows, and failure.
type envelope struct {
	Status      string          `json:"status"`
	ColumnNames []string        `json:"column_names,omitempty"`
	Rows        [][]interface{} `json:"rows,omitempty"`
	ErrorType   string          `json:"error_type,omitempty"`
}

// encodeRows renders every value per §6.2: Integer becomes a JSON number,
// Boolean becomes the literal JSON strings "TRUE"/"FALSE" (not native JSON
// booleans), and NULL becomes JSON null.
func encodeRows(rows [][]types.Value) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		encoded := make([]interface{}, len(row))
		for j, v := range row {
			encoded[j] = encodeValue(v)
		}
		out[i] = encoded
	}
	return out
}

func encodeValue(v types.Value) interface{} {
	switch v.Kind {
	case types.KindInteger:
		return v.Integer
	case types.KindBoolean:
		if v.Boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return nil
	}
}
