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

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb/sql/types"
)

func TestEncodeValueRendersIntegerBooleanAndNull(t *testing.T) {
	require := require.New(t)
	require.Equal(int64(42), encodeValue(types.NewInteger(42)))
	require.Equal("TRUE", encodeValue(types.NewBoolean(true)))
	require.Equal("FALSE", encodeValue(types.NewBoolean(false)))
	require.Nil(encodeValue(types.Null))
}

func TestEnvelopeJSONShapes(t *testing.T) {
	require := require.New(t)

	okNoRows := envelope{Status: "ok"}
	b, err := json.Marshal(okNoRows)
	require.NoError(err)
	require.JSONEq(`{"status":"ok"}`, string(b))

	rows := [][]types.Value{{types.NewInteger(1)}, {types.Null}}
	okRows := envelope{Status: "ok", ColumnNames: []string{"id"}, Rows: encodeRows(rows)}
	b, err = json.Marshal(okRows)
	require.NoError(err)
	require.JSONEq(`{"status":"ok","column_names":["id"],"rows":[[1],[null]]}`, string(b))

	failed := envelope{Status: "error", ErrorType: "validation_error"}
	b, err = json.Marshal(failed)
	require.NoError(err)
	require.JSONEq(`{"status":"error","error_type":"validation_error"}`, string(b))
}
