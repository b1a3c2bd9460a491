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

package server_test

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/technicaldeft/sqlmemdb"
	"github.com/technicaldeft/sqlmemdb/internal/server"
)

// roundTrip connects to a listener, writes a null-delimited request, and
// reads back the null-delimited response as a generic JSON map.
func roundTrip(t *testing.T, addr, stmt string) map[string]interface{} {
	t.Helper()
	require := require.New(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(err)
	defer conn.Close()

	_, err = conn.Write(append([]byte(stmt), 0))
	require.NoError(err)

	payload, err := bufio.NewReader(conn).ReadString(0)
	require.NoError(err)

	var out map[string]interface{}
	require.NoError(json.Unmarshal([]byte(payload[:len(payload)-1]), &out))
	return out
}

func startServer(t *testing.T) string {
	t.Helper()
	require := require.New(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	addr := ln.Addr().String()
	ln.Close()

	_, port, err := net.SplitHostPort(addr)
	require.NoError(err)
	p, err := strconv.Atoi(port)
	require.NoError(err)

	engine := sqlmemdb.New(sqlmemdb.Config{})
	srv := server.New(server.Config{Port: p}, engine)
	go srv.ListenAndServe()
	return addr
}

func TestServerRoundTripCreateInsertSelect(t *testing.T) {
	require := require.New(t)
	addr := startServer(t)

	out := roundTrip(t, addr, "CREATE TABLE t (n INTEGER);")
	require.Equal("ok", out["status"])

	out = roundTrip(t, addr, "INSERT INTO t VALUES (1), (2);")
	require.Equal("ok", out["status"])

	out = roundTrip(t, addr, "SELECT n FROM t ORDER BY n DESC;")
	require.Equal("ok", out["status"])
	rows, ok := out["rows"].([]interface{})
	require.True(ok)
	require.Len(rows, 2)
}

func TestServerRoundTripReportsErrorType(t *testing.T) {
	require := require.New(t)
	addr := startServer(t)

	out := roundTrip(t, addr, "SELECT * FROM nope;")
	require.Equal("error", out["status"])
	require.Equal("validation_error", out["error_type"])
}
