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

// Package server implements the §6.1 transport: a TCP listener that
// frames requests and responses on a null byte and dispatches each framed
// payload to a sqlmemdb.Engine. Grounded on the teacher's server.Config
// (server/server_config_test.go, a defaults-then-override struct) and
// driver/conn.go's per-connection context idiom, adapted here from a
// MySQL-protocol session to our own framing and a single shared engine.
package server

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"sync"

	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/technicaldeft/sqlmemdb"
	"github.com/technicaldeft/sqlmemdb/sql/errkind"
)

// frameDelimiter is the null byte separating requests and responses on
// the wire (§6.1).
const frameDelimiter = 0

// Config configures a Server. Port defaults to 3003 if zero.
type Config struct {
	Port   int
	Logger logrus.FieldLogger
}

// NewConfig fills in Config defaults, following the teacher's
// Config.NewConfig idiom (server/server_config_test.go).
func (c Config) NewConfig() Config {
	if c.Port == 0 {
		c.Port = 3003
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Server accepts TCP connections and dispatches framed statements to a
// single shared Engine. The engine itself is single-statement-at-a-time
// (§5); mu is the one piece of concurrency control needed to let the
// transport still accept multiple sockets.
type Server struct {
	cfg    Config
	engine *sqlmemdb.Engine
	mu     sync.Mutex
	log    logrus.FieldLogger
}

// New builds a Server over engine using cfg (defaulted via NewConfig).
func New(cfg Config, engine *sqlmemdb.Engine) *Server {
	cfg = cfg.NewConfig()
	return &Server{cfg: cfg, engine: engine, log: cfg.Logger}
}

// ListenAndServe binds cfg.Port and serves connections until the
// listener errors (typically because it was closed by the caller, e.g.
// on shutdown).
func (s *Server) ListenAndServe() error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	s.log.WithField("addr", addr).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	connID, err := uuid.NewV4()
	if err != nil {
		connID = uuid.Nil
	}
	log := s.log.WithFields(logrus.Fields{"conn": connID.String(), "remote": conn.RemoteAddr().String()})
	log.Info("connection accepted")
	defer func() {
		conn.Close()
		log.Info("connection closed")
	}()

	reader := bufio.NewReader(conn)
	for {
		payload, err := reader.ReadString(frameDelimiter)
		if err != nil {
			return
		}
		text := payload[:len(payload)-1] // drop the trailing delimiter

		envelope := s.execute(log, text)
		out, err := json.Marshal(envelope)
		if err != nil {
			log.WithError(err).Error("failed to marshal response envelope")
			return
		}
		out = append(out, frameDelimiter)
		if _, err := conn.Write(out); err != nil {
			log.WithError(err).Warn("failed to write response")
			return
		}
	}
}

func (s *Server) execute(log logrus.FieldLogger, text string) envelope {
	s.mu.Lock()
	result, err := s.engine.Execute(text)
	s.mu.Unlock()

	if err != nil {
		kind := errkind.BucketName(err)
		if kind == "" {
			kind = "unknown_command"
		}
		log.WithError(err).Warn("statement failed")
		return envelope{Status: "error", ErrorType: kind}
	}
	env := envelope{Status: "ok"}
	if result != nil {
		env.Rows = encodeRows(result.Rows)
		if result.HasNames {
			env.ColumnNames = result.ColumnNames
		}
	}
	return env
}

