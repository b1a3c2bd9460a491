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

// Command sqlmemdb starts the engine's TCP server. Flag wiring follows
// the CLI struct style used by sqldef's command-line entry points in the
// example pack (a flat options struct parsed by go-flags), layered with
// an optional YAML config file and environment-variable overrides the
// way the teacher's server.Config defaults-then-overrides idiom does.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/technicaldeft/sqlmemdb"
	"github.com/technicaldeft/sqlmemdb/internal/server"
)

// options are the flags accepted on the command line.
type options struct {
	Port      int    `long:"port" description:"TCP port to listen on"`
	LogLevel  string `long:"log-level" description:"logrus level (debug, info, warn, error)"`
	LogFormat string `long:"log-format" description:"logrus formatter (text or json)"`
	Config    string `long:"config" description:"optional YAML config file"`
}

// fileConfig mirrors options for the optional YAML config file. CLI flags
// override any value also set here.
type fileConfig struct {
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if opts.Config != "" {
		if err := applyFileConfig(&opts); err != nil {
			return err
		}
	}
	applyEnvOverrides(&opts)

	if opts.Port == 0 {
		opts.Port = 3003
	}
	if opts.LogLevel == "" {
		opts.LogLevel = "info"
	}
	if opts.LogFormat == "" {
		opts.LogFormat = "text"
	}

	log, err := newLogger(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return err
	}

	engine := sqlmemdb.New(sqlmemdb.Config{Logger: log})
	srv := server.New(server.Config{Port: opts.Port, Logger: log}, engine)
	return srv.ListenAndServe()
}

// applyFileConfig loads opts.Config and fills in any field the CLI left
// at its zero value, so CLI flags always take precedence.
func applyFileConfig(opts *options) error {
	data, err := os.ReadFile(opts.Config)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	if opts.Port == 0 {
		opts.Port = fc.Port
	}
	if opts.LogLevel == "" {
		opts.LogLevel = fc.LogLevel
	}
	if opts.LogFormat == "" {
		opts.LogFormat = fc.LogFormat
	}
	return nil
}

// applyEnvOverrides fills in anything still unset from SQLMEMDB_* env
// vars, coercing string environment values to the typed option fields
// with github.com/spf13/cast the way the teacher's env-aware config
// loaders do.
func applyEnvOverrides(opts *options) {
	if opts.Port == 0 {
		if v, ok := os.LookupEnv("SQLMEMDB_PORT"); ok {
			opts.Port = cast.ToInt(v)
		}
	}
	if opts.LogLevel == "" {
		if v, ok := os.LookupEnv("SQLMEMDB_LOG_LEVEL"); ok {
			opts.LogLevel = v
		}
	}
	if opts.LogFormat == "" {
		if v, ok := os.LookupEnv("SQLMEMDB_LOG_FORMAT"); ok {
			opts.LogFormat = v
		}
	}
}

func newLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{})
	}
	return log, nil
}
