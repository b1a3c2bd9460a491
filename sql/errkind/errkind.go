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

// Package errkind declares the sentinel error kinds this module raises,
// following the *errors.Kind idiom the teacher uses in auth/auth.go and
// auth/native.go (one errors.NewKind per distinct failure condition).
//
// The wire layer only needs one of four coarse buckets (see spec.md §7):
// parsing_error, validation_error, division_by_zero_error, unknown_command.
// Each constructor below builds an error of the fine-grained leaf kind
// whose cause is an error of its bucket kind, so errors.Kind.Is on the
// returned value matches the leaf kind (useful in logs), and BucketName
// recovers the coarse bucket (used by internal/server to fill the JSON
// "error_type" field) by walking the Cause() chain.
package errkind

import "gopkg.in/src-d/go-errors.v1"

// Buckets. These map 1:1 to spec.md §7's error_type taxonomy.
var (
	BucketParsing           = errors.NewKind("parsing_error")
	BucketValidation        = errors.NewKind("validation_error")
	BucketDivisionByZero    = errors.NewKind("division_by_zero_error")
	BucketUnknownCommand    = errors.NewKind("unknown_command")
)

// BucketName returns the spec.md §7 error_type string for err, or "" if
// neither err nor any error in its Cause() chain matches a known bucket.
func BucketName(err error) string {
	for err != nil {
		switch {
		case BucketParsing.Is(err):
			return "parsing_error"
		case BucketValidation.Is(err):
			return "validation_error"
		case BucketDivisionByZero.Is(err):
			return "division_by_zero_error"
		case BucketUnknownCommand.Is(err):
			return "unknown_command"
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return ""
		}
		err = c.Cause()
	}
	return ""
}

// Leaf kinds raised by sql/lexer and sql/parser.
var (
	ErrUnexpectedChar     = errors.NewKind("unexpected character %q")
	ErrUnexpectedToken    = errors.NewKind("unexpected token %q")
	ErrUnmatchedParen     = errors.NewKind("unmatched parenthesis")
	ErrTrailingContent    = errors.NewKind("trailing content after statement: %q")
	ErrMissingOnClause    = errors.NewKind("JOIN requires an ON clause")
	ErrExpectedKeyword    = errors.NewKind("expected keyword %s, got %q")
	ErrUnexpectedEOF      = errors.NewKind("unexpected end of input")
	ErrMalformedStatement = errors.NewKind("malformed statement: %s")
)

// Parsing builds a leaf parsing kind error caused by the parsing_error bucket.
func Parsing(leaf *errors.Kind, args ...interface{}) error {
	return leaf.Wrap(BucketParsing.New(), args...)
}

// Leaf kinds raised by sql/analyzer and memory.
var (
	ErrUnknownTable         = errors.NewKind("unknown table %q")
	ErrTableAlreadyExists   = errors.NewKind("table %q already exists")
	ErrDuplicateColumn      = errors.NewKind("duplicate column %q")
	ErrReservedIdentifier   = errors.NewKind("%q is a reserved identifier")
	ErrUnknownColumn        = errors.NewKind("unknown column %q")
	ErrAmbiguousColumn      = errors.NewKind("ambiguous column reference %q")
	ErrDuplicateAlias       = errors.NewKind("duplicate alias %q")
	ErrUnknownAlias         = errors.NewKind("unknown table alias %q")
	ErrTypeMismatch         = errors.NewKind("type mismatch: %s")
	ErrTooManyValues        = errors.NewKind("INSERT has more values than columns")
	ErrAggregateNotAllowed  = errors.NewKind("aggregate function not allowed in %s")
	ErrNestedAggregate      = errors.NewKind("aggregate functions cannot be nested")
	ErrUnknownFunction      = errors.NewKind("unknown function %q")
	ErrWrongArgumentCount   = errors.NewKind("wrong number of arguments to %s")
	ErrGroupByViolation     = errors.NewKind("column %q must appear in the GROUP BY clause or be used in an aggregate function")
	ErrImplicitGroupLiteral = errors.NewKind("non-aggregate projection %q must be a literal when the query has no GROUP BY")
	ErrOrderByAliasNested   = errors.NewKind("alias %q cannot be used inside a larger ORDER BY expression")
	ErrLimitOffsetColumn    = errors.NewKind("LIMIT/OFFSET cannot reference columns or aggregates")
	ErrLimitOffsetType      = errors.NewKind("LIMIT/OFFSET must evaluate to INTEGER or NULL")
	ErrWhereNotBoolean      = errors.NewKind("WHERE clause must evaluate to BOOLEAN")
	ErrOnNotBoolean         = errors.NewKind("JOIN ON clause must evaluate to BOOLEAN")
	ErrStarWithoutFrom      = errors.NewKind("SELECT * requires a FROM clause")
)

// Validation builds a leaf validation kind error caused by the
// validation_error bucket.
func Validation(leaf *errors.Kind, args ...interface{}) error {
	return leaf.Wrap(BucketValidation.New(), args...)
}

// Leaf kinds raised by the scalar/aggregate evaluators.
var (
	ErrDivisionByZero = errors.NewKind("division by zero")
	ErrModuloByZero   = errors.NewKind("modulo by zero")
)

// DivByZero builds a leaf division-by-zero kind error caused by its bucket.
func DivByZero(leaf *errors.Kind, args ...interface{}) error {
	return leaf.Wrap(BucketDivisionByZero.New(), args...)
}

// ErrUnknownStatementKind is the leaf kind of the dispatch-fallthrough
// condition; UnknownCommand gives it the unknown_command bucket as cause.
var ErrUnknownStatementKind = errors.NewKind("unknown statement kind")

// UnknownCommand builds the defensive dispatch-fallthrough error.
func UnknownCommand() error {
	return ErrUnknownStatementKind.Wrap(BucketUnknownCommand.New())
}
