/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package storex

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Extended sqlite result codes.
const (
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// Kind classifies a constraint violation.
type Kind int

const (
	// NoViolation means the error is not a recognized constraint violation.
	NoViolation Kind = iota
	UniqueViolation
	ForeignKeyViolation
)

// Violation describes a constraint violation found in an error chain.
type Violation struct {
	Kind Kind

	// Constraint is the constraint name (postgres) or the failing columns
	// as reported by sqlite, e.g. "todo_lists.title".
	Constraint string

	// Message is the driver message.
	Message string
}

// Classify inspects the chain of err for a driver constraint error.
func Classify(err error) Violation {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return Violation{Kind: pgKind(pgErr.Code), Constraint: pgErr.ConstraintName, Message: pgErr.Message}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return Violation{Kind: pgKind(string(pqErr.Code)), Constraint: pqErr.Constraint, Message: pqErr.Message}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		v := Violation{Message: liteErr.Error(), Constraint: sqliteColumns(liteErr.Error())}
		switch liteErr.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			v.Kind = UniqueViolation
		case sqliteConstraintForeignKey:
			v.Kind = ForeignKeyViolation
		}
		return v
	}
	return Violation{}
}

func pgKind(code string) Kind {
	switch code {
	case pgUniqueViolation:
		return UniqueViolation
	case pgForeignKeyViolation:
		return ForeignKeyViolation
	default:
		return NoViolation
	}
}

// sqliteColumns extracts "t.col" from messages such as
// "constraint failed: UNIQUE constraint failed: t.col (2067)".
func sqliteColumns(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.LastIndex(rest, " ("); j >= 0 {
		rest = rest[:j]
	}
	if rest == "FOREIGN KEY constraint failed" {
		return ""
	}
	return strings.TrimSpace(rest)
}

// IsUniqueViolation reports whether err is a unique or primary key
// violation.
func IsUniqueViolation(err error) bool {
	return Classify(err).Kind == UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return Classify(err).Kind == ForeignKeyViolation
}

// Constraint returns the violated constraint as reported by the driver, or
// "" when err is not a constraint violation.
func Constraint(err error) string {
	v := Classify(err)
	if v.Kind == NoViolation {
		return ""
	}
	return v.Constraint
}
