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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"dirpx.dev/dcatch"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const schema = `
CREATE TABLE lists (id INTEGER PRIMARY KEY, title TEXT NOT NULL UNIQUE);
CREATE TABLE items (id INTEGER PRIMARY KEY, list_id INTEGER NOT NULL REFERENCES lists(id), body TEXT NOT NULL);
`

type duplicateTitle struct{ constraint string }

func (e *duplicateTitle) Error() string { return "duplicate title: " + e.constraint }

type missingList struct{}

func (missingList) Error() string { return "referenced list does not exist" }

func storeRules(t *testing.T) *dcatch.RuleSet[Op] {
	t.Helper()
	rs, err := dcatch.Configure(func(o *dcatch.Options[Op]) {
		o.AddHandler(func() dcatch.Rule[Op] {
			return dcatch.CatchWhen[Op, *SaveError](func(_ context.Context, _ Op, e *SaveError) bool {
				return IsUniqueViolation(e)
			}).Replace(func(_ context.Context, _ Op, e *SaveError) error {
				return &duplicateTitle{constraint: Constraint(e)}
			})
		})
		o.AddHandler(func() dcatch.Rule[Op] {
			return dcatch.CatchWhen[Op, *SaveError](func(_ context.Context, _ Op, e *SaveError) bool {
				return IsForeignKeyViolation(e)
			}).Replace(func(context.Context, Op, *SaveError) error { return missingList{} })
		})
	}, dcatch.WithName("store"))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return rs
}

// testDSN returns a fresh sqlite file with foreign keys enforced on every
// connection.
func testDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
}

func openTestDB(t *testing.T, guard *Guard) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", testDSN(t), guard)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.X().ExecContext(ctx, schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func TestDB_UniqueViolationIsReplaced(t *testing.T) {
	db := openTestDB(t, NewGuard(storeRules(t), quietLogger))
	ctx := context.Background()

	if _, err := db.Exec(ctx, "lists.create", "INSERT INTO lists (title) VALUES (?)", "groceries"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.Exec(ctx, "lists.create", "INSERT INTO lists (title) VALUES (?)", "groceries")

	var dup *duplicateTitle
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v (%T); want *duplicateTitle", err, err)
	}
	if !strings.Contains(dup.constraint, "title") {
		t.Fatalf("constraint = %q; want it to name the title column", dup.constraint)
	}
}

func TestDB_ForeignKeyViolationIsReplaced(t *testing.T) {
	db := openTestDB(t, NewGuard(storeRules(t), quietLogger))
	_, err := db.NamedExec(context.Background(), "items.create",
		"INSERT INTO items (list_id, body) VALUES (:list_id, :body)",
		map[string]any{"list_id": 42, "body": "milk"})
	if !errors.As(err, new(missingList)) {
		t.Fatalf("err = %v (%T); want missingList", err, err)
	}
}

func TestDB_UnguardedKeepsSaveError(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	_, _ = db.Exec(ctx, "lists.create", "INSERT INTO lists (title) VALUES (?)", "a")
	_, err := db.Exec(ctx, "lists.create", "INSERT INTO lists (title) VALUES (?)", "a")

	var se *SaveError
	if !errors.As(err, &se) || se.Op != "lists.create" {
		t.Fatalf("err = %v; want *SaveError", err)
	}
	if !IsUniqueViolation(err) || IsForeignKeyViolation(err) {
		t.Fatalf("classification wrong for %v", err)
	}
}

func TestDB_TxRollsBack(t *testing.T) {
	db := openTestDB(t, NewGuard(storeRules(t), quietLogger))
	ctx := context.Background()
	boom := errors.New("abort")

	err := db.Tx(ctx, "lists.bulk", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO lists (title) VALUES (?)", "kept?"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want abort", err)
	}

	var n int
	if err := db.Get(ctx, &n, "SELECT COUNT(*) FROM lists"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d; transaction must be rolled back", n)
	}
}

func TestDB_TxCommitsAndSelect(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	err := db.Tx(ctx, "lists.bulk", func(tx *sqlx.Tx) error {
		for _, title := range []string{"a", "b"} {
			if _, err := tx.ExecContext(ctx, "INSERT INTO lists (title) VALUES (?)", title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	var titles []string
	if err := db.Select(ctx, &titles, "SELECT title FROM lists ORDER BY title"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if strings.Join(titles, ",") != "a,b" {
		t.Fatalf("titles = %v", titles)
	}
}

func TestGuard_ReturnsFinalErrorEvenWhenHandled(t *testing.T) {
	replaced := errors.New("replaced")
	rs := dcatch.MustConfigure(func(o *dcatch.Options[Op]) {
		o.Add(dcatch.Catch[Op, *SaveError]().Replace(func(context.Context, Op, *SaveError) error { return replaced }))
		o.Add(dcatch.CatchIs[Op](replaced).Terminate(func(context.Context, Op, error) (any, error) { return "ignored", nil }))
	})
	g := NewGuard(rs, quietLogger)

	err := g.Save(context.Background(), "x", func(context.Context) error {
		return &SaveError{Op: "x", Err: errors.New("driver")}
	})
	if err != replaced {
		t.Fatalf("err = %v; want the final replaced error", err)
	}
}

func TestGuard_ActivityErrorSupersedes(t *testing.T) {
	rs := dcatch.MustConfigure(func(o *dcatch.Options[Op]) {
		o.Add(dcatch.Catch[Op, error]().UnwrapCause())
	})
	err := NewGuard(rs, quietLogger).Route(context.Background(), "x", errors.New("leaf"))
	if !errors.Is(err, dcatch.ErrNoCause) {
		t.Fatalf("err = %v; want ErrNoCause", err)
	}
}

func TestGuard_NilPassesThrough(t *testing.T) {
	in := errors.New("x")
	var g *Guard
	if got := g.Route(context.Background(), "op", in); got != in {
		t.Fatalf("got %v", got)
	}
	if got := g.Save(context.Background(), "op", func(context.Context) error { return nil }); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestGuard_SaveAsync(t *testing.T) {
	rs := dcatch.MustConfigure(func(o *dcatch.Options[Op]) {
		o.Add(dcatch.Catch[Op, *SaveError]().UnwrapCause())
	})
	g := NewGuard(rs, quietLogger)
	leaf := errors.New("leaf")

	ch := g.SaveAsync(context.Background(), "async", func(context.Context) error {
		return &SaveError{Op: "async", Err: leaf}
	})
	if err := <-ch; err != leaf {
		t.Fatalf("err = %v; want leaf", err)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel must be closed after one value")
	}

	if err := <-g.SaveAsync(context.Background(), "ok", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestGuard_OpCarriesDriver(t *testing.T) {
	var seen Op
	rs := dcatch.MustConfigure(func(o *dcatch.Options[Op]) {
		o.Add(dcatch.Catch[Op, error]().Intercept(func(_ context.Context, op Op, _ error) error {
			seen = op
			return nil
		}).Rethrow())
	})
	db := openTestDB(t, NewGuard(rs, quietLogger))
	_, _ = db.Exec(context.Background(), "broken", "INSERT INTO nowhere VALUES (1)")
	if seen.Name != "broken" || seen.Driver != "sqlite" {
		t.Fatalf("op = %+v", seen)
	}
}

func TestClassify_Postgres(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		constraint string
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505", ConstraintName: "lists_title_key"}, UniqueViolation, "lists_title_key"},
		{"pgx fk", &pgconn.PgError{Code: "23503", ConstraintName: "items_list_id_fkey"}, ForeignKeyViolation, "items_list_id_fkey"},
		{"pgx other", &pgconn.PgError{Code: "40001"}, NoViolation, ""},
		{"pq unique", &pq.Error{Code: "23505", Constraint: "lists_title_key"}, UniqueViolation, "lists_title_key"},
		{"pq fk wrapped", fmt.Errorf("save: %w", &pq.Error{Code: "23503", Constraint: "fk"}), ForeignKeyViolation, "fk"},
		{"plain", errors.New("x"), NoViolation, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.err)
			if v.Kind != tt.kind || v.Constraint != tt.constraint {
				t.Fatalf("Classify = %+v; want kind=%d constraint=%q", v, tt.kind, tt.constraint)
			}
			if tt.kind == NoViolation && Constraint(tt.err) != "" {
				t.Fatal("Constraint must be empty for non-violations")
			}
		})
	}
}

func TestSqliteColumns(t *testing.T) {
	tests := []struct{ in, want string }{
		{"constraint failed: UNIQUE constraint failed: lists.title (2067)", "lists.title"},
		{"UNIQUE constraint failed: lists.title", "lists.title"},
		{"constraint failed: FOREIGN KEY constraint failed (787)", ""},
		{"no such table: nowhere", ""},
	}
	for _, tt := range tests {
		if got := sqliteColumns(tt.in); got != tt.want {
			t.Fatalf("sqliteColumns(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", testDSN(t), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"migrations/00001_lists.sql": {Data: []byte(`-- +goose Up
CREATE TABLE lists (id INTEGER PRIMARY KEY, title TEXT NOT NULL UNIQUE);

-- +goose Down
DROP TABLE lists;
`)},
	}
	if err := Migrate(ctx, db.X().DB, "sqlite", fsys, "migrations"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Exec(ctx, "lists.create", "INSERT INTO lists (title) VALUES (?)", "a"); err != nil {
		t.Fatalf("insert after migrate: %v", err)
	}
	if err := Migrate(ctx, db.X().DB, "sqlite", fsys, "migrations"); err != nil {
		t.Fatalf("second Migrate must be a no-op: %v", err)
	}
	if _, err := Dialect("mysql"); err == nil {
		t.Fatal("unknown driver must fail")
	}
}
