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
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	// database/sql drivers: "pgx", "postgres" and "sqlite".
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB is a sqlx database whose write paths are guarded.
type DB struct {
	x     *sqlx.DB
	guard *Guard
}

// Open opens a database with one of the registered drivers ("pgx",
// "postgres", "sqlite") and checks the connection.
func Open(ctx context.Context, driver, dsn string, guard *Guard) (*DB, error) {
	x, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storex: open %s: %w", driver, err)
	}
	if err := x.PingContext(ctx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("storex: ping %s: %w", driver, err)
	}
	return &DB{x: x, guard: guard.withDriver(driver)}, nil
}

// Wrap adopts an open *sql.DB.
func Wrap(db *sql.DB, driver string, guard *Guard) *DB {
	return &DB{x: sqlx.NewDb(db, driver), guard: guard.withDriver(driver)}
}

// X returns the underlying sqlx handle.
func (d *DB) X() *sqlx.DB { return d.x }

// DriverName returns the database/sql driver name.
func (d *DB) DriverName() string { return d.x.DriverName() }

// Close closes the database.
func (d *DB) Close() error { return d.x.Close() }

// Rebind rewrites "?" placeholders for the driver.
func (d *DB) Rebind(query string) string { return d.x.Rebind(query) }

// Tx runs fn in a transaction named name. The transaction is committed when
// fn returns nil and rolled back otherwise. Failures, including a failed
// commit, are wrapped in *SaveError and routed through the guard.
func (d *DB) Tx(ctx context.Context, name string, fn func(tx *sqlx.Tx) error) error {
	return d.guard.Save(ctx, name, func(ctx context.Context) error {
		tx, err := d.x.BeginTxx(ctx, nil)
		if err != nil {
			return &SaveError{Op: name, Err: err}
		}
		if err := fn(tx); err != nil {
			if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
				err = errors.Join(err, rerr)
			}
			return &SaveError{Op: name, Err: err}
		}
		if err := tx.Commit(); err != nil {
			return &SaveError{Op: name, Err: err}
		}
		return nil
	})
}

// Exec runs a guarded statement.
func (d *DB) Exec(ctx context.Context, name, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := d.guard.Save(ctx, name, func(ctx context.Context) error {
		var err error
		res, err = d.x.ExecContext(ctx, d.x.Rebind(query), args...)
		if err != nil {
			return &SaveError{Op: name, Err: err}
		}
		return nil
	})
	return res, err
}

// NamedExec runs a guarded statement with named parameters.
func (d *DB) NamedExec(ctx context.Context, name, query string, arg any) (sql.Result, error) {
	var res sql.Result
	err := d.guard.Save(ctx, name, func(ctx context.Context) error {
		var err error
		res, err = d.x.NamedExecContext(ctx, query, arg)
		if err != nil {
			return &SaveError{Op: name, Err: err}
		}
		return nil
	})
	return res, err
}

// Get loads one row into dest. Reads are not guarded; sql.ErrNoRows is
// returned as is.
func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	return d.x.GetContext(ctx, dest, d.x.Rebind(query), args...)
}

// Select loads rows into dest.
func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	return d.x.SelectContext(ctx, dest, d.x.Rebind(query), args...)
}
