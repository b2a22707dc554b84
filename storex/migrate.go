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
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// Dialect returns the goose dialect for a database/sql driver name.
func Dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return goose.DialectPostgres, nil
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("storex: no migration dialect for driver %q", driver)
	}
}

// Migrate applies every pending migration found in dir of fsys.
func Migrate(ctx context.Context, db *sql.DB, driver string, fsys fs.FS, dir string) error {
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("storex: migrations dir %q: %w", dir, err)
	}
	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("storex: migrations: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("storex: migrate up: %w", err)
	}
	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			slog.String("component", "storex"),
			slog.Int64("version", r.Source.Version),
			slog.Duration("took", r.Duration))
	}
	return nil
}
