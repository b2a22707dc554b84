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

package todo

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"dirpx.dev/dcatch/storex"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the schema for the driver of db.
func Migrate(ctx context.Context, db *storex.DB) error {
	dir := "migrations/sqlite"
	switch db.DriverName() {
	case "pgx", "postgres":
		dir = "migrations/postgres"
	}
	return storex.Migrate(ctx, db.X().DB, db.DriverName(), migrations, dir)
}

// Store persists todos and lists.
type Store struct {
	db  *storex.DB
	now func() time.Time
}

// NewStore returns a Store over db.
func NewStore(db *storex.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

const todoColumns = "id, list_id, title, text, created_at, updated_at"

// All returns every todo ordered by id.
func (s *Store) All(ctx context.Context) ([]Todo, error) {
	todos := []Todo{}
	if err := s.db.Select(ctx, &todos, "SELECT "+todoColumns+" FROM todos ORDER BY id"); err != nil {
		return nil, fmt.Errorf("todo: list: %w", err)
	}
	return todos, nil
}

// Get returns the todo with the given id or a *NotFoundError.
func (s *Store) Get(ctx context.Context, id int64) (*Todo, error) {
	var t Todo
	err := s.db.Get(ctx, &t, "SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "Todo", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("todo: get %d: %w", id, err)
	}
	return &t, nil
}

// Create validates and inserts a todo.
func (s *Store) Create(ctx context.Context, in Input) (*Todo, error) {
	t, err := NewTodo(in, s.now())
	if err != nil {
		return nil, err
	}
	err = s.db.Tx(ctx, "todo.create", func(tx *sqlx.Tx) error {
		q := tx.Rebind("INSERT INTO todos (list_id, title, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id")
		return tx.QueryRowxContext(ctx, q, t.ListID, t.Title, t.Text, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update validates in and applies it to the todo with the given id.
func (s *Store) Update(ctx context.Context, id int64, in Input) (*Todo, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(in, s.now()); err != nil {
		return nil, err
	}
	res, err := s.db.Exec(ctx, "todo.update",
		"UPDATE todos SET list_id = ?, title = ?, text = ?, updated_at = ? WHERE id = ?",
		t.ListID, t.Title, t.Text, t.UpdatedAt, t.ID)
	if err != nil {
		return nil, err
	}
	if err := affected(res, "Todo", id); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the todo with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, "todo.delete", "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, "Todo", id)
}

// CreateList inserts a list.
func (s *Store) CreateList(ctx context.Context, in ListInput) (*List, error) {
	l := &List{Name: in.Name}
	err := s.db.Tx(ctx, "list.create", func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, tx.Rebind("INSERT INTO lists (name) VALUES (?) RETURNING id"), l.Name).Scan(&l.ID)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func affected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("todo: rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
