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
	"fmt"
	"log/slog"

	"dirpx.dev/dcatch"
)

// Op is the host context handed to persistence rules.
type Op struct {
	// Name identifies the save operation, e.g. "todo.create".
	Name string

	// Driver is the database/sql driver name, if known.
	Driver string
}

// SaveError is a failed save operation. Err is the driver or callback
// error.
type SaveError struct {
	Op  string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("storex: save %s: %v", e.Op, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Guard routes save failures through a rule set. The zero Guard and a nil
// *Guard pass errors through unchanged.
type Guard struct {
	rules  *dcatch.RuleSet[Op]
	driver string
	logger *slog.Logger
}

// NewGuard returns a Guard over rs. A nil logger uses slog.Default.
func NewGuard(rs *dcatch.RuleSet[Op], logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default().With(slog.String("component", "storex"))
	}
	return &Guard{rules: rs, logger: logger}
}

// withDriver returns a copy of g labelling operations with driver.
func (g *Guard) withDriver(driver string) *Guard {
	if g == nil {
		return &Guard{driver: driver}
	}
	cp := *g
	cp.driver = driver
	return &cp
}

// Save runs fn and routes its failure.
func (g *Guard) Save(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	return g.Route(ctx, name, err)
}

// SaveAsync runs Save in a new goroutine. The channel receives exactly one
// value, nil on success, and is then closed.
func (g *Guard) SaveAsync(ctx context.Context, name string, fn func(ctx context.Context) error) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- g.Save(ctx, name, fn)
	}()
	return ch
}

// Route passes err through the rule set and returns the error the caller
// must propagate: the activity error if one occurred, otherwise the final
// routed error.
func (g *Guard) Route(ctx context.Context, name string, err error) error {
	if err == nil || g == nil || g.rules == nil {
		return err
	}
	if g.logger != nil {
		ctx = dcatch.ContextWithLogger(ctx, g.logger.With(slog.String("op", name)))
	}
	res, aerr := g.rules.Run(ctx, Op{Name: name, Driver: g.driver}, err)
	if aerr != nil {
		return aerr
	}
	return res.Err
}
