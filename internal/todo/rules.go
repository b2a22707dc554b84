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
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/code"
	"dirpx.dev/dcatch/fault"
	"dirpx.dev/dcatch/httpx"
	"dirpx.dev/dcatch/notify"
	"dirpx.dev/dcatch/status"
	"dirpx.dev/dcatch/storex"
)

const (
	msgDuplicateTitle = "There is already a todo list item with the same title."
	msgDuplicateName  = "There is already a list with the same name."
	msgReferenced     = "A referenced entity could not be found."
)

// StoreRules turns save failures into domain errors.
func StoreRules(opts ...dcatch.Option) (*dcatch.RuleSet[storex.Op], error) {
	return dcatch.Configure(func(o *dcatch.Options[storex.Op]) {
		o.AddHandler(func() dcatch.Rule[storex.Op] {
			return dcatch.CatchWhen(func(_ context.Context, _ storex.Op, e *storex.SaveError) bool {
				return storex.Classify(e.Err).Kind != storex.NoViolation
			}).Named("unwrap-driver").UnwrapCause()
		})
		o.AddHandler(func() dcatch.Rule[storex.Op] {
			return dcatch.CatchWhen(func(_ context.Context, _ storex.Op, e *storex.SaveError) bool {
				return errors.Is(e, context.DeadlineExceeded)
			}).Named("save-timeout").Replace(func(_ context.Context, op storex.Op, e *storex.SaveError) error {
				return fault.E(code.Timeout, "The database did not answer in time.").
					WithDetail("op", op.Name).WithCause(e)
			})
		})
		o.AddHandler(func() dcatch.Rule[storex.Op] {
			return dcatch.CatchWhen(func(_ context.Context, _ storex.Op, err error) bool {
				return storex.IsForeignKeyViolation(err)
			}).Named("referenced").Replace(func(_ context.Context, _ storex.Op, err error) error {
				return &ReferencedNotFoundError{Message: msgReferenced, Cause: err}
			})
		})
		o.AddHandler(func() dcatch.Rule[storex.Op] {
			return dcatch.CatchWhen(uniqueOn("title")).Named("unique-title").
				Replace(func(_ context.Context, _ storex.Op, err error) error {
					return &UniqueConstraintError{Message: msgDuplicateTitle, Member: "title", Cause: err}
				})
		})
		o.AddHandler(func() dcatch.Rule[storex.Op] {
			return dcatch.CatchWhen(uniqueOn("name")).Named("unique-name").
				Replace(func(_ context.Context, _ storex.Op, err error) error {
					return &UniqueConstraintError{Message: msgDuplicateName, Member: "name", Cause: err}
				})
		})
	}, append([]dcatch.Option{dcatch.WithName("todo-store")}, opts...)...)
}

// uniqueOn matches unique violations whose constraint names column.
func uniqueOn(column string) func(context.Context, storex.Op, error) bool {
	return func(_ context.Context, _ storex.Op, err error) bool {
		return storex.IsUniqueViolation(err) && strings.Contains(storex.Constraint(err), column)
	}
}

// HTTPOptions tunes HTTPRules.
type HTTPOptions struct {
	// Mapper resolves statuses of coded errors. Nil uses status.Default.
	Mapper *status.Mapper

	// Notify, when set, receives every error reaching the catch-all rule.
	Notify notify.Publisher
}

// HTTPRules turns handler errors into responses.
func HTTPRules(o HTTPOptions, opts ...dcatch.Option) (*dcatch.RuleSet[*httpx.Exchange], error) {
	return dcatch.Configure(func(b *dcatch.Options[*httpx.Exchange]) {
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, fault.FieldErrorer]().
				Named("validation").
				Then(httpx.ReplyWithValidationProblemDetails())
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, *UniqueConstraintError]().
				Named("unique").
				Terminate(httpx.ReplyWithValidationProblemDetailsFunc(func(e *UniqueConstraintError) map[string][]string {
					return map[string][]string{e.Member: {e.Message}}
				}))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, *ReferencedNotFoundError]().
				Named("referenced").
				Then(httpx.ReplyWithProblemDetails(http.StatusBadRequest))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, *NotFoundError]().
				Named("not-found").
				Then(httpx.ReplyWithStatusCode(http.StatusNotFound))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchWhen(func(_ context.Context, _ *httpx.Exchange, err error) bool {
				return isTimeout(err)
			}).Named("timeout").
				Log(slog.LevelWarn).
				Then(httpx.ReplyWithStatusCode(http.StatusGatewayTimeout))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, *net.OpError]().
				Named("network").
				Log(slog.LevelWarn).
				Then(httpx.ReplyWithStatusCode(http.StatusBadGateway))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchIs[*httpx.Exchange](ErrNotImplemented).
				Named("not-implemented").
				Log(slog.LevelWarn).
				Then(httpx.ReplyWithStatusCode(http.StatusNotImplemented))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			return dcatch.CatchAs[*httpx.Exchange, *fault.Error]().
				Named("coded").
				Then(httpx.ReplyWithMappedProblemDetails(o.Mapper))
		})
		b.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
			rb := dcatch.Catch[*httpx.Exchange, error]().Named("internal").Log(slog.LevelError)
			if o.Notify != nil {
				rb = rb.Activity(notify.Activity[*httpx.Exchange](o.Notify, describe))
			}
			return rb.Then(httpx.ReplyWithStatusCode(http.StatusInternalServerError))
		})
	}, append([]dcatch.Option{dcatch.WithName("todo-http")}, opts...)...)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var coded fault.Coded
	return errors.As(err, &coded) && coded.ErrorCode() == code.Timeout
}

func describe(_ context.Context, x *httpx.Exchange, err error) notify.Event {
	return notify.Event{
		Type:    "http_internal_error",
		Message: err.Error(),
		Op:      x.Request.Method + " " + x.Request.URL.Path,
		TraceID: x.TraceID,
	}
}
