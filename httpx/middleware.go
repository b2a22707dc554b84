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

package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/problem"
)

// DefaultTraceHeader is the request and response header carrying the trace id.
const DefaultTraceHeader = "X-Request-ID"

// FallbackFunc receives errors no rule handled and activity failures.
type FallbackFunc func(x *Exchange, err error)

// Option configures Middleware and Handler.
type Option func(*settings)

type settings struct {
	fallback    FallbackFunc
	traceHeader string
	logger      *slog.Logger
}

// WithFallback replaces the default fallback.
func WithFallback(fn FallbackFunc) Option {
	return func(s *settings) { s.fallback = fn }
}

// WithTraceHeader sets the header read and echoed for the trace id.
func WithTraceHeader(name string) Option {
	return func(s *settings) { s.traceHeader = name }
}

// WithLogger sets the base logger. Each request gets a child logger with
// trace_id, method and path attributes.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) *settings {
	s := &settings{traceHeader: DefaultTraceHeader}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With(slog.String("component", "httpx"))
	}
	if s.fallback == nil {
		s.fallback = defaultFallback
	}
	return s
}

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler adapts fn to http.Handler, routing its errors (and error panics)
// through rs.
func Handler(rs *dcatch.RuleSet[*Exchange], fn HandlerFunc, opts ...Option) http.Handler {
	s := newSettings(opts)
	return s.serve(rs, fn)
}

// Middleware returns a middleware routing error panics of next through rs.
// Panics with non-error values, and http.ErrAbortHandler, are re-raised.
func Middleware(rs *dcatch.RuleSet[*Exchange], opts ...Option) func(http.Handler) http.Handler {
	s := newSettings(opts)
	return func(next http.Handler) http.Handler {
		return s.serve(rs, func(w http.ResponseWriter, r *http.Request) error {
			next.ServeHTTP(w, r)
			return nil
		})
	}
}

func (s *settings) serve(rs *dcatch.RuleSet[*Exchange], fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := TraceIDFrom(r.Context())
		if id == "" {
			id = traceID(r, s.traceHeader)
		}
		w.Header().Set(s.traceHeader, id)

		logger := s.logger.With(
			slog.String("trace_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		ctx := context.WithValue(r.Context(), traceKey{}, id)
		ctx = dcatch.ContextWithLogger(ctx, logger)
		r = r.WithContext(ctx)
		x := newExchange(w, r, id)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok || errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			s.route(rs, x, fmt.Errorf("panic: %w", err))
		}()

		if err := fn(x.Writer, r); err != nil {
			s.route(rs, x, err)
		}
	})
}

func (s *settings) route(rs *dcatch.RuleSet[*Exchange], x *Exchange, err error) {
	ctx := x.Request.Context()
	res, aerr := rs.Run(ctx, x, err)
	switch {
	case aerr != nil:
		dcatch.LoggerFrom(ctx).ErrorContext(ctx, "error pipeline failed",
			slog.Any("error", aerr), slog.Any("routed_error", err))
		s.fallback(x, aerr)
	case !res.Handled:
		s.fallback(x, res.Err)
	}
}

// defaultFallback logs err and writes a generic 500 problem if the response
// has not been started.
func defaultFallback(x *Exchange, err error) {
	ctx := x.Request.Context()
	dcatch.LoggerFrom(ctx).ErrorContext(ctx, "unhandled error",
		slog.String("error_type", fmt.Sprintf("%T", err)), slog.Any("error", err))
	if x.Written() {
		return
	}
	d := problem.New(http.StatusInternalServerError, "An unexpected error occurred.")
	_, _ = writeProblem(x, http.StatusInternalServerError, d)
}
