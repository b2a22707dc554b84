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
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/code"
	"dirpx.dev/dcatch/fault"
	"dirpx.dev/dcatch/problem"
	"github.com/google/go-cmp/cmp"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

type authError struct{}

func (authError) Error() string { return "unauthenticated" }

func ruleSet(t *testing.T, rules ...dcatch.Rule[*Exchange]) *dcatch.RuleSet[*Exchange] {
	t.Helper()
	rs, err := dcatch.New(rules, dcatch.WithName("http"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rs
}

func failWith(err error) HandlerFunc {
	return func(http.ResponseWriter, *http.Request) error { return err }
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, problem.Details) {
	t.Helper()
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/todos/1", nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var d problem.Details
	if rec.Header().Get("Content-Type") == problem.ContentType {
		if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
			t.Fatalf("decode problem: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, d
}

func TestProblemDetails_TraceIDInjection(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, *fault.Error]().Then(ReplyWithProblemDetails(http.StatusNotFound)))
	h := Handler(rs, failWith(fault.E(code.NotFound, "todo 1 not found")), quiet)

	req := httptest.NewRequest(http.MethodGet, "/todos/1", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec, d := serve(t, h, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") != "req-42" {
		t.Fatalf("trace header not echoed: %v", rec.Header())
	}
	want := problem.Details{
		Type:       problem.ReferenceURI(404),
		Title:      "Not Found",
		Status:     404,
		Detail:     "todo 1 not found",
		Extensions: map[string]any{"traceId": "req-42"},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("problem mismatch (-want +got):\n%s", diff)
	}
}

func TestProblemDetails_ProviderTraceIDWins(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, authError]().Terminate(
		ReplyWithProblemDetailsFunc(http.StatusUnauthorized, func(_ *Exchange, _ authError) *problem.Details {
			return (&problem.Details{Title: "who are you"}).Set(problem.TraceIDKey, "provider")
		})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec, d := serve(t, Handler(rs, failWith(authError{}), quiet), req)

	if rec.Code != 401 || d.Status != 401 {
		t.Fatalf("status = %d/%d; want 401 with Status filled", rec.Code, d.Status)
	}
	if d.TraceID() != "provider" {
		t.Fatalf("traceId = %q; provider value must be kept", d.TraceID())
	}
}

func TestProblemDetails_ConfiguredStatusIsWritten(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, authError]().Terminate(
		ReplyWithProblemDetailsFunc(http.StatusConflict, func(*Exchange, authError) *problem.Details {
			return &problem.Details{Status: 400}
		})))
	rec, d := serve(t, Handler(rs, failWith(authError{}), quiet), nil)
	if rec.Code != http.StatusConflict || d.Status != 400 {
		t.Fatalf("got HTTP %d / document %d; want 409 / 400", rec.Code, d.Status)
	}
}

func TestValidationProblemDetails(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		title   string
	}{
		{"single", []string{"k1"}, problem.SingleValidationTitle},
		{"multiple", []string{"k1", "k2"}, problem.MultipleValidationTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ruleSet(t, dcatch.Catch[*Exchange, *fault.ValidationError]().Then(ReplyWithValidationProblemDetails()))
			rec, d := serve(t, Handler(rs, failWith(fault.Invalid("is invalid", tt.members...)), quiet), nil)

			if rec.Code != 400 || d.Status != 400 || d.Title != tt.title {
				t.Fatalf("got %d %+v", rec.Code, d)
			}
			want := map[string][]string{}
			for _, m := range tt.members {
				want[m] = []string{"is invalid"}
			}
			if diff := cmp.Diff(want, d.Errors); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			if d.TraceID() == "" {
				t.Fatal("generated trace id must be injected")
			}
		})
	}
}

func TestValidationProblemDetailsFunc(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, authError]().Terminate(
		ReplyWithValidationProblemDetailsFunc(func(authError) map[string][]string {
			return map[string][]string{"token": {"expired"}}
		})))
	rec, d := serve(t, Handler(rs, failWith(authError{}), quiet), nil)
	if rec.Code != 400 || d.Title != problem.SingleValidationTitle || d.Errors["token"][0] != "expired" {
		t.Fatalf("got %d %+v", rec.Code, d)
	}
}

func TestReplyWithValidation_NotValidation(t *testing.T) {
	var got error
	rs := ruleSet(t, dcatch.Catch[*Exchange, error]().Then(ReplyWithValidationProblemDetails()))
	h := Handler(rs, failWith(errors.New("plain")), quiet, WithFallback(func(_ *Exchange, err error) { got = err }))
	serve(t, h, nil)
	if !errors.Is(got, ErrNotValidation) {
		t.Fatalf("fallback got %v; want ErrNotValidation", got)
	}
}

func TestUnhandled_DefaultFallback(t *testing.T) {
	rs := ruleSet(t)
	rec, d := serve(t, Handler(rs, failWith(errors.New("db exploded")), quiet), nil)
	if rec.Code != 500 || d.Status != 500 || d.Type != problem.ReferenceURI(500) {
		t.Fatalf("got %d %+v", rec.Code, d)
	}
	if d.Detail == "db exploded" {
		t.Fatal("fallback must not leak the error message")
	}
}

func TestUnhandled_SameInstanceReachesFallback(t *testing.T) {
	in := errors.New("boom")
	var got error
	rs := ruleSet(t)
	h := Handler(rs, failWith(in), quiet, WithFallback(func(_ *Exchange, err error) { got = err }))
	serve(t, h, nil)
	if got != in {
		t.Fatalf("fallback got %v; want the original instance", got)
	}
}

func TestNilProvider_IsActivityError(t *testing.T) {
	var got error
	rs := ruleSet(t, dcatch.Catch[*Exchange, authError]().Terminate(
		ReplyWithProblemDetailsFunc(400, func(*Exchange, authError) *problem.Details { return nil })))
	h := Handler(rs, failWith(authError{}), quiet, WithFallback(func(_ *Exchange, err error) { got = err }))
	serve(t, h, nil)

	var ae *dcatch.ActivityError
	if !errors.As(got, &ae) || !errors.Is(got, ErrNilProblem) {
		t.Fatalf("fallback got %v; want activity error wrapping ErrNilProblem", got)
	}
}

func TestNilTypedTerminal_IsConfigError(t *testing.T) {
	rules := map[string]dcatch.Rule[*Exchange]{
		"Reply": dcatch.Catch[*Exchange, error]().Terminate(Reply[error](nil)),
		"ReplyWithProblemDetailsFunc": dcatch.Catch[*Exchange, authError]().Terminate(
			ReplyWithProblemDetailsFunc[authError](401, nil)),
		"ReplyWithValidationProblemDetailsFunc": dcatch.Catch[*Exchange, error]().Terminate(
			ReplyWithValidationProblemDetailsFunc[error](nil)),
	}
	for name, r := range rules {
		t.Run(name, func(t *testing.T) {
			rs, err := dcatch.New([]dcatch.Rule[*Exchange]{r})
			var ce *dcatch.ConfigError
			if rs != nil || !errors.As(err, &ce) || !errors.Is(err, dcatch.ErrNilFunc) {
				t.Fatalf("rs=%v err=%v; want ConfigError", rs, err)
			}
		})
	}
}

func TestResponseStarted(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, error]().Then(ReplyWithStatusCode(http.StatusTeapot)))
	h := Handler(rs, func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusAccepted)
		return errors.New("late failure")
	}, quiet)
	rec, _ := serve(t, h, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d; the first write must win", rec.Code)
	}
}

func TestMiddleware_RecoversErrorPanics(t *testing.T) {
	rs := ruleSet(t, dcatch.CatchAs[*Exchange, authError]().Then(ReplyWithStatusCode(http.StatusUnauthorized)))
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(authError{}) })
	rec, _ := serve(t, Middleware(rs, quiet)(next), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}
}

func TestMiddleware_RepanicsNonErrors(t *testing.T) {
	rs := ruleSet(t)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("not an error") })
	defer func() {
		if recover() == nil {
			t.Fatal("non-error panic must propagate")
		}
	}()
	serve(t, Middleware(rs, quiet)(next), nil)
}

func TestMiddleware_PassesThrough(t *testing.T) {
	rs := ruleSet(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TraceIDFrom(r.Context()) == "" {
			t.Error("trace id missing from request context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	rec, _ := serve(t, Middleware(rs, quiet, WithTraceHeader("X-Correlation-ID"))(next), nil)
	if rec.Code != http.StatusNoContent || rec.Header().Get("X-Correlation-ID") == "" {
		t.Fatalf("got %d %v", rec.Code, rec.Header())
	}
}

func TestRedirectAndReply(t *testing.T) {
	rs := ruleSet(t,
		dcatch.Catch[*Exchange, authError]().Terminate(Reply(func(*Exchange, authError) Response {
			return RedirectTo("/login")
		})),
		dcatch.Catch[*Exchange, error]().Then(Redirect("/oops")),
	)

	rec, _ := serve(t, Handler(rs, failWith(authError{}), quiet), nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %v", rec.Code, rec.Header())
	}
	rec, _ = serve(t, Handler(rs, failWith(errors.New("x")), quiet), nil)
	if rec.Header().Get("Location") != "/oops" {
		t.Fatalf("got %v", rec.Header())
	}
}

func TestReplyWithMappedProblemDetails(t *testing.T) {
	rs := ruleSet(t, dcatch.Catch[*Exchange, error]().Then(ReplyWithMappedProblemDetails(nil)))
	tests := []struct {
		err  error
		want int
	}{
		{fault.E(code.Conflict, "version mismatch"), 409},
		{fault.E(code.Timeout, "slow"), 504},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		rec, d := serve(t, Handler(rs, failWith(tt.err), quiet), nil)
		if rec.Code != tt.want || d.Status != tt.want {
			t.Fatalf("%v: got %d/%d; want %d", tt.err, rec.Code, d.Status, tt.want)
		}
	}
}

func TestTraceparentID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", "4bf92f3577b34da6a3ce929d0e0e4736"},
		{"00-4BF92F3577B34DA6A3CE929D0E0E4736-00f067aa0ba902b7-01", "4bf92f3577b34da6a3ce929d0e0e4736"},
		{"00-00000000000000000000000000000000-00f067aa0ba902b7-01", ""},
		{"00-xyz-00f067aa0ba902b7-01", ""},
		{"00-4bf92f3577b34da6a3ce929d0e0e47zz-00f067aa0ba902b7-01", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := traceparentID(tt.in); got != tt.want {
			t.Fatalf("traceparentID(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", tests[0].in)
	if got := traceID(req, DefaultTraceHeader); got != tests[0].want {
		t.Fatalf("traceID = %q", got)
	}
}
