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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/fault"
	"dirpx.dev/dcatch/problem"
	"dirpx.dev/dcatch/status"
)

var (
	// ErrResponseStarted is returned by terminals when the response was
	// already written.
	ErrResponseStarted = errors.New("dcatch: response already started")

	// ErrNilProblem is returned when a problem provider returns nil.
	ErrNilProblem = errors.New("dcatch: a problem details instance must be returned")

	// ErrNotValidation is returned by ReplyWithValidationProblemDetails for
	// errors that do not implement fault.FieldErrorer.
	ErrNotValidation = errors.New("dcatch: error carries no field errors")

	// ErrNilResponse is returned when a Reply function returns nil.
	ErrNilResponse = errors.New("dcatch: a response must be returned")
)

// Response is a terminal HTTP outcome. The value a terminal wrote is
// reported as dcatch.Result.Outcome.
type Response interface {
	WriteResponse(x *Exchange) error
}

// StatusCode is an empty response with the given status.
type StatusCode int

// WriteResponse implements Response.
func (s StatusCode) WriteResponse(x *Exchange) error {
	x.Writer.WriteHeader(int(s))
	return nil
}

// RedirectTo is a 302 redirect to the location.
type RedirectTo string

// WriteResponse implements Response.
func (l RedirectTo) WriteResponse(x *Exchange) error {
	http.Redirect(x.Writer, x.Request, string(l), http.StatusFound)
	return nil
}

// Problem is a problem-details response. Status is the HTTP status sent,
// Details.Status is what the document reports.
type Problem struct {
	Status  int
	Details *problem.Details
}

// WriteResponse implements Response.
func (p Problem) WriteResponse(x *Exchange) error {
	b, err := json.Marshal(p.Details)
	if err != nil {
		return fmt.Errorf("httpx: encode problem: %w", err)
	}
	h := x.Writer.Header()
	h.Set("Content-Type", problem.ContentType)
	h.Set("Cache-Control", "no-store")
	x.Writer.WriteHeader(p.Status)
	_, err = x.Writer.Write(b)
	return err
}

func deliver(x *Exchange, resp Response) (any, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	if x.Written() {
		return nil, ErrResponseStarted
	}
	if err := resp.WriteResponse(x); err != nil {
		return nil, err
	}
	return resp, nil
}

// writeProblem completes d for delivery and writes it with status.
// The provider's value is not modified.
func writeProblem(x *Exchange, status int, d *problem.Details) (any, error) {
	if d == nil {
		return nil, ErrNilProblem
	}
	d = d.Clone()
	if d.Status == 0 {
		d.Status = status
	}
	d.SetTraceID(x.TraceID)
	return deliver(x, Problem{Status: status, Details: d})
}

func terminal(fn func(x *Exchange, err error) (any, error)) dcatch.Activity[*Exchange] {
	return dcatch.Terminate(func(_ context.Context, x *Exchange, err error) (any, error) {
		return fn(x, err)
	})
}

// ReplyWithStatusCode replies with an empty response.
func ReplyWithStatusCode(code int) dcatch.Activity[*Exchange] {
	return terminal(func(x *Exchange, _ error) (any, error) {
		return deliver(x, StatusCode(code))
	})
}

// Redirect replies with a 302 to location.
func Redirect(location string) dcatch.Activity[*Exchange] {
	return terminal(func(x *Exchange, _ error) (any, error) {
		return deliver(x, RedirectTo(location))
	})
}

// ReplyWithProblemDetails replies with problem.New(status, message), where
// message is the client-safe message of the error (fault.MessageOf).
func ReplyWithProblemDetails(status int) dcatch.Activity[*Exchange] {
	return terminal(func(x *Exchange, err error) (any, error) {
		return writeProblem(x, status, problem.New(status, fault.MessageOf(err)))
	})
}

// ReplyWithValidationProblemDetails replies with a validation problem built
// from the fault.FieldErrorer in the error chain.
func ReplyWithValidationProblemDetails() dcatch.Activity[*Exchange] {
	return terminal(func(x *Exchange, err error) (any, error) {
		var fe fault.FieldErrorer
		if !errors.As(err, &fe) {
			return nil, fmt.Errorf("%w: %T", ErrNotValidation, err)
		}
		return writeProblem(x, http.StatusBadRequest, problem.Validation(fe.FieldErrors()))
	})
}

// ReplyWithMappedProblemDetails replies with a problem whose status is
// resolved from the error code through m. A nil m uses status.Default.
func ReplyWithMappedProblemDetails(m *status.Mapper) dcatch.Activity[*Exchange] {
	if m == nil {
		m = status.Default
	}
	return terminal(func(x *Exchange, err error) (any, error) {
		st := m.For(err).HTTP
		return writeProblem(x, st, problem.New(st, fault.MessageOf(err)))
	})
}

// Reply returns a typed terminal delivering the response computed by fn.
//
//	dcatch.Catch[*httpx.Exchange, *AuthError]().
//	    Terminate(httpx.Reply(func(x *httpx.Exchange, err *AuthError) httpx.Response {
//	        return httpx.RedirectTo("/login")
//	    }))
//
// A nil fn yields a nil TerminateFunc, which Builder.Terminate reports as a
// configuration error.
func Reply[T error](fn func(x *Exchange, err T) Response) dcatch.TerminateFunc[*Exchange, T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, x *Exchange, err T) (any, error) {
		return deliver(x, fn(x, err))
	}
}

// ReplyWithProblemDetailsFunc returns a typed terminal writing the problem
// built by fn with the given status. An unset Status in the document is
// filled with status; the trace id is added unless fn set it. A nil fn
// yields a nil TerminateFunc.
func ReplyWithProblemDetailsFunc[T error](status int, fn func(x *Exchange, err T) *problem.Details) dcatch.TerminateFunc[*Exchange, T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, x *Exchange, err T) (any, error) {
		return writeProblem(x, status, fn(x, err))
	}
}

// ReplyWithValidationProblemDetailsFunc returns a typed terminal writing a
// validation problem with the errors computed by factory. A nil factory
// yields a nil TerminateFunc.
func ReplyWithValidationProblemDetailsFunc[T error](factory func(err T) map[string][]string) dcatch.TerminateFunc[*Exchange, T] {
	if factory == nil {
		return nil
	}
	return func(_ context.Context, x *Exchange, err T) (any, error) {
		return writeProblem(x, http.StatusBadRequest, problem.Validation(factory(err)))
	}
}
