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

package fault

import (
	"fmt"
	"maps"

	"dirpx.dev/dcatch/code"
)

// Error is a classified error.
//
// All WithX helpers return a shallow copy, so Error values can be shared
// between goroutines and refined in a functional style.
type Error struct {
	// Code is the error class, e.g. code.NotFound.
	Code code.Code

	// Message is safe to show to API clients.
	Message string

	// Details is an optional map of extra fields. It is treated as
	// immutable; WithDetail and WithDetails copy it.
	Details map[string]any

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// E builds an Error and applies opts in order.
//
//	return fault.E(code.NotFound, "todo list not found",
//	    fault.WithDetailOption("id", id),
//	)
func E(c code.Code, msg string, opts ...Option) *Error {
	e := &Error{Code: c, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Errorf is E with a formatted message. A %w verb in format is not
// interpreted; use WithCauseOption to attach a cause.
func Errorf(c code.Code, format string, args ...any) *Error {
	return &Error{Code: c, Message: fmt.Sprintf(format, args...)}
}

// Error renders "<code>: <message>".
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode implements Coded.
func (e *Error) ErrorCode() code.Code { return e.Code }

// Is reports whether target is an *Error with the same code. It lets callers
// match a class with errors.Is(err, fault.E(code.NotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && e != nil && t.Code == e.Code
}

// WithMessage returns a copy of e with msg as the message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetail returns a copy of e with k set in Details.
func (e *Error) WithDetail(k string, v any) *Error {
	cp := *e
	m := make(map[string]any, len(cp.Details)+1)
	maps.Copy(m, cp.Details)
	m[k] = v
	cp.Details = m
	return &cp
}

// WithDetails returns a copy of e with kv merged into Details; kv wins on
// conflicts.
func (e *Error) WithDetails(kv map[string]any) *Error {
	if len(kv) == 0 {
		return e
	}
	cp := *e
	m := make(map[string]any, len(cp.Details)+len(kv))
	maps.Copy(m, cp.Details)
	maps.Copy(m, kv)
	cp.Details = m
	return &cp
}

// WithCause returns a copy of e wrapping err. A nil err returns e unchanged.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}
