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

package dcatch

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is what an Activity reports back to the runner.
type Step struct {
	// Signal decides where evaluation goes next.
	Signal Signal

	// Err, when non-nil, replaces the in-flight error. Later activities and
	// rules observe the replacement.
	Err error

	// Outcome is the terminal outcome delivered by a terminating activity.
	// It is surfaced as Result.Outcome when Signal is Handled.
	Outcome any
}

// Activity is the smallest executable unit of a rule.
//
// Execute receives the host context c and the current error. A non-nil
// error return is an activity-internal failure: it aborts the run and is
// propagated to the caller as an *ActivityError.
type Activity[C any] interface {
	Execute(ctx context.Context, c C, err error) (Step, error)
}

// ActivityFunc adapts a plain function to the Activity interface.
type ActivityFunc[C any] func(ctx context.Context, c C, err error) (Step, error)

// Execute implements Activity.
func (f ActivityFunc[C]) Execute(ctx context.Context, c C, err error) (Step, error) {
	return f(ctx, c, err)
}

// Invalid returns an activity that carries a configuration error. A rule
// containing it is rejected by New and Configure with err. Host packages use
// it to report bad arguments to their activity constructors before any run.
func Invalid[C any](err error) Activity[C] {
	if err == nil {
		err = ErrNilFunc
	}
	return invalidActivity[C]{err: err}
}

type invalidActivity[C any] struct{ err error }

func (a invalidActivity[C]) Execute(context.Context, C, error) (Step, error) {
	return Step{}, a.err
}

// configErr reports the configuration error carried by a, if any.
func configErr[C any](a Activity[C]) error {
	switch a := a.(type) {
	case nil:
		return ErrNilFunc
	case invalidActivity[C]:
		return a.err
	}
	return nil
}

// Filter returns an activity that continues when pred holds and skips the
// rest of the rule otherwise. A nil pred is a configuration error.
func Filter[C any](pred func(ctx context.Context, c C, err error) bool) Activity[C] {
	if pred == nil {
		return Invalid[C](fmt.Errorf("%w: Filter predicate", ErrNilFunc))
	}
	return ActivityFunc[C](func(ctx context.Context, c C, err error) (Step, error) {
		if pred(ctx, c, err) {
			return Step{Signal: Continue}, nil
		}
		return Step{Signal: Skip}, nil
	})
}

// Intercept returns an activity that runs fn for its side effect and
// continues. An error from fn aborts the run. A nil fn is a configuration
// error.
func Intercept[C any](fn func(ctx context.Context, c C, err error) error) Activity[C] {
	if fn == nil {
		return Invalid[C](fmt.Errorf("%w: Intercept action", ErrNilFunc))
	}
	return ActivityFunc[C](func(ctx context.Context, c C, err error) (Step, error) {
		if ierr := fn(ctx, c, err); ierr != nil {
			return Step{}, ierr
		}
		return Step{Signal: Continue}, nil
	})
}

// Replace returns an activity that substitutes the current error with the
// value computed by fn and always skips to the next rule. A nil replacement
// is reported as ErrNilReplacement. A nil fn is a configuration error.
func Replace[C any](fn func(ctx context.Context, c C, err error) error) Activity[C] {
	if fn == nil {
		return Invalid[C](fmt.Errorf("%w: Replace provider", ErrNilFunc))
	}
	return ActivityFunc[C](func(ctx context.Context, c C, err error) (Step, error) {
		next := fn(ctx, c, err)
		if next == nil {
			return Step{}, fmt.Errorf("%w (replacing %T)", ErrNilReplacement, err)
		}
		return Step{Signal: Skip, Err: next}, nil
	})
}

// Terminate returns an activity that computes and delivers a terminal
// outcome, then reports Handled. Delivery is the job of fn itself: hosts
// that must finalize a response exactly once do it there. A nil fn is a
// configuration error.
func Terminate[C any](fn func(ctx context.Context, c C, err error) (any, error)) Activity[C] {
	if fn == nil {
		return Invalid[C](fmt.Errorf("%w: Terminate provider", ErrNilFunc))
	}
	return ActivityFunc[C](func(ctx context.Context, c C, err error) (Step, error) {
		out, terr := fn(ctx, c, err)
		if terr != nil {
			return Step{}, terr
		}
		return Step{Signal: Handled, Outcome: out}, nil
	})
}

// UnwrapCause returns an activity that replaces the current error with its
// direct causal predecessor and skips to the next rule.
//
// The predecessor is the result of Unwrap() error, or the first element of
// Unwrap() []error for joined errors. An error without a predecessor is an
// activity-internal failure wrapping ErrNoCause.
func UnwrapCause[C any]() Activity[C] {
	return ActivityFunc[C](func(_ context.Context, _ C, err error) (Step, error) {
		inner := cause(err)
		if inner == nil {
			return Step{}, fmt.Errorf("%w: %T", ErrNoCause, err)
		}
		return Step{Signal: Skip, Err: inner}, nil
	})
}

// Rethrow returns an activity that ends the rule without touching the
// error. Evaluation resumes at the next rule with the same error value.
func Rethrow[C any]() Activity[C] {
	return ActivityFunc[C](func(context.Context, C, error) (Step, error) {
		return Step{Signal: Skip}, nil
	})
}

// Log returns an intercept that writes the current error to the run-scoped
// logger (see LoggerFrom) at the given level.
func Log[C any](level slog.Level, attrs ...slog.Attr) Activity[C] {
	return Intercept(func(ctx context.Context, _ C, err error) error {
		all := make([]slog.Attr, 0, len(attrs)+2)
		all = append(all, attrs...)
		all = append(all,
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.Any("error", err),
		)
		LoggerFrom(ctx).LogAttrs(ctx, level, err.Error(), all...)
		return nil
	})
}

// cause returns the direct predecessor of err, or nil.
func cause(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if e != nil {
				return e
			}
		}
	}
	return nil
}
