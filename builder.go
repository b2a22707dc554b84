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
	"errors"
	"fmt"
	"log/slog"
)

// TerminateFunc computes and delivers the terminal outcome for an error of
// type T. The returned value becomes Result.Outcome.
type TerminateFunc[C any, T error] func(ctx context.Context, c C, err T) (any, error)

// Builder accumulates the activities of one rule. It starts with a gate
// that selects errors of type T, and is finalized into a Rule by one of its
// terminal methods: Replace, UnwrapCause, Rethrow, Terminate or Then.
//
// Typed callbacks receive the error already converted to T. If an earlier
// activity of the same rule substituted the error with a value that no
// longer converts, the rule is skipped at that point.
//
// Invalid arguments are not reported by the builder itself; the first one is
// latched and surfaces as a *ConfigError when the rule set is built.
//
// Gate and intercept methods extend the builder in place. Terminal methods
// leave it untouched, so one builder may serve as the shared prefix of
// several rules:
//
//	b := dcatch.Catch[*httpx.Exchange, *AuthError]().Log(slog.LevelWarn)
//	logged := b.Rethrow()
//	replied := b.Then(httpx.ReplyWithStatusCode(http.StatusUnauthorized))
type Builder[C any, T error] struct {
	name       string
	activities []Activity[C]
	extract    func(error) (T, bool)
	err        error
}

// Catch starts a rule matching errors whose dynamic type is T. When T is an
// interface type every error implementing it matches. Only the error itself
// is inspected; wrapped causes are not.
func Catch[C any, T error]() *Builder[C, T] {
	return newBuilder[C](func(err error) (T, bool) {
		t, ok := err.(T)
		return t, ok
	})
}

// CatchWhen is Catch followed by When(pred).
func CatchWhen[C any, T error](pred func(ctx context.Context, c C, err T) bool) *Builder[C, T] {
	return Catch[C, T]().When(pred)
}

// CatchAs starts a rule matching when any error in the chain of the current
// error is assignable to T, as reported by errors.As. Typed callbacks
// receive the matched link, the current error itself is left untouched.
func CatchAs[C any, T error]() *Builder[C, T] {
	return newBuilder[C](func(err error) (T, bool) {
		var t T
		ok := errors.As(err, &t)
		return t, ok
	})
}

// CatchIs starts a rule matching when errors.Is(err, target) holds.
func CatchIs[C any](target error) *Builder[C, error] {
	b := newBuilder[C](func(err error) (error, bool) {
		return err, errors.Is(err, target)
	})
	if target == nil {
		b.fail(fmt.Errorf("%w: nil target", ErrNilFunc))
	}
	return b
}

func newBuilder[C any, T error](extract func(error) (T, bool)) *Builder[C, T] {
	b := &Builder[C, T]{extract: extract}
	b.activities = append(b.activities, Filter(func(_ context.Context, _ C, err error) bool {
		_, ok := extract(err)
		return ok
	}))
	return b
}

// Named sets the rule name used in logs, metrics and errors.
func (b *Builder[C, T]) Named(name string) *Builder[C, T] {
	b.name = name
	return b
}

// When adds a typed filter. The rule continues only when pred holds.
func (b *Builder[C, T]) When(pred func(ctx context.Context, c C, err T) bool) *Builder[C, T] {
	if pred == nil {
		return b.fail(fmt.Errorf("%w: When predicate", ErrNilFunc))
	}
	return b.add(Filter(func(ctx context.Context, c C, err error) bool {
		t, ok := b.extract(err)
		return ok && pred(ctx, c, t)
	}))
}

// Intercept adds a side effect. An error returned by fn aborts the run.
func (b *Builder[C, T]) Intercept(fn func(ctx context.Context, c C, err T) error) *Builder[C, T] {
	if fn == nil {
		return b.fail(fmt.Errorf("%w: Intercept action", ErrNilFunc))
	}
	return b.add(b.typed(func(ctx context.Context, c C, t T, _ error) (Step, error) {
		if err := fn(ctx, c, t); err != nil {
			return Step{}, err
		}
		return Step{Signal: Continue}, nil
	}))
}

// Log adds an intercept writing the error to the run-scoped logger.
func (b *Builder[C, T]) Log(level slog.Level, attrs ...slog.Attr) *Builder[C, T] {
	return b.add(Log[C](level, attrs...))
}

// Activity appends an arbitrary, untyped activity.
func (b *Builder[C, T]) Activity(a Activity[C]) *Builder[C, T] {
	return b.add(a)
}

// Replace finalizes the rule with a substitution. The next rule sees the
// error returned by fn.
func (b *Builder[C, T]) Replace(fn func(ctx context.Context, c C, err T) error) Rule[C] {
	if fn == nil {
		return b.finish(Invalid[C](fmt.Errorf("%w: Replace provider", ErrNilFunc)))
	}
	return b.finish(b.typed(func(ctx context.Context, c C, t T, err error) (Step, error) {
		next := fn(ctx, c, t)
		if next == nil {
			return Step{}, fmt.Errorf("%w (replacing %T)", ErrNilReplacement, err)
		}
		return Step{Signal: Skip, Err: next}, nil
	}))
}

// UnwrapCause finalizes the rule by replacing the error with its direct
// causal predecessor.
func (b *Builder[C, T]) UnwrapCause() Rule[C] {
	return b.finish(UnwrapCause[C]())
}

// Rethrow finalizes the rule without changing the error. It is useful for
// rules that only observe, such as logging every instance of a type while
// leaving routing to later rules.
func (b *Builder[C, T]) Rethrow() Rule[C] {
	return b.finish(Rethrow[C]())
}

// Terminate finalizes the rule with a terminal outcome.
func (b *Builder[C, T]) Terminate(fn TerminateFunc[C, T]) Rule[C] {
	if fn == nil {
		return b.finish(Invalid[C](fmt.Errorf("%w: Terminate provider", ErrNilFunc)))
	}
	return b.finish(b.typed(func(ctx context.Context, c C, t T, _ error) (Step, error) {
		out, err := fn(ctx, c, t)
		if err != nil {
			return Step{}, err
		}
		return Step{Signal: Handled, Outcome: out}, nil
	}))
}

// Then finalizes the rule with an untyped activity, typically a host
// terminal such as httpx.ReplyWithStatusCode.
func (b *Builder[C, T]) Then(a Activity[C]) Rule[C] {
	if a == nil {
		return b.finish(Invalid[C](fmt.Errorf("%w: Then activity", ErrNilFunc)))
	}
	return b.finish(a)
}

func (b *Builder[C, T]) typed(fn func(ctx context.Context, c C, t T, err error) (Step, error)) Activity[C] {
	extract := b.extract
	return ActivityFunc[C](func(ctx context.Context, c C, err error) (Step, error) {
		t, ok := extract(err)
		if !ok {
			return Step{Signal: Skip}, nil
		}
		return fn(ctx, c, t, err)
	})
}

func (b *Builder[C, T]) add(a Activity[C]) *Builder[C, T] {
	if err := configErr(a); err != nil {
		return b.fail(err)
	}
	b.activities = append(b.activities, a)
	return b
}

func (b *Builder[C, T]) fail(err error) *Builder[C, T] {
	if b.err == nil {
		b.err = err
	}
	return b
}

// finish returns the rule made of the accumulated activities and last. The
// builder itself is not extended.
func (b *Builder[C, T]) finish(last Activity[C]) Rule[C] {
	r := Rule[C]{name: b.name, err: b.err}
	if r.err == nil {
		r.err = configErr(last)
	}
	r.activities = make([]Activity[C], 0, len(b.activities)+1)
	r.activities = append(r.activities, b.activities...)
	r.activities = append(r.activities, last)
	return r
}
