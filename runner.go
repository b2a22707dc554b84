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
	"time"
)

// Result is the outcome of a run.
type Result struct {
	// Handled is true when a rule delivered a terminal outcome.
	Handled bool

	// Outcome is the value produced by the terminating activity.
	Outcome any

	// Err is the final value of the in-flight error. When the run is not
	// handled this is the error the caller must propagate.
	Err error

	// Rule is the label of the rule that handled the error.
	Rule string

	// Replaced counts the substitutions performed during the run.
	Replaced int
}

// Run routes err through the rule set.
//
// Rules are evaluated in declaration order, and the activities of a rule in
// their order. Continue moves to the next activity, Skip to the next rule
// with the current error, Handled stops the run. A rule whose activities all
// continue falls through to the next rule.
//
// The returned error is non-nil only for activity-internal failures, which
// abort the run immediately; it is always an *ActivityError. A nil err
// yields an empty, unhandled Result.
func (rs *RuleSet[C]) Run(ctx context.Context, c C, err error) (Result, error) {
	if err == nil {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Value(loggerKey{}).(*slog.Logger); !ok {
		l := rs.logger
		if l == nil {
			l = defaultLogger()
		}
		ctx = ContextWithLogger(ctx, l)
	}

	start := time.Now()
	res, aerr := rs.run(ctx, c, err)
	if rs.observer != nil {
		rs.observer.ObserveRun(ctx, Report{
			Set:      rs.name,
			Rule:     res.Rule,
			Handled:  res.Handled,
			Failed:   aerr != nil,
			Replaced: res.Replaced,
			Duration: time.Since(start),
		})
	}
	return res, aerr
}

func (rs *RuleSet[C]) run(ctx context.Context, c C, err error) (Result, error) {
	logger := LoggerFrom(ctx)
	res := Result{Err: err}

rules:
	for i, r := range rs.rules {
		for j, a := range r.activities {
			step, aerr := a.Execute(ctx, c, res.Err)
			if aerr != nil {
				res.Rule = rs.labels[i]
				return res, rs.activityError(i, j, aerr)
			}
			if step.Err != nil {
				res.Err = step.Err
				res.Replaced++
				logger.DebugContext(ctx, "error replaced",
					slog.String("set", rs.name),
					slog.String("rule", rs.labels[i]),
					slog.String("error_type", fmt.Sprintf("%T", step.Err)))
			}

			switch step.Signal {
			case Continue:
			case Skip:
				continue rules
			case Handled:
				res.Handled = true
				res.Outcome = step.Outcome
				res.Rule = rs.labels[i]
				logger.DebugContext(ctx, "error handled",
					slog.String("set", rs.name),
					slog.String("rule", res.Rule))
				return res, nil
			default:
				res.Rule = rs.labels[i]
				return res, rs.activityError(i, j, fmt.Errorf("%w: %v", ErrUnknownSignal, step.Signal))
			}
		}
	}
	return res, nil
}

func (rs *RuleSet[C]) activityError(rule, index int, err error) *ActivityError {
	return &ActivityError{
		Set:       rs.name,
		Rule:      rs.labels[rule],
		RuleIndex: rule,
		Index:     index,
		Err:       err,
	}
}

// Handle runs the rule set and reduces the result to what a boundary
// propagates: nil when handled, the activity error when one occurred,
// otherwise the final error.
func (rs *RuleSet[C]) Handle(ctx context.Context, c C, err error) error {
	res, aerr := rs.Run(ctx, c, err)
	switch {
	case aerr != nil:
		return aerr
	case res.Handled:
		return nil
	default:
		return res.Err
	}
}
