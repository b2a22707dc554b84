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
	"time"
)

// Report summarizes one run.
type Report struct {
	// Set is the rule set name.
	Set string

	// Rule is the label of the rule that handled the error, or of the rule
	// whose activity failed. It is empty when the rule set was exhausted.
	Rule string

	Handled bool

	// Failed is true when the run was aborted by an activity error.
	Failed bool

	Replaced int

	Duration time.Duration
}

// Outcome returns "handled", "failed" or "unhandled".
func (r Report) Outcome() string {
	switch {
	case r.Failed:
		return "failed"
	case r.Handled:
		return "handled"
	default:
		return "unhandled"
	}
}

// Observer is notified after every run. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveRun(ctx context.Context, r Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, r Report)

// ObserveRun implements Observer.
func (f ObserverFunc) ObserveRun(ctx context.Context, r Report) { f(ctx, r) }
