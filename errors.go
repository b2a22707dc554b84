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
	"errors"
	"fmt"
)

var (
	// ErrNoCause is returned by UnwrapCause when the current error has no
	// causal predecessor.
	ErrNoCause = errors.New("dcatch: error has no cause to unwrap")

	// ErrNilReplacement is returned when a replace provider yields a nil error.
	ErrNilReplacement = errors.New("dcatch: replace provider returned nil")

	// ErrUnknownSignal is returned when an activity reports a signal outside
	// Continue, Skip and Handled.
	ErrUnknownSignal = errors.New("dcatch: unknown signal")

	// ErrIncompleteRule reports a rule that was never finalized by a
	// terminal builder method.
	ErrIncompleteRule = errors.New("dcatch: incomplete rule")

	// ErrNilFunc reports a nil predicate, action, activity or closure passed
	// at configuration time.
	ErrNilFunc = errors.New("dcatch: nil function")
)

// ConfigError describes an invalid rule detected while building a RuleSet.
type ConfigError struct {
	// Index is the declaration index of the rule, or -1 when the error is
	// not tied to a single rule.
	Index int

	// Rule is the rule name, if one was given.
	Rule string

	Err error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("dcatch: configure: %v", e.Err)
	case e.Rule != "":
		return fmt.Sprintf("dcatch: rule %d (%s): %v", e.Index, e.Rule, e.Err)
	default:
		return fmt.Sprintf("dcatch: rule %d: %v", e.Index, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ActivityError is an activity-internal failure. It aborts the run it
// occurred in; remaining activities and rules are not evaluated.
type ActivityError struct {
	// Set is the name of the rule set, if any.
	Set string

	// Rule is the label of the rule whose activity failed.
	Rule string

	// RuleIndex is the declaration index of that rule.
	RuleIndex int

	// Index is the position of the failing activity inside the rule.
	Index int

	Err error
}

func (e *ActivityError) Error() string {
	if e.Set != "" {
		return fmt.Sprintf("dcatch: %s: rule %s: activity %d: %v", e.Set, e.Rule, e.Index, e.Err)
	}
	return fmt.Sprintf("dcatch: rule %s: activity %d: %v", e.Rule, e.Index, e.Err)
}

func (e *ActivityError) Unwrap() error { return e.Err }
