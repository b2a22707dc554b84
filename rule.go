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

import "fmt"

// Rule is an ordered, immutable sequence of activities.
//
// Rules are produced by the terminal methods of Builder, or by NewRule for
// hand-assembled activity lists. The zero Rule is incomplete and is rejected
// by the rule set constructors.
type Rule[C any] struct {
	name       string
	activities []Activity[C]
	err        error
}

// NewRule assembles a rule from activities. The last activity is expected to
// end the rule (Skip or Handled); a rule whose activities all continue simply
// falls through to the next rule.
func NewRule[C any](name string, activities ...Activity[C]) Rule[C] {
	r := Rule[C]{name: name}
	if len(activities) == 0 {
		r.err = ErrIncompleteRule
		return r
	}
	for i, a := range activities {
		if err := configErr[C](a); err != nil {
			r.err = fmt.Errorf("activity %d: %w", i, err)
			return r
		}
	}
	r.activities = append([]Activity[C](nil), activities...)
	return r
}

// Name returns the rule name; it is empty for unnamed rules.
func (r Rule[C]) Name() string { return r.name }

// Len returns the number of activities in the rule.
func (r Rule[C]) Len() int { return len(r.activities) }

// Err returns the configuration error latched while building the rule.
func (r Rule[C]) Err() error {
	if r.err != nil {
		return r.err
	}
	if len(r.activities) == 0 {
		return ErrIncompleteRule
	}
	return nil
}

// IsZero reports whether r is the zero Rule.
func (r Rule[C]) IsZero() bool {
	return r.name == "" && r.activities == nil && r.err == nil
}
