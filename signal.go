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

import "strconv"

// Signal tells the runner how to proceed once an activity has completed.
type Signal int

const (
	// Continue proceeds to the next activity of the same rule.
	Continue Signal = iota

	// Skip abandons the remaining activities of the current rule and
	// proceeds to the next rule, carrying the current error.
	Skip

	// Handled ends the run. No further rules are evaluated.
	Handled
)

// String returns the lowercase name of the signal.
func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Handled:
		return "handled"
	default:
		return "signal(" + strconv.Itoa(int(s)) + ")"
	}
}
