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
	"maps"
	"slices"
	"strings"

	"dirpx.dev/dcatch/code"
)

// ValidationError reports rejected input.
//
// Message applies to every name in Members. Fields holds additional
// per-member messages, for validators that report several distinct
// problems at once.
type ValidationError struct {
	Message string
	Members []string
	Fields  map[string][]string
	Cause   error
}

// Invalid builds a ValidationError for the given members.
func Invalid(msg string, members ...string) *ValidationError {
	return &ValidationError{Message: msg, Members: members}
}

func (e *ValidationError) Error() string {
	if len(e.Members) == 0 {
		return "validation failed: " + e.Message
	}
	return "validation failed (" + strings.Join(e.Members, ", ") + "): " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// ErrorCode implements Coded; validation errors are always code.Invalid.
func (e *ValidationError) ErrorCode() code.Code { return code.Invalid }

// FieldErrors implements FieldErrorer. Each member maps to Message, followed
// by that member's entries from Fields. The result is a fresh map.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Members)+len(e.Fields))
	for _, m := range e.Members {
		if !slices.Contains(out[m], e.Message) {
			out[m] = append(out[m], e.Message)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		out[k] = append(out[k], e.Fields[k]...)
	}
	return out
}

// WithField returns a copy of e with msg recorded for member.
func (e *ValidationError) WithField(member, msg string) *ValidationError {
	cp := *e
	cp.Fields = make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = slices.Clone(v)
	}
	cp.Fields[member] = append(cp.Fields[member], msg)
	return &cp
}
