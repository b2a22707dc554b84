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

package todo

import (
	"fmt"

	"dirpx.dev/dcatch/code"
	"dirpx.dev/dcatch/fault"
)

// ErrNotImplemented is returned by endpoints that exist but do nothing yet.
var ErrNotImplemented = fault.E(code.NotImplemented, "This operation is not implemented.")

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%d' not found", e.Entity, e.ID)
}

// ErrorCode implements fault.Coded.
func (e *NotFoundError) ErrorCode() code.Code { return code.NotFound }

// UniqueConstraintError reports a value that must be unique and is not.
// Member is the request member holding the value.
type UniqueConstraintError struct {
	Message string
	Member  string
	Cause   error
}

func (e *UniqueConstraintError) Error() string { return e.Message }

func (e *UniqueConstraintError) Unwrap() error { return e.Cause }

// ErrorCode implements fault.Coded.
func (e *UniqueConstraintError) ErrorCode() code.Code { return code.Conflict }

// ReferencedNotFoundError reports a reference to an entity that does not
// exist.
type ReferencedNotFoundError struct {
	Message string
	Cause   error
}

func (e *ReferencedNotFoundError) Error() string { return e.Message }

func (e *ReferencedNotFoundError) Unwrap() error { return e.Cause }

// ErrorCode implements fault.Coded.
func (e *ReferencedNotFoundError) ErrorCode() code.Code { return code.Invalid }
