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
	"errors"

	"dirpx.dev/dcatch/code"
)

// Coded is implemented by errors that carry a code.
type Coded interface {
	error
	ErrorCode() code.Code
}

// FieldErrorer is implemented by validation-class errors. The returned map
// goes verbatim into the "errors" member of a validation problem response.
type FieldErrorer interface {
	error
	FieldErrors() map[string][]string
}

// CodeOf returns the code of the first Coded error in the chain of err, or
// code.Internal when there is none. A nil err yields code.Empty.
func CodeOf(err error) code.Code {
	if err == nil {
		return code.Empty
	}
	var c Coded
	if errors.As(err, &c) {
		if cc := c.ErrorCode(); cc != code.Empty {
			return cc
		}
	}
	return code.Internal
}

// MessageOf returns the client-safe message of err: the Message of an *Error
// or *ValidationError in its chain, otherwise err.Error().
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
