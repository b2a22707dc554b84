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

package code

// Generic classes.
const (
	// Internal is the fallback for errors no rule classifies. HTTP 500.
	Internal Code = "internal"

	// Invalid reports input that violates a structural or semantic
	// constraint. Validation failures use it. HTTP 400.
	Invalid Code = "invalid"

	// Missing reports a required value that was not supplied. HTTP 400.
	Missing Code = "missing"

	// Unsupported reports a value or operation the service does not
	// accept. HTTP 400.
	Unsupported Code = "unsupported"

	// NotImplemented reports an operation that exists in the API but has no
	// implementation yet. HTTP 501.
	NotImplemented Code = "not_implemented"
)

// Runtime conditions, usually transient.
const (
	// Unavailable reports an unreachable dependency. HTTP 503.
	Unavailable Code = "unavailable"

	// Timeout reports an exceeded time budget. HTTP 504.
	Timeout Code = "timeout"

	// Canceled reports work stopped by the caller. HTTP 408.
	Canceled Code = "canceled"

	// DependencyFailed reports a reachable dependency that answered with a
	// failure. HTTP 502.
	DependencyFailed Code = "dependency_failed"

	// RateLimited reports a caller over its request budget. HTTP 429.
	RateLimited Code = "rate_limited"
)

// Resource and state classes.
const (
	// NotFound reports a missing entity. HTTP 404.
	NotFound Code = "not_found"

	// AlreadyExists reports an identity that is already taken. HTTP 409.
	AlreadyExists Code = "already_exists"

	// Conflict reports a state conflict such as a uniqueness violation.
	// HTTP 409.
	Conflict Code = "conflict"

	// PreconditionFailed reports a failed precondition such as an ETag
	// mismatch. HTTP 412.
	PreconditionFailed Code = "precondition_failed"

	// Gone reports an entity that existed and was removed. HTTP 410.
	Gone Code = "gone"
)

// Security classes.
const (
	// Unauthenticated reports missing or invalid credentials. HTTP 401.
	Unauthenticated Code = "unauthenticated"

	// PermissionDenied reports an authenticated caller lacking rights.
	// HTTP 403.
	PermissionDenied Code = "permission_denied"
)

// All lists every canonical code in declaration order.
var All = []Code{
	Internal, Invalid, Missing, Unsupported, NotImplemented,
	Unavailable, Timeout, Canceled, DependencyFailed, RateLimited,
	NotFound, AlreadyExists, Conflict, PreconditionFailed, Gone,
	Unauthenticated, PermissionDenied,
}
