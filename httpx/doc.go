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

// Package httpx hosts a dcatch rule set at the HTTP boundary.
//
// Middleware and Handler run the pipeline for errors escaping a request:
// errors returned by a Handler function, and panics carrying an error value.
// Rules deliver their outcome directly to the response through the
// terminals of this package (ReplyWithStatusCode, ReplyWithProblemDetails,
// ReplyWithValidationProblemDetails, ...). A response is written at most
// once; a terminal that finds the response already started fails with
// ErrResponseStarted.
//
// Errors no rule handles, and activity failures, go to the fallback. The
// default fallback logs at error level and writes a generic 500 problem
// when nothing was written yet.
//
// Every request gets a trace id: the X-Request-ID header, else the trace id
// of a W3C traceparent header, else a random UUID. It is echoed in the
// response and injected into problem documents as the "traceId" extension.
package httpx
