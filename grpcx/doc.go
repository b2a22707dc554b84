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

// Package grpcx hosts a dcatch rule set at the gRPC server boundary.
//
// UnaryServerInterceptor and StreamServerInterceptor run the pipeline for
// every error a handler returns. A rule that handles the error produces a
// *status.Status (see ReplyWithCode, ReplyWithValidation,
// ReplyWithMappedCode and ReplyWithStatus) which becomes the call error.
// Errors no rule handles are returned unchanged, so the usual gRPC
// conversion applies to them.
//
// When the incoming metadata carries a request id (x-request-id by
// default), terminals attach it as an errdetails.RequestInfo detail.
package grpcx
