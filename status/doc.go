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

// Package status maps error codes (package code) to HTTP and gRPC statuses.
//
// A Mapper is an immutable snapshot built once at startup from library
// defaults plus options:
//
//	m, err := status.New(
//	    status.WithHTTPOverride(code.Canceled, 499),
//	    status.WithGRPCDefault(code.DependencyFailed, codes.Unavailable),
//	)
//
// Resolution order for a code is:
//
//  1. exact override;
//  2. per-code default (library or user-adjusted);
//  3. fallback (500 / codes.Internal unless changed with WithFallback).
//
// For resolves the code of an arbitrary error through fault.CodeOf, which
// is what host terminals such as httpx.ReplyWithMappedProblemDetails use.
// Explain returns a readable trace of the tier that matched.
package status
