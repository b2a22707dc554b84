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

// Package storex hosts a dcatch rule set at the persistence boundary.
//
// A Guard wraps save operations. When a save fails, the failure is routed
// through the rule set and the final error is returned to the caller: rules
// here translate driver errors into domain errors (Replace, UnwrapCause)
// or observe them, they never swallow them. A run that ends Handled still
// returns the final error.
//
// DB is a thin sqlx wrapper whose write paths (Tx, Exec, NamedExec) go
// through a Guard, wrapping driver failures in *SaveError. The predicates
// IsUniqueViolation, IsForeignKeyViolation and Constraint understand the
// errors of pgx, lib/pq and modernc sqlite, and are meant for rule filters:
//
//	dcatch.CatchWhen[storex.Op, *storex.SaveError](func(_ context.Context, _ storex.Op, e *storex.SaveError) bool {
//	    return storex.IsUniqueViolation(e)
//	}).Replace(toDuplicateTitle)
package storex
