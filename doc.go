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

// Package dcatch routes errors through an ordered, declarative set of rules.
//
// A unit of work (an HTTP request, a gRPC call, a transactional save) hands
// the error it failed with to a RuleSet. The set evaluates its rules in
// declaration order; every rule is an ordered list of activities:
//
//   - filters gate entry into the rule (type match, predicates);
//   - intercepts observe the error (logging, notification);
//   - a replace activity substitutes the error and ends the rule, so the
//     next rule sees the new error;
//   - a terminate activity delivers a terminal outcome and ends the run.
//
// Each activity reports a Signal: Continue moves to the next activity of the
// same rule, Skip moves to the next rule, Handled stops the run. When no rule
// handles the error, Run reports the final (possibly replaced) error back to
// the caller, which surfaces it through its own error path.
//
// # Building rules
//
// Rules are assembled with a Builder that starts from a type gate:
//
//	rs, err := dcatch.Configure(func(o *dcatch.Options[*httpx.Exchange]) {
//	    o.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
//	        return dcatch.Catch[*httpx.Exchange, *storex.SaveError]().
//	            UnwrapCause()
//	    })
//	    o.AddHandler(func() dcatch.Rule[*httpx.Exchange] {
//	        return dcatch.Catch[*httpx.Exchange, *fault.ValidationError]().
//	            Then(httpx.ReplyWithValidationProblemDetails())
//	    })
//	}, dcatch.WithName("api"))
//
// A Builder only turns into a Rule through one of its terminal methods
// (Replace, UnwrapCause, Rethrow, Terminate, Then). Invalid usage, such as a
// nil predicate, is latched in the builder and reported by Configure / New,
// before any run happens.
//
// # Concurrency
//
// A RuleSet is immutable once built. It is meant to be created at startup
// and shared by every run; Run does not lock and does not spawn goroutines.
// Per-run state (the in-flight error and the caller context) belongs to the
// single run that owns it.
package dcatch
