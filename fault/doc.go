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

// Package fault provides the error values that dcatch rules and hosts
// route on.
//
// Error carries a code.Code plus a human message, optional details and a
// cause. ValidationError is the validation class: a single message that
// applies to one or more members (fields) of the rejected input.
//
// Hosts do not depend on these concrete types. They discover codes and field
// errors through the capability interfaces Coded and FieldErrorer, so any
// error type can take part by implementing them.
package fault
