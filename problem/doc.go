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

// Package problem builds the structured terminal outcome delivered by HTTP
// rules: a problem-details document in the shape of RFC 7807.
//
// Every status in the fixed reference table gets a stable "type" URI;
// unmapped statuses get an empty one. Validation problems additionally carry
// an "errors" map from member name to messages and a title that depends on
// how many members failed.
//
// The JSON encoding has a fixed member order so responses can be compared
// byte for byte:
//
//	{"type":...,"title":...,"status":...,"detail":...,"instance":...,"errors":{...},<extensions sorted by key>}
package problem
