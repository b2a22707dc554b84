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

// Package notify publishes error events from inside a rule.
//
// Activity turns a Publisher into an intercept: the rule keeps evaluating
// after the event is sent. SQS delivers events to an Amazon SQS queue and
// Dedupe limits how often one event type is published, using a Redis
// SET NX key per type.
package notify
