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

package dcatch

import "log/slog"

// Option configures a RuleSet at build time.
type Option func(*settings)

type settings struct {
	name     string
	logger   *slog.Logger
	observer Observer
}

// WithName names the rule set. The name appears in logs, metrics and
// activity errors.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithLogger sets the logger handed to activities when the run context does
// not already carry one. A nil logger restores the default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithObserver registers an observer notified once per run.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}
