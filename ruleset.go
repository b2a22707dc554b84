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

import (
	"errors"
	"fmt"
	"log/slog"
)

// Options collects rules during a Configure call. Rules are evaluated in
// the order they were added.
type Options[C any] struct {
	rules []Rule[C]
}

// Add appends rules.
func (o *Options[C]) Add(rules ...Rule[C]) *Options[C] {
	o.rules = append(o.rules, rules...)
	return o
}

// AddHandler appends the rule returned by fn. A nil fn is recorded as a
// configuration error at its position.
func (o *Options[C]) AddHandler(fn func() Rule[C]) *Options[C] {
	if fn == nil {
		o.rules = append(o.rules, Rule[C]{err: fmt.Errorf("%w: AddHandler closure", ErrNilFunc)})
		return o
	}
	o.rules = append(o.rules, fn())
	return o
}

// RuleSet is an immutable, ordered collection of rules. It is safe for
// concurrent use.
type RuleSet[C any] struct {
	name     string
	logger   *slog.Logger
	observer Observer
	rules    []Rule[C]
	labels   []string
}

// Configure runs fn once against a fresh Options and freezes the collected
// rules into a RuleSet.
func Configure[C any](fn func(*Options[C]), opts ...Option) (*RuleSet[C], error) {
	if fn == nil {
		return nil, &ConfigError{Index: -1, Err: fmt.Errorf("%w: configure routine", ErrNilFunc)}
	}
	var o Options[C]
	fn(&o)
	return New(o.rules, opts...)
}

// MustConfigure is like Configure but panics on configuration errors.
func MustConfigure[C any](fn func(*Options[C]), opts ...Option) *RuleSet[C] {
	rs, err := Configure(fn, opts...)
	if err != nil {
		panic(err)
	}
	return rs
}

// New builds a RuleSet from rules. Every invalid rule is reported as a
// *ConfigError; multiple failures are joined.
func New[C any](rules []Rule[C], opts ...Option) (*RuleSet[C], error) {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	var errs []error
	for i, r := range rules {
		if err := r.Err(); err != nil {
			errs = append(errs, &ConfigError{Index: i, Rule: r.name, Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	rs := &RuleSet[C]{
		name:     s.name,
		logger:   s.logger,
		observer: s.observer,
		rules:    append([]Rule[C](nil), rules...),
		labels:   make([]string, len(rules)),
	}
	for i, r := range rs.rules {
		rs.labels[i] = r.name
		if r.name == "" {
			rs.labels[i] = fmt.Sprintf("#%d", i)
		}
	}
	return rs, nil
}

// Name returns the rule set name.
func (rs *RuleSet[C]) Name() string { return rs.name }

// Len returns the number of rules.
func (rs *RuleSet[C]) Len() int { return len(rs.rules) }

// Names returns the rule labels in evaluation order. Unnamed rules are
// labelled by their index ("#0", "#1", ...).
func (rs *RuleSet[C]) Names() []string {
	return append([]string(nil), rs.labels...)
}
