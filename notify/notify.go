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

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dirpx.dev/dcatch"
)

// ErrNilPublisher is the configuration error reported for an Activity
// without a publisher.
var ErrNilPublisher = errors.New("notify: nil publisher")

// Event is the message published for a routed error.
type Event struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Op      string    `json:"op,omitempty"`
	TraceID string    `json:"traceId,omitempty"`
	Time    time.Time `json:"time"`
}

// Publisher sends events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// DescribeFunc builds the event for the current error.
type DescribeFunc[C any] func(ctx context.Context, c C, err error) Event

// Describe is the default DescribeFunc: the dynamic error type and its
// message.
func Describe[C any](_ context.Context, _ C, err error) Event {
	return Event{Type: fmt.Sprintf("%T", err), Message: err.Error()}
}

// Activity returns an intercept that publishes the current error with p.
// A nil describe uses Describe. A zero Event.Time is set to the current
// time. A publish failure aborts the run as an activity error. A nil p is a
// configuration error reported when the rule set is built.
func Activity[C any](p Publisher, describe DescribeFunc[C]) dcatch.Activity[C] {
	if p == nil {
		return dcatch.Invalid[C](ErrNilPublisher)
	}
	if describe == nil {
		describe = Describe[C]
	}
	return dcatch.Intercept(func(ctx context.Context, c C, err error) error {
		e := describe(ctx, c, err)
		if e.Time.IsZero() {
			e.Time = time.Now().UTC()
		}
		if perr := p.Publish(ctx, e); perr != nil {
			return fmt.Errorf("notify: publish %s: %w", e.Type, perr)
		}
		return nil
	})
}
