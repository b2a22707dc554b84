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

package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"dirpx.dev/dcatch"
)

var errGone = errors.New("gone")

func TestObserver_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)

	rs := dcatch.MustConfigure(func(o *dcatch.Options[int]) {
		o.Add(dcatch.CatchIs[int](errGone).Named("gone").
			Terminate(func(context.Context, int, error) (any, error) { return 404, nil }))
		o.Add(dcatch.Catch[int, error]().Named("wrap").
			Replace(func(_ context.Context, _ int, err error) error { return errors.Join(errors.New("wrapped"), err) }))
	}, dcatch.WithName("api"), dcatch.WithObserver(obs))

	ctx := context.Background()
	for range 2 {
		if _, err := rs.Run(ctx, 0, errGone); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if _, err := rs.Run(ctx, 0, errors.New("other")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := testutil.ToFloat64(obs.runs.WithLabelValues("api", "gone", "handled")); got != 2 {
		t.Fatalf("handled runs = %v; want 2", got)
	}
	if got := testutil.ToFloat64(obs.runs.WithLabelValues("api", "", "unhandled")); got != 1 {
		t.Fatalf("unhandled runs = %v; want 1", got)
	}
	if got := testutil.ToFloat64(obs.replacements.WithLabelValues("api")); got != 1 {
		t.Fatalf("replacements = %v; want 1", got)
	}
	if n := testutil.CollectAndCount(obs.duration); n != 1 {
		t.Fatalf("duration series = %d; want 1", n)
	}
}

func TestObserver_Failed(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)
	rs := dcatch.MustConfigure(func(o *dcatch.Options[int]) {
		o.Add(dcatch.Catch[int, error]().Named("leaf").UnwrapCause())
	}, dcatch.WithName("store"), dcatch.WithObserver(obs))

	if _, err := rs.Run(context.Background(), 0, errors.New("leaf")); err == nil {
		t.Fatal("want activity error")
	}
	if got := testutil.ToFloat64(obs.runs.WithLabelValues("store", "leaf", "failed")); got != 1 {
		t.Fatalf("failed runs = %v; want 1", got)
	}
}

func TestNewObserver_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewObserver(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("second registration on the same registry must panic")
		}
	}()
	NewObserver(reg)
}
