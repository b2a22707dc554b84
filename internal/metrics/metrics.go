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

// Package metrics exports rule set runs to Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dirpx.dev/dcatch"
)

// Observer records every run as a dcatch.Observer.
type Observer struct {
	runs         *prometheus.CounterVec
	replacements *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

var _ dcatch.Observer = (*Observer)(nil)

// NewObserver registers the collectors on reg. A nil reg uses the default
// registerer.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Observer{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dcatch_runs_total",
				Help: "Total number of error routing runs",
			},
			[]string{"set", "rule", "outcome"},
		),
		replacements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dcatch_replacements_total",
				Help: "Total number of error replacements across runs",
			},
			[]string{"set"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dcatch_run_duration_seconds",
				Help:    "Error routing run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"set"},
		),
	}
}

// ObserveRun implements dcatch.Observer.
func (o *Observer) ObserveRun(_ context.Context, r dcatch.Report) {
	o.runs.WithLabelValues(r.Set, r.Rule, r.Outcome()).Inc()
	if r.Replaced > 0 {
		o.replacements.WithLabelValues(r.Set).Add(float64(r.Replaced))
	}
	o.duration.WithLabelValues(r.Set).Observe(r.Duration.Seconds())
}
