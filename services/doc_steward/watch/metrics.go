// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for change batching.
//
// Thread Safety: safe for concurrent use.
type Metrics struct {
	// BatchesTotal counts processed batches.
	BatchesTotal prometheus.Counter

	// BatchSize observes the number of files per batch.
	BatchSize prometheus.Histogram

	// DebounceResetsTotal counts timer restarts caused by new changes
	// arriving inside the quiet window.
	DebounceResetsTotal prometheus.Counter

	// WatchEventsTotal counts filesystem events forwarded by the
	// watcher, by operation.
	WatchEventsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the watch metrics.
//
// # Inputs
//
//   - reg: Target registry. Nil uses the default registerer; tests pass
//     prometheus.NewRegistry() for isolated instances.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BatchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "watch",
				Name:      "batches_total",
				Help:      "Processed change batches",
			},
		),
		BatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "doc_steward",
				Subsystem: "watch",
				Name:      "batch_size",
				Help:      "Files per processed batch",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		DebounceResetsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "watch",
				Name:      "debounce_resets_total",
				Help:      "Debounce timer restarts from changes inside the quiet window",
			},
		),
		WatchEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "watch",
				Name:      "events_total",
				Help:      "Filesystem events forwarded into the pending set",
			},
			[]string{"op"},
		),
	}
}
