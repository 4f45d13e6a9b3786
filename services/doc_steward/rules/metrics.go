// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for rule evaluation.
//
// Thread Safety: safe for concurrent use (Prometheus metrics are
// thread-safe).
type Metrics struct {
	// EvaluationsTotal counts evaluations by index type and decision.
	EvaluationsTotal *prometheus.CounterVec

	// CacheHitsTotal counts evaluations answered from the cache.
	CacheHitsTotal prometheus.Counter

	// CacheMissesTotal counts evaluations that ran the rule tables.
	CacheMissesTotal prometheus.Counter

	// EvaluationSeconds measures uncached evaluation latency.
	EvaluationSeconds prometheus.Histogram
}

// NewMetrics creates and registers the rule-engine metrics.
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
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "rules",
				Name:      "evaluations_total",
				Help:      "Rule evaluations by index type and decision",
			},
			[]string{"index_type", "decision"},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "rules",
				Name:      "cache_hits_total",
				Help:      "Evaluations answered from the result cache",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "doc_steward",
				Subsystem: "rules",
				Name:      "cache_misses_total",
				Help:      "Evaluations that ran the rule tables",
			},
		),
		EvaluationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "doc_steward",
				Subsystem: "rules",
				Name:      "evaluation_seconds",
				Help:      "Uncached evaluation latency",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 6),
			},
		),
	}
}
