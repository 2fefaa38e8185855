/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package metrics exposes Prometheus instrumentation for the gateway's
// enrollment and ledger operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operations records call counts and latencies per gateway operation.
type Operations struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewOperations registers the operation collectors with reg.
func NewOperations(reg prometheus.Registerer) *Operations {
	m := &Operations{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "operations_total",
			Help:      "Gateway operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "operation_duration_seconds",
			Help:      "Gateway operation latency by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(m.total, m.duration)
	return m
}

// Observe records one finished operation.
func (m *Operations) Observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.total.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
