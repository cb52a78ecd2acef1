package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuardOutcomes counts how each guarded request was settled:
	// authenticated, unauthenticated, lookup_failed, placeholder, abandoned.
	GuardOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_guard_outcomes_total",
			Help: "Session guard decisions by outcome",
		},
		[]string{"outcome"},
	)

	// SessionLookupLatency measures calls to the auth collaborator.
	SessionLookupLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_lookup_latency_ms",
			Help:    "Session lookup latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1ms to ~8s
		},
	)

	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "route", "status"},
	)

	DeliverablesMarkedOverdue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliverables_marked_overdue_total",
			Help: "Deliverables moved from pending to overdue by the reconciler",
		},
	)

	ReconcileFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliverable_reconcile_failures_total",
			Help: "Failed deliverable reconciliation sweeps",
		},
	)
)
