// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API endpoint metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Relation mutation metrics (authoritative side).
	RelationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_mutations_total",
			Help: "Total number of relation mutations committed to the store",
		},
		[]string{"operation"}, // "create", "update", "delete"
	)

	// Event publish metrics.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_events_published_total",
			Help: "Total number of relation events published to the broker",
		},
		[]string{"event_type"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_event_publish_failures_total",
			Help: "Total number of publish attempts that failed after the local mutation committed",
		},
		[]string{"event_type"},
	)

	EventPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relation_event_publish_duration_seconds",
			Help:    "Duration of a full publish cycle (dial, send, close) in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// Event consumption metrics.
	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_events_consumed_total",
			Help: "Total number of consumed relation events by outcome",
		},
		[]string{"event_type", "outcome"}, // outcome: "processed", "unknown_type", "decode_failed", "reaction_failed"
	)

	ReactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relation_reaction_duration_seconds",
			Help:    "Duration of reaction handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event_type"},
	)

	// Reconciliation metrics.
	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Total number of reconciliation runs by outcome",
		},
		[]string{"outcome"}, // "success", "partial", "fetch_failed"
	)

	ReconcileRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_records_total",
			Help: "Total number of records applied during reconciliation",
		},
	)

	ReconcileRecordFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_record_failures_total",
			Help: "Total number of records that failed to apply during reconciliation",
		},
	)

	ReconcileLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reconcile_last_success_timestamp",
			Help: "Unix timestamp of the last successful reconciliation run",
		},
	)

	// Seeder metrics.
	SeedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_runs_total",
			Help: "Total number of seeder runs by outcome",
		},
		[]string{"outcome"}, // "seeded", "skipped", "failed"
	)

	SeedRecordsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_records_inserted_total",
			Help: "Total number of baseline records inserted by the seeder",
		},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database query error.
func RecordDBError(operation, table, errorType string) {
	DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
}

// RecordConsumedEvent records the outcome of one consumed event.
func RecordConsumedEvent(eventType, outcome string) {
	EventsConsumedTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordPublish records a successful publish of one event.
func RecordPublish(eventType string, duration time.Duration) {
	EventsPublishedTotal.WithLabelValues(eventType).Inc()
	EventPublishDuration.Observe(duration.Seconds())
}

// RecordPublishFailure records a publish that failed after the mutation committed.
func RecordPublishFailure(eventType string) {
	EventPublishFailures.WithLabelValues(eventType).Inc()
}
