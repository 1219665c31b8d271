// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package metrics exposes Prometheus collectors for client-side
// observability: API request latency and outcomes, query cache
// efficiency, and the now-playing poller's circuit breaker.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API request metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melograph_api_requests_total",
			Help: "Total number of API requests issued, by operation and status code",
		},
		[]string{"operation", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "melograph_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	APIRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melograph_api_request_errors_total",
			Help: "Total number of API requests that failed before an HTTP status was received",
		},
		[]string{"operation"},
	)

	// Query cache metrics

	QueryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melograph_query_cache_hits_total",
			Help: "Total number of query cache hits",
		},
	)

	QueryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melograph_query_cache_misses_total",
			Help: "Total number of query cache misses",
		},
	)

	QueryCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melograph_query_cache_evictions_total",
			Help: "Total number of query cache entries evicted",
		},
	)

	QueryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "melograph_query_cache_entries",
			Help: "Current number of query cache entries",
		},
	)

	QueryDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melograph_query_deduplicated_total",
			Help: "Total number of fetches coalesced onto an in-flight request",
		},
	)

	// Circuit breaker metrics (now-playing poller)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "melograph_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melograph_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// ObserveAPIRequest records one completed API request.
// Call with the HTTP status code, or 0 when the request never reached
// the server (connection refused, context canceled).
func ObserveAPIRequest(operation string, status int, duration time.Duration) {
	if status == 0 {
		APIRequestErrors.WithLabelValues(operation).Inc()
	} else {
		APIRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	}
	APIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
