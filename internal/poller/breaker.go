// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package poller

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/metrics"
	"github.com/melograph/melograph/internal/models"
)

const breakerName = "now-playing"

// newBreaker builds the circuit breaker guarding the now-playing
// endpoint. Polling hits the same URL every few seconds, so a down
// server would otherwise produce an error log line per tick; the
// breaker fails fast while open and probes again after the timeout.
func newBreaker() *gobreaker.CircuitBreaker[models.NowPlaying] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[models.NowPlaying](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Consecutive failures, not a ratio: the poller issues one
		// request per tick so there is no concurrency to average over.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[poller] circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

func breakerStateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
