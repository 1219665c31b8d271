// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melograph/melograph/internal/logging"
)

// startMetricsListener serves Prometheus metrics on addr and returns a
// shutdown function. Intended for long-running invocations such as
// 'now --watch'.
func startMetricsListener(addr string) func() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", addr).Msg("metrics listener starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn().Err(err).Msg("metrics listener failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
