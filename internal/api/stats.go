// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/melograph/melograph/internal/models"
)

// Stats retrieves the aggregate listen/track/album/artist counts for a
// period.
func (c *Client) Stats(ctx context.Context, period Period) (models.Stats, error) {
	q := url.Values{}
	q.Set("period", string(period))
	return getJSON[models.Stats](ctx, c, "stats", "/stats", q)
}

// GenreStats retrieves the genre breakdown for a period, weighted by
// listen count or seconds listened. Feeds the treemap visualization.
func (c *Client) GenreStats(ctx context.Context, period Period, metric GenreMetric) (models.GenreStatsResponse, error) {
	q := url.Values{}
	q.Set("period", string(period))
	q.Set("metric", string(metric))
	return getJSON[models.GenreStatsResponse](ctx, c, "genre-stats", "/genre-stats", q)
}

// Wrapped retrieves the yearly "year in review" aggregate.
// The year is always sent explicitly; the server would otherwise default
// to the current year.
func (c *Client) Wrapped(ctx context.Context, year int) (models.WrappedStats, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	return getJSON[models.WrappedStats](ctx, c, "wrapped", "/wrapped", q)
}

// Recommendations retrieves the server's track suggestions with their
// prior listening context.
func (c *Client) Recommendations(ctx context.Context) (models.RecommendationsResponse, error) {
	return getJSON[models.RecommendationsResponse](ctx, c, "recommendations", "/recommendations", nil)
}

// NowPlaying reports the currently playing track, if any. The endpoint
// is polled, not pushed; see internal/poller for the polling loop.
func (c *Client) NowPlaying(ctx context.Context) (models.NowPlaying, error) {
	return getJSON[models.NowPlaying](ctx, c, "now-playing", "/now-playing", nil)
}

// ServerConfig retrieves the server-supplied client bootstrap
// configuration (default theme), fetched before first render.
func (c *Client) ServerConfig(ctx context.Context) (models.ServerConfig, error) {
	return getJSON[models.ServerConfig](ctx, c, "config", "/config", nil)
}
