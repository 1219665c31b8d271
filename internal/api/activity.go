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

// ActivityOpts are the parameters of the listen activity series.
//
// All parameters are sent on the wire even when zero; the server treats
// empty and zero values as absent.
type ActivityOpts struct {
	Step  Step
	Range int // number of buckets back from now
	Month int
	Year  int

	ArtistID int64
	AlbumID  int64
	TrackID  int64
}

// Activity retrieves the listen activity series: one bucket per step
// interval. This is one of the three legacy endpoints returning a bare
// JSON array rather than the paginated envelope.
func (c *Client) Activity(ctx context.Context, opts ActivityOpts) ([]models.ActivityPoint, error) {
	q := url.Values{}
	q.Set("step", string(opts.Step))
	q.Set("range", strconv.Itoa(opts.Range))
	q.Set("month", strconv.Itoa(opts.Month))
	q.Set("year", strconv.Itoa(opts.Year))
	q.Set("artist_id", strconv.FormatInt(opts.ArtistID, 10))
	q.Set("album_id", strconv.FormatInt(opts.AlbumID, 10))
	q.Set("track_id", strconv.FormatInt(opts.TrackID, 10))

	return getJSON[[]models.ActivityPoint](ctx, c, "listen-activity", "/listen-activity", q)
}
