// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/melograph/melograph/internal/models"
)

// ItemsOpts are the shared parameters of the paginated list endpoints.
//
// The entity filters are optional; a zero ID means "no filter". The
// server treats multiple filters as further narrowing.
type ItemsOpts struct {
	Period Period
	Limit  int
	Page   int

	ArtistID int64
	AlbumID  int64
	TrackID  int64
}

// query renders the common parameters plus any requested entity filters.
func (o ItemsOpts) query() url.Values {
	q := url.Values{}
	q.Set("period", string(o.Period))
	q.Set("limit", strconv.Itoa(o.Limit))
	q.Set("page", strconv.Itoa(o.Page))
	if o.ArtistID != 0 {
		q.Set("artist_id", strconv.FormatInt(o.ArtistID, 10))
	}
	if o.AlbumID != 0 {
		q.Set("album_id", strconv.FormatInt(o.AlbumID, 10))
	}
	if o.TrackID != 0 {
		q.Set("track_id", strconv.FormatInt(o.TrackID, 10))
	}
	return q
}

// Listens retrieves the listen history, newest first, scoped by period
// and optionally narrowed to an artist, album, or track.
func (c *Client) Listens(ctx context.Context, opts ItemsOpts) (models.PaginatedResponse[models.Listen], error) {
	return getJSON[models.PaginatedResponse[models.Listen]](ctx, c, "listens", "/listens", opts.query())
}

// SubmitListen records a manual listen of a track at the given time.
// The timestamp is sent floored to whole unix seconds.
//
// The caller interprets the raw response; see ErrorFromResponse.
func (c *Client) SubmitListen(ctx context.Context, trackID int64, ts time.Time) (*http.Response, error) {
	form := url.Values{}
	form.Set("track_id", strconv.FormatInt(trackID, 10))
	form.Set("unix", strconv.FormatInt(ts.Unix(), 10))
	return c.postForm(ctx, "submit-listen", "/listen", form)
}

// DeleteListen removes a listen. Identity on the wire is the
// (track_id, unix second) pair derived from the listen's time field;
// there is no surrogate listen id.
func (c *Client) DeleteListen(ctx context.Context, listen models.Listen) (*http.Response, error) {
	q := url.Values{}
	q.Set("track_id", strconv.FormatInt(listen.Track.ID, 10))
	q.Set("unix", strconv.FormatInt(listen.UnixSeconds(), 10))
	return c.deleteQuery(ctx, "delete-listen", "/listen", q)
}
