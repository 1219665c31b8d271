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

// topQuery renders the common top-list parameters without any entity
// filter; each endpoint applies its own filter rules on top.
func topQuery(opts ItemsOpts) url.Values {
	q := url.Values{}
	q.Set("period", string(opts.Period))
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("page", strconv.Itoa(opts.Page))
	return q
}

// TopTracks retrieves the most-listened tracks for a period.
//
// An artist filter takes precedence over an album filter; only one is
// ever sent.
func (c *Client) TopTracks(ctx context.Context, opts ItemsOpts) (models.PaginatedResponse[models.Track], error) {
	q := topQuery(opts)
	if opts.ArtistID != 0 {
		q.Set("artist_id", strconv.FormatInt(opts.ArtistID, 10))
	} else if opts.AlbumID != 0 {
		q.Set("album_id", strconv.FormatInt(opts.AlbumID, 10))
	}
	return getJSON[models.PaginatedResponse[models.Track]](ctx, c, "top-tracks", "/top-tracks", q)
}

// TopAlbums retrieves the most-listened albums for a period. The only
// accepted entity filter is an artist.
func (c *Client) TopAlbums(ctx context.Context, opts ItemsOpts) (models.PaginatedResponse[models.Album], error) {
	q := topQuery(opts)
	if opts.ArtistID != 0 {
		q.Set("artist_id", strconv.FormatInt(opts.ArtistID, 10))
	}
	return getJSON[models.PaginatedResponse[models.Album]](ctx, c, "top-albums", "/top-albums", q)
}

// TopArtists retrieves the most-listened artists for a period. No
// entity filters apply.
func (c *Client) TopArtists(ctx context.Context, opts ItemsOpts) (models.PaginatedResponse[models.Artist], error) {
	return getJSON[models.PaginatedResponse[models.Artist]](ctx, c, "top-artists", "/top-artists", topQuery(opts))
}
