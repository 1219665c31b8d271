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

	"github.com/melograph/melograph/internal/models"
)

// Search performs a free-text search across albums, artists, and
// tracks. Results are not paginated; the server caps result size.
func (c *Client) Search(ctx context.Context, query string) (models.SearchResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	return getJSON[models.SearchResponse](ctx, c, "search", "/search", q)
}

// Album retrieves a single album by id.
func (c *Client) Album(ctx context.Context, id int64) (models.Album, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	return getJSON[models.Album](ctx, c, "album", "/album", q)
}

// DeleteItem removes a track, album, or artist outright. Destructive;
// the UI requires a second confirming interaction before dispatch.
func (c *Client) DeleteItem(ctx context.Context, kind ItemKind, id int64) (*http.Response, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	return c.deleteQuery(ctx, "delete-"+string(kind), "/"+string(kind), q)
}
