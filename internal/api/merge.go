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
)

// mergeQuery renders the from/to pair shared by all merge endpoints.
func mergeQuery(fromID, toID int64) url.Values {
	q := url.Values{}
	q.Set("from_id", strconv.FormatInt(fromID, 10))
	q.Set("to_id", strconv.FormatInt(toID, 10))
	return q
}

// MergeTracks reassigns all listens of the "from" track to the "to"
// track, then removes the "from" track server-side. Destructive.
func (c *Client) MergeTracks(ctx context.Context, fromID, toID int64) (*http.Response, error) {
	return c.postQuery(ctx, "merge-tracks", "/merge/tracks", mergeQuery(fromID, toID))
}

// MergeAlbums merges one album into another. When replaceImage is set
// the target adopts the source's image.
func (c *Client) MergeAlbums(ctx context.Context, fromID, toID int64, replaceImage bool) (*http.Response, error) {
	q := mergeQuery(fromID, toID)
	q.Set("replace_image", strconv.FormatBool(replaceImage))
	return c.postQuery(ctx, "merge-albums", "/merge/albums", q)
}

// MergeArtists merges one artist into another. When replaceImage is set
// the target adopts the source's image.
func (c *Client) MergeArtists(ctx context.Context, fromID, toID int64, replaceImage bool) (*http.Response, error) {
	q := mergeQuery(fromID, toID)
	q.Set("replace_image", strconv.FormatBool(replaceImage))
	return c.postQuery(ctx, "merge-artists", "/merge/artists", q)
}
