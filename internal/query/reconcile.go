// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package query

import (
	"github.com/samber/lo"

	"github.com/melograph/melograph/internal/models"
)

// Reconciliation helpers patch cached values in place after a mutation
// succeeds, so the UI reflects the change without waiting for a
// refetch. They are plain functions over the cached shapes, applied
// through Cache.Update / Cache.UpdateOp. All are idempotent: applying
// one twice yields the same result.

// SetPrimaryAlias marks the alias with the given text primary and
// clears the flag on every other alias.
func SetPrimaryAlias(aliases []models.Alias, alias string) []models.Alias {
	return lo.Map(aliases, func(a models.Alias, _ int) models.Alias {
		a.IsPrimary = a.Alias == alias
		return a
	})
}

// RemoveAlias drops the alias with the given text.
func RemoveAlias(aliases []models.Alias, alias string) []models.Alias {
	return lo.Reject(aliases, func(a models.Alias, _ int) bool {
		return a.Alias == alias
	})
}

// AddAlias appends a non-primary alias unless the text is already
// present.
func AddAlias(aliases []models.Alias, alias, source string) []models.Alias {
	exists := lo.ContainsBy(aliases, func(a models.Alias) bool {
		return a.Alias == alias
	})
	if exists {
		return aliases
	}
	return append(aliases, models.Alias{Alias: alias, Source: source})
}

// RemoveListen drops the listen identified by its timestamp from a
// cached page. Listens are identified by their time field; the
// enclosing page is for a single context so the timestamp alone is
// the identity.
func RemoveListen(page models.PaginatedResponse[models.Listen], unix int64) models.PaginatedResponse[models.Listen] {
	before := len(page.Items)
	page.Items = lo.Reject(page.Items, func(l models.Listen, _ int) bool {
		return l.UnixSeconds() == unix
	})
	page.TotalRecordCount -= int64(before - len(page.Items))
	return page
}

// DropTrack removes the track with the given id from a search result,
// after the track was deleted or merged away.
func DropTrack(res models.SearchResponse, id int64) models.SearchResponse {
	res.Tracks = lo.Reject(res.Tracks, func(t models.Track, _ int) bool {
		return t.ID == id
	})
	return res
}

// DropAlbum removes the album with the given id from a search result.
func DropAlbum(res models.SearchResponse, id int64) models.SearchResponse {
	res.Albums = lo.Reject(res.Albums, func(a models.Album, _ int) bool {
		return a.ID == id
	})
	return res
}

// DropArtist removes the artist with the given id from a search result.
func DropArtist(res models.SearchResponse, id int64) models.SearchResponse {
	res.Artists = lo.Reject(res.Artists, func(a models.Artist, _ int) bool {
		return a.ID == id
	})
	return res
}

// RenameAPIKey updates the label of the key with the given id.
func RenameAPIKey(keys []models.APIKey, id int64, label string) []models.APIKey {
	return lo.Map(keys, func(k models.APIKey, _ int) models.APIKey {
		if k.ID == id {
			k.Label = label
		}
		return k
	})
}

// RemoveAPIKey drops the key with the given id.
func RemoveAPIKey(keys []models.APIKey, id int64) []models.APIKey {
	return lo.Reject(keys, func(k models.APIKey, _ int) bool {
		return k.ID == id
	})
}

// AddAPIKey appends a freshly created key unless its id is already
// present.
func AddAPIKey(keys []models.APIKey, key models.APIKey) []models.APIKey {
	exists := lo.ContainsBy(keys, func(k models.APIKey) bool {
		return k.ID == key.ID
	})
	if exists {
		return keys
	}
	return append(keys, key)
}
