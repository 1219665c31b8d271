// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"net/http"
	"testing"
)

const emptyPage = `{"items": [], "total_record_count": 0, "has_next_page": false, "current_page": 1, "items_per_page": 10}`

// Filter rules differ per top endpoint: tracks prefer artist over
// album, albums accept only artist, artists accept neither.
func TestTopTracksFilterPrecedence(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/apis/web/v1/top-tracks")
		checkStringEqual(t, "artist_id", r.URL.Query().Get("artist_id"), "7")
		checkTrue(t, "album_id absent", !r.URL.Query().Has("album_id"))
		jsonResponse(w, http.StatusOK, emptyPage)
	})

	_, err := client.TopTracks(context.Background(), ItemsOpts{
		Period: PeriodMonth, Limit: 10, Page: 1, ArtistID: 7, AlbumID: 9,
	})
	checkNoError(t, err)
}

func TestTopTracksAlbumFilterWithoutArtist(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "album_id", r.URL.Query().Get("album_id"), "9")
		checkTrue(t, "artist_id absent", !r.URL.Query().Has("artist_id"))
		jsonResponse(w, http.StatusOK, emptyPage)
	})

	_, err := client.TopTracks(context.Background(), ItemsOpts{
		Period: PeriodMonth, Limit: 10, Page: 1, AlbumID: 9,
	})
	checkNoError(t, err)
}

func TestTopAlbumsIgnoresAlbumFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/apis/web/v1/top-albums")
		checkStringEqual(t, "artist_id", r.URL.Query().Get("artist_id"), "7")
		checkTrue(t, "album_id absent", !r.URL.Query().Has("album_id"))
		jsonResponse(w, http.StatusOK, emptyPage)
	})

	_, err := client.TopAlbums(context.Background(), ItemsOpts{
		Period: PeriodYear, Limit: 24, Page: 1, ArtistID: 7, AlbumID: 9,
	})
	checkNoError(t, err)
}

func TestTopArtistsNoFilters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/apis/web/v1/top-artists")
		checkTrue(t, "artist_id absent", !r.URL.Query().Has("artist_id"))
		checkTrue(t, "album_id absent", !r.URL.Query().Has("album_id"))
		checkStringEqual(t, "period", r.URL.Query().Get("period"), "all_time")
		jsonResponse(w, http.StatusOK, emptyPage)
	})

	_, err := client.TopArtists(context.Background(), ItemsOpts{
		Period: PeriodAllTime, Limit: 50, Page: 2, ArtistID: 7, AlbumID: 9,
	})
	checkNoError(t, err)
}

func TestTopTracksDecodesItems(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{
			"items": [
				{"id": 1, "title": "One", "listen_count": 30, "artists": [{"id": 5, "name": "A"}]},
				{"id": 2, "title": "Two", "listen_count": 21}
			],
			"total_record_count": 2, "has_next_page": false, "current_page": 1, "items_per_page": 10
		}`)
	})

	page, err := client.TopTracks(context.Background(), ItemsOpts{Period: PeriodWeek, Limit: 10, Page: 1})
	checkNoError(t, err)
	checkIntEqual(t, "items", len(page.Items), 2)
	checkStringEqual(t, "first title", page.Items[0].Title, "One")
	checkInt64Equal(t, "first listen_count", page.Items[0].ListenCount, 30)
	checkStringEqual(t, "first artist", page.Items[0].Artists[0].Name, "A")
}
