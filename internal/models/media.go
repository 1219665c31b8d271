// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package models

// ArtistRef is the compact artist reference embedded in tracks and albums.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Track represents a single track with its aggregate listening statistics.
type Track struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Artists       []ArtistRef `json:"artists"`
	ListenCount   int64       `json:"listen_count"`
	Image         string      `json:"image"`
	AlbumID       int64       `json:"album_id"`
	MusicBrainzID string      `json:"musicbrainz_id"`
	TimeListened  int64       `json:"time_listened"` // total seconds listened
	FirstListen   int64       `json:"first_listen"`  // unix seconds
}

// Artist represents an artist with alias and aggregate listening data.
type Artist struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Aliases       []string `json:"aliases"`
	ListenCount   int64    `json:"listen_count"`
	MusicBrainzID string   `json:"musicbrainz_id"`
	TimeListened  int64    `json:"time_listened"`
	FirstListen   int64    `json:"first_listen"`
	IsPrimary     bool     `json:"is_primary"`
}

// Album represents an album with its artist list and aggregate listening data.
type Album struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Image            string      `json:"image"`
	ListenCount      int64       `json:"listen_count"`
	IsVariousArtists bool        `json:"is_various_artists"`
	Artists          []ArtistRef `json:"artists"`
	MusicBrainzID    string      `json:"musicbrainz_id"`
	TimeListened     int64       `json:"time_listened"`
	FirstListen      int64       `json:"first_listen"`
}
