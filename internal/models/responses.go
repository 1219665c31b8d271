// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package models

import "time"

// PaginatedResponse is the uniform envelope for list endpoints.
type PaginatedResponse[T any] struct {
	Items            []T   `json:"items"`
	TotalRecordCount int64 `json:"total_record_count"`
	HasNextPage      bool  `json:"has_next_page"`
	CurrentPage      int   `json:"current_page"`
	ItemsPerPage     int   `json:"items_per_page"`
}

// Stats holds the aggregate counts for a period.
type Stats struct {
	ListenCount     int64 `json:"listen_count"`
	TrackCount      int64 `json:"track_count"`
	AlbumCount      int64 `json:"album_count"`
	ArtistCount     int64 `json:"artist_count"`
	MinutesListened int64 `json:"minutes_listened"`
}

// SearchResponse groups free-text search results by entity kind.
// Search is not paginated; the server caps result size.
type SearchResponse struct {
	Albums  []Album  `json:"albums"`
	Artists []Artist `json:"artists"`
	Tracks  []Track  `json:"tracks"`
}

// GenreStat is one named value of the genre statistics breakdown.
type GenreStat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GenreStatsResponse wraps the genre breakdown for a period and metric.
type GenreStatsResponse struct {
	Stats []GenreStat `json:"stats"`
}

// NowPlaying reports the track currently being played, if any.
// Track is only meaningful when CurrentlyPlaying is true.
type NowPlaying struct {
	CurrentlyPlaying bool  `json:"currently_playing"`
	Track            Track `json:"track"`
}

// RecommendedTrack is a track suggestion with its prior listening context.
type RecommendedTrack struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Artists         []ArtistRef `json:"artists"`
	AlbumID         int64       `json:"album_id"`
	Image           string      `json:"image"`
	PastListenCount int64       `json:"past_listen_count"`
	LastListenedAt  time.Time   `json:"last_listened_at"`
}

// RecommendationsResponse wraps the recommended track list.
type RecommendationsResponse struct {
	Tracks []RecommendedTrack `json:"tracks"`
}
