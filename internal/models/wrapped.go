// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package models

// WrappedTrack is the compact track shape used inside the yearly summary.
type WrappedTrack struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Artists     []ArtistRef `json:"artists"`
	Image       string      `json:"image"`
	ListenCount int64       `json:"listen_count"`
}

// WrappedArtist is the compact artist shape used inside the yearly summary.
type WrappedArtist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	ListenCount int64  `json:"listen_count"`
}

// WrappedAlbum is the compact album shape used inside the yearly summary.
type WrappedAlbum struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	ListenCount int64  `json:"listen_count"`
}

// TrackStreak is the longest consecutive-replay run of a single track.
type TrackStreak struct {
	Track       WrappedTrack `json:"track"`
	StreakCount int64        `json:"streak_count"`
}

// HourDistribution is one bucket of the hour-of-day listening histogram.
type HourDistribution struct {
	Hour        int   `json:"hour"`
	ListenCount int64 `json:"listen_count"`
}

// WeekStats identifies the busiest listening week of the year.
type WeekStats struct {
	WeekStart   string `json:"week_start"`
	ListenCount int64  `json:"listen_count"`
}

// WrappedStats is the read-only yearly "year in review" aggregate,
// keyed by year. MostReplayedTrack and BusiestWeek are null when the
// year holds no qualifying data.
type WrappedStats struct {
	Year                 int                `json:"year"`
	TotalListens         int64              `json:"total_listens"`
	TotalSecondsListened int64              `json:"total_seconds_listened"`
	UniqueArtists        int64              `json:"unique_artists"`
	UniqueTracks         int64              `json:"unique_tracks"`
	UniqueAlbums         int64              `json:"unique_albums"`
	TopTracks            []WrappedTrack     `json:"top_tracks"`
	TopArtists           []WrappedArtist    `json:"top_artists"`
	TopAlbums            []WrappedAlbum     `json:"top_albums"`
	TopNewArtists        []WrappedArtist    `json:"top_new_artists"`
	MostReplayedTrack    *TrackStreak       `json:"most_replayed_track"`
	ListeningHours       []HourDistribution `json:"listening_hours"`
	BusiestWeek          *WeekStats         `json:"busiest_week"`
	ArtistConcentration  float64            `json:"artist_concentration"`
	TrackConcentration   float64            `json:"track_concentration"`
}
