// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import "fmt"

// Period is the server-defined time window used to scope aggregate
// queries.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodYear    Period = "year"
	PeriodAllTime Period = "all_time"
)

// Step is the bucket size of the listen activity series.
//
// The server also accepts "year" in addition to the day, week, and
// month buckets most views use.
type Step string

const (
	StepDay   Step = "day"
	StepWeek  Step = "week"
	StepMonth Step = "month"
	StepYear  Step = "year"
)

// GenreMetric selects how genre statistics are weighted.
type GenreMetric string

const (
	GenreMetricCount GenreMetric = "count" // by listen count
	GenreMetricTime  GenreMetric = "time"  // by seconds listened
)

// ItemKind identifies an addressable entity kind in paths and form
// fields (deletes, alias management, image replacement).
type ItemKind string

const (
	KindTrack  ItemKind = "track"
	KindAlbum  ItemKind = "album"
	KindArtist ItemKind = "artist"
)

// ParsePeriod validates a user-supplied period string.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAllTime:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day, week, month, year or all_time)", s)
	}
}

// ParseStep validates a user-supplied activity step string.
func ParseStep(s string) (Step, error) {
	switch st := Step(s); st {
	case StepDay, StepWeek, StepMonth, StepYear:
		return st, nil
	default:
		return "", fmt.Errorf("unknown step %q (want day, week, month or year)", s)
	}
}

// ParseGenreMetric validates a user-supplied genre metric string.
func ParseGenreMetric(s string) (GenreMetric, error) {
	switch m := GenreMetric(s); m {
	case GenreMetricCount, GenreMetricTime:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q (want count or time)", s)
	}
}

// ParseItemKind validates a user-supplied entity kind string.
func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(s); k {
	case KindTrack, KindAlbum, KindArtist:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want track, album or artist)", s)
	}
}
