// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package models

import "time"

// Listen is an immutable playback event: one track at one timestamp.
//
// The server identifies a listen by the (track id, unix second) pair for
// deletion purposes. There is no surrogate listen id on the wire.
type Listen struct {
	Time  time.Time `json:"time"` // RFC3339 on the wire
	Track Track     `json:"track"`
}

// UnixSeconds returns the listen timestamp floored to whole seconds,
// matching the identity the server uses for deletion.
func (l Listen) UnixSeconds() int64 {
	return l.Time.Unix()
}

// ActivityPoint is one bucket of the listen activity series.
// The activity endpoint returns a bare array of these, not a
// paginated envelope.
type ActivityPoint struct {
	StartTime time.Time `json:"start_time"`
	Listens   int64     `json:"listens"`
}
