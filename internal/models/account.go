// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package models

import "time"

// Role is the server-side permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the authenticated account as reported by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user may perform administrative operations
// (merges, image replacement, alias management).
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// APIKey is a server-issued submission credential.
//
// The opaque Key value is returned at creation and on list; it is never
// regenerated in place. Only the label is mutable, via a separate update.
type APIKey struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Alias is an alternative display name attached to an artist or album.
//
// Exactly one alias per entity carries IsPrimary at any time. The server
// addresses aliases by their text for delete and set-primary operations,
// not by ID, so alias text is assumed unique within an entity's alias set.
type Alias struct {
	ID        int64  `json:"id"`
	Alias     string `json:"alias"`
	Source    string `json:"source"` // e.g. "Manual" vs an importer name
	IsPrimary bool   `json:"is_primary"`
}

// ServerConfig is the server-supplied client bootstrap configuration,
// fetched before first render to drive the initial theme.
type ServerConfig struct {
	DefaultTheme string `json:"default_theme"`
}
