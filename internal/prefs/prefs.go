// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package prefs stores small scoped UI preferences, such as the
// selected period on a stats view or whether a panel is expanded.
// A scope is a route or command path; within a scope, preferences are
// flat string key/value pairs. Values are strings on purpose: callers
// own their encoding and the store never interprets them.
package prefs

// Store is a scoped preference store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value for key within scope. The second return is
	// false when the preference is unset.
	Get(scope, key string) (string, bool)

	// Set stores value for key within scope, creating the scope as
	// needed.
	Set(scope, key, value string) error

	// Delete removes key from scope. Deleting an unset preference is
	// not an error.
	Delete(scope, key string) error
}
