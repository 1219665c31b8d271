// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package models defines the wire data model returned by the scrobble
// server's web API.
//
// Every type in this package is a plain data record: the client never
// mutates entity shapes, it only transports and caches them. Field names
// and JSON tags follow the server's wire contract exactly.
//
// List endpoints return the PaginatedResponse envelope with three
// exceptions (aliases, API keys, and the listen activity series) that
// return bare JSON arrays. Both decode paths are kept distinct on
// purpose; see internal/api for the split.
package models
