// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package query is the boundary between consumers and the endpoint
// bindings: a keyed request cache with deduplication, background
// refetch, and targeted invalidation.
//
// Consumers issue intents (Fetch, Invalidate) and read snapshots; all
// cache mutation happens inside the boundary under its lock. Entries
// move idle -> pending -> resolved | failed. Concurrent fetches of one
// key attach to the single in-flight request. Invalidation marks
// entries stale; a stale resolved entry keeps serving its held value
// while a background refetch runs (stale-while-revalidate).
//
// Failures are cached so repeated snapshot reads don't re-trigger
// request storms, but an explicit Fetch on a failed key always retries.
//
// The cache is pure in-memory, process-lifetime state bounded by an LRU
// list with TTL. Nothing persists across restarts.
package query
