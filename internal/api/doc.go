// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package api implements the transport layer and typed endpoint bindings
// for the scrobble server's web API under /apis/web/v1/.
//
// The package splits endpoints into two deliberate calling conventions:
//
//   - Read bindings decode the JSON payload into a typed shape and return
//     (T, error). A non-2xx response becomes a *Error whose message comes
//     from the server's { "error": string } envelope when available.
//   - Mutation bindings return the raw *http.Response and let the caller
//     inspect the status code, typically via ErrorFromResponse. UI code
//     depends on seeing the status itself (optimistic list removal only
//     on success), so the asymmetry is part of the contract.
//
// Successful payloads are decoded without runtime schema validation: the
// bindings trust the server. That is an explicit non-goal, not an
// oversight.
//
// The transport performs no retries and sets no client-side timeout.
// Cancellation is the caller's job via context.Context; network-level
// errors propagate wrapped and unmodified in meaning.
package api
