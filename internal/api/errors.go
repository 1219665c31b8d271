// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// maxErrorBodySize limits how much of a response body is read for error
// reporting, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Error is a decoded API failure: a non-2xx response reduced to the
// server's error message and the HTTP status code.
//
// The message fallback chain guarantees Error() never returns an empty
// string: the envelope's error field when present and non-empty,
// otherwise a message embedding the numeric status code.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return statusMessage(e.StatusCode)
}

// statusMessage synthesizes the fallback failure message for a status code.
func statusMessage(status int) string {
	return fmt.Sprintf("request failed (%d)", status)
}

// errorEnvelope is the server's uniform JSON error body.
type errorEnvelope struct {
	Error string `json:"error"`
}

// newError builds an *Error from a non-2xx response body.
//
// It attempts to decode the { "error": string } envelope; a missing,
// empty, or malformed body falls back to the status-embedded message.
func newError(status int, body io.Reader) *Error {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return &Error{StatusCode: status, Message: statusMessage(status)}
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error == "" {
		return &Error{StatusCode: status, Message: statusMessage(status)}
	}

	return &Error{StatusCode: status, Message: envelope.Error}
}

// ErrorFromResponse inspects a raw mutation response and returns a
// decoded *Error for non-2xx statuses, or nil on success.
//
// The response body is consumed when an error is produced; callers still
// own closing the body either way.
func ErrorFromResponse(resp *http.Response) *Error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	return newError(resp.StatusCode, resp.Body)
}
