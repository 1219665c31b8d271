// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

// The failure message fallback chain, end to end through a read binding:
// envelope message when present and non-empty, status-embedded message
// otherwise. A failure must never be left without a readable message.
func TestErrorEnvelopeFallbackChain(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "envelope message used verbatim",
			status:      http.StatusBadRequest,
			body:        `{"error": "invalid period parameter"}`,
			wantMessage: "invalid period parameter",
		},
		{
			name:        "empty envelope message falls back to status",
			status:      http.StatusBadRequest,
			body:        `{"error": ""}`,
			wantMessage: "request failed (400)",
		},
		{
			name:        "missing error field falls back to status",
			status:      http.StatusInternalServerError,
			body:        `{"detail": "boom"}`,
			wantMessage: "request failed (500)",
		},
		{
			name:        "malformed JSON falls back to status",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "request failed (502)",
		},
		{
			name:        "empty body falls back to status",
			status:      http.StatusForbidden,
			body:        "",
			wantMessage: "request failed (403)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				jsonResponse(w, tt.status, tt.body)
			})

			_, err := client.Stats(context.Background(), PeriodWeek)
			if err == nil {
				t.Fatal("expected an error")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			checkStringEqual(t, "message", apiErr.Error(), tt.wantMessage)
			checkIntEqual(t, "status", apiErr.StatusCode, tt.status)
		})
	}
}

func TestErrorNeverEmptyMessage(t *testing.T) {
	err := &Error{StatusCode: 418}
	if err.Error() == "" {
		t.Fatal("Error() must never be empty")
	}
	if !strings.Contains(err.Error(), "418") {
		t.Errorf("fallback message should embed the status code, got %q", err.Error())
	}
}

func TestErrorFromResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusConflict, `{"error": "label already in use"}`)
	})

	resp, err := client.UpdateAPIKeyLabel(context.Background(), 3, "taken")
	checkNoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	apiErr := ErrorFromResponse(resp)
	if apiErr == nil {
		t.Fatal("expected a decoded error for 409")
	}
	checkStringEqual(t, "message", apiErr.Message, "label already in use")
	checkIntEqual(t, "status", apiErr.StatusCode, http.StatusConflict)
}

func TestErrorFromResponseSuccessIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := client.Logout(context.Background())
	checkNoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if apiErr := ErrorFromResponse(resp); apiErr != nil {
		t.Errorf("expected nil for 204, got %v", apiErr)
	}
}

// A 2xx response with an undecodable body is a parse failure, not an
// *Error.
func TestMalformedSuccessBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"listen_count": `)
	})

	_, err := client.Stats(context.Background(), PeriodDay)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("malformed 2xx body should not produce *Error, got %v", apiErr)
	}
}

// Transport failures (connection refused) propagate as wrapped network
// errors, never as *Error, and are not retried.
func TestTransportFailurePropagates(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Stats(context.Background(), PeriodDay)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not produce *Error, got %v", apiErr)
	}
}
