// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/metrics"
)

// apiPrefix is the path prefix of every web API endpoint.
const apiPrefix = "/apis/web/v1"

// Client provides access to a scrobble server's web API.
//
// Authentication is a session cookie set by Login and held in the
// client's cookie jar; no token is placed in headers. The underlying
// http.Client has no timeout: cancellation and deadlines are supplied
// per call through context.Context, and the client never retries.
//
// Thread Safety: safe for concurrent use. Each request is independent;
// the cookie jar is internally synchronized.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL (e.g.
// http://localhost:4110). A trailing slash on baseURL is ignored.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Jar: jar,
		},
	}, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint builds the absolute URL for an API path and query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do executes a prepared request, recording latency and outcome metrics
// under the given operation name. Network-level errors propagate to the
// caller wrapped but otherwise untouched; there are no retries.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(op, 0, time.Since(start))
		logging.Ctx(ctx).Debug().Str("operation", op).Err(err).Msg("api request failed before response")
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}

	metrics.ObserveAPIRequest(op, resp.StatusCode, time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("operation", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request completed")

	return resp, nil
}

// getJSON performs a GET and decodes the 2xx payload into T.
// Non-2xx responses become a *Error via the envelope fallback chain.
func getJSON[T any](ctx context.Context, c *Client, op, path string, query url.Values) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), http.NoBody)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return zero, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return zero, newError(resp.StatusCode, resp.Body)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return out, nil
}

// decodeBody decodes a 2xx response body into out.
func decodeBody(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// postForm performs a POST with a URL-encoded form body and returns the
// raw response. The caller owns the response body and status handling.
func (c *Client) postForm(ctx context.Context, op, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(ctx, op, req)
}

// patchForm performs a PATCH with a URL-encoded form body and returns
// the raw response.
func (c *Client) patchForm(ctx context.Context, op, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(ctx, op, req)
}

// postQuery performs a bodyless POST with query parameters and returns
// the raw response.
func (c *Client) postQuery(ctx context.Context, op, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	return c.do(ctx, op, req)
}

// deleteQuery performs a DELETE with query parameters and returns the
// raw response.
func (c *Client) deleteQuery(ctx context.Context, op, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(path, query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	return c.do(ctx, op, req)
}

// postMultipart performs a POST with a prepared multipart body and
// returns the raw response.
func (c *Client) postMultipart(ctx context.Context, op, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(ctx, op, req)
}
