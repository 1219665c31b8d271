// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/melograph/melograph/internal/models"
)

// APIKeys lists the account's submission credentials. One of the three
// legacy endpoints returning a bare JSON array. The opaque key values
// are included; they are never regenerated in place.
func (c *Client) APIKeys(ctx context.Context) ([]models.APIKey, error) {
	return getJSON[[]models.APIKey](ctx, c, "apikeys", "/user/apikeys", nil)
}

// CreateAPIKey creates a new submission credential with the given
// label and returns it, including the secret key value.
//
// Unlike the other mutation bindings this one decodes its response:
// creation is the only time the caller can capture the key alongside
// the decoded error envelope on failure.
func (c *Client) CreateAPIKey(ctx context.Context, label string) (models.APIKey, error) {
	form := url.Values{}
	form.Set("label", label)

	resp, err := c.postForm(ctx, "create-apikey", "/user/apikeys", form)
	if err != nil {
		return models.APIKey{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if apiErr := ErrorFromResponse(resp); apiErr != nil {
		return models.APIKey{}, apiErr
	}

	var key models.APIKey
	if err := decodeBody(resp, &key); err != nil {
		return models.APIKey{}, err
	}
	return key, nil
}

// UpdateAPIKeyLabel renames a credential. The key value is untouched.
func (c *Client) UpdateAPIKeyLabel(ctx context.Context, id int64, label string) (*http.Response, error) {
	form := url.Values{}
	form.Set("id", strconv.FormatInt(id, 10))
	form.Set("label", label)
	return c.patchForm(ctx, "update-apikey", "/user/apikeys", form)
}

// DeleteAPIKey revokes a credential by id.
func (c *Client) DeleteAPIKey(ctx context.Context, id int64) (*http.Response, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	return c.deleteQuery(ctx, "delete-apikey", "/user/apikeys", q)
}
