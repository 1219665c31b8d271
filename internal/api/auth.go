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

// Me returns the account bound to the session cookie. A 401 *Error
// means no one is signed in.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	return getJSON[models.User](ctx, c, "me", "/user/me", nil)
}

// Login authenticates with the server. On success the server sets an
// opaque session cookie that the client's jar carries on all subsequent
// requests; no token is placed in headers.
func (c *Client) Login(ctx context.Context, username, password string, remember bool) (*http.Response, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("remember_me", strconv.FormatBool(remember))
	return c.postForm(ctx, "login", "/login", form)
}

// Logout clears the server-side session; the server expires the cookie.
func (c *Client) Logout(ctx context.Context) (*http.Response, error) {
	return c.postQuery(ctx, "logout", "/logout", nil)
}

// UpdateUser changes the account's username and/or password.
func (c *Client) UpdateUser(ctx context.Context, username, password string) (*http.Response, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return c.patchForm(ctx, "update-user", "/user", form)
}
