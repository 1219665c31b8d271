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

// Aliases lists the aliases of an artist or album. One of the three
// legacy endpoints returning a bare JSON array.
func (c *Client) Aliases(ctx context.Context, kind ItemKind, id int64) ([]models.Alias, error) {
	q := url.Values{}
	q.Set(string(kind)+"_id", strconv.FormatInt(id, 10))
	return getJSON[[]models.Alias](ctx, c, "aliases", "/aliases", q)
}

// aliasForm renders the entity reference and alias text shared by the
// alias mutation endpoints. Aliases are addressed by their text, not
// their id; alias text is assumed unique within an entity's alias set.
func aliasForm(kind ItemKind, id int64, alias string) url.Values {
	form := url.Values{}
	form.Set(string(kind)+"_id", strconv.FormatInt(id, 10))
	form.Set("alias", alias)
	return form
}

// CreateAlias attaches a new alias to an artist or album.
func (c *Client) CreateAlias(ctx context.Context, kind ItemKind, id int64, alias string) (*http.Response, error) {
	return c.postForm(ctx, "create-alias", "/aliases", aliasForm(kind, id, alias))
}

// DeleteAlias removes an alias, addressed by its text.
func (c *Client) DeleteAlias(ctx context.Context, kind ItemKind, id int64, alias string) (*http.Response, error) {
	return c.postForm(ctx, "delete-alias", "/aliases/delete", aliasForm(kind, id, alias))
}

// SetPrimaryAlias makes the named alias the entity's canonical display
// name. Exactly one alias per entity is primary at any time; callers
// reconcile cached siblings optimistically (see internal/query).
func (c *Client) SetPrimaryAlias(ctx context.Context, kind ItemKind, id int64, alias string) (*http.Response, error) {
	return c.postForm(ctx, "set-primary-alias", "/aliases/primary", aliasForm(kind, id, alias))
}
