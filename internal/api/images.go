// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// ImageSize selects a server-side rendition of an entity image.
type ImageSize string

const (
	ImageSizeSmall  ImageSize = "small"
	ImageSizeMedium ImageSize = "medium"
	ImageSizeLarge  ImageSize = "large"
)

// ImageURL returns the public URL of an entity image. An empty image id
// maps to the server's default placeholder.
func (c *Client) ImageURL(id string, size ImageSize) string {
	if id == "" {
		id = "default"
	}
	return fmt.Sprintf("%s/images/%s/%s", c.baseURL, size, id)
}

// ReplaceImageFromURL replaces an entity's image with one the server
// fetches from the given URL.
func (c *Client) ReplaceImageFromURL(ctx context.Context, kind ItemKind, id int64, imageURL string) (*http.Response, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField(string(kind)+"_id", strconv.FormatInt(id, 10)); err != nil {
		return nil, fmt.Errorf("failed to build replace-image form: %w", err)
	}
	if err := w.WriteField("image_url", imageURL); err != nil {
		return nil, fmt.Errorf("failed to build replace-image form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize replace-image form: %w", err)
	}

	return c.postMultipart(ctx, "replace-image", "/replace-image", w.FormDataContentType(), &body)
}

// ReplaceImageFromFile replaces an entity's image with uploaded binary
// data. filename is advisory; the server sniffs the content type.
func (c *Client) ReplaceImageFromFile(ctx context.Context, kind ItemKind, id int64, filename string, data io.Reader) (*http.Response, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField(string(kind)+"_id", strconv.FormatInt(id, 10)); err != nil {
		return nil, fmt.Errorf("failed to build replace-image form: %w", err)
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build replace-image form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize replace-image form: %w", err)
	}

	return c.postMultipart(ctx, "replace-image", "/replace-image", w.FormDataContentType(), &body)
}
