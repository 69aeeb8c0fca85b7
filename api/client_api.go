// Package api - API-Methoden des Clients.

package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// Health returns the status reported by GET /.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat checks if the server has started and is responsive; if yes, it
// returns nil, otherwise an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodHead, "/", nil, nil)
}

// MatchURL asks the server to match the image behind url.
func (c *Client) MatchURL(ctx context.Context, url string) ([]Match, error) {
	var matches []Match
	if err := c.do(ctx, http.MethodPost, "/api/match", &MatchRequest{ImageURL: url}, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// MatchImage uploads an image as the multipart field "image".
func (c *Client) MatchImage(ctx context.Context, filename string, r io.Reader) ([]Match, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var matches []Match
	if err := c.do(ctx, http.MethodPost, "/api/match", formBody{body: &buf, contentType: w.FormDataContentType()}, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
