// Package api - Wire-Types des Product-Matchers
// Enthaelt: Match, MatchRequest, HealthResponse, ErrorResponse, StatusError
package api

import (
	"fmt"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the server logs for details"
	}
}

// MatchRequest is the JSON body of POST /api/match when no file is uploaded.
type MatchRequest struct {
	ImageURL string `json:"image_url"`
}

// Match is a single product in the response of POST /api/match.
type Match struct {
	ID       catalog.ID `json:"id"`
	Score    float32    `json:"score"`
	Name     string     `json:"name"`
	Image    string     `json:"image"`
	Category string     `json:"category"`
}

// HealthResponse is the response of GET /.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
