// routes_match.go - POST /api/match
// Enthaelt: MatchHandler(), Auswertung von Upload bzw. image_url

package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/api"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
)

// MatchHandler gleicht ein hochgeladenes Bild (Feld "image") oder
// eine image_url gegen den Katalog ab.
func (s *Server) MatchHandler(c *gin.Context) {
	start := time.Now()
	logger := requestLogger(c)

	if s.maxUpload > 0 {
		// Multipart-Overhead zusaetzlich zum Bild erlauben
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+1<<20)
	}

	result, err := s.match(c)
	if err != nil {
		status, msg := s.statusFromError(err)
		s.metrics.ObserveRequest(outcomeFor(status))
		if status >= http.StatusInternalServerError {
			logger.Error("match failed", "error", err)
		} else {
			logger.Debug("match rejected", "status", status, "error", err)
		}
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	s.metrics.ObserveMatch(time.Since(start), result)
	logger.Debug("match completed", "matches", len(result.Matches), "scanned", result.Scanned, "skipped", result.Skipped, "duration", time.Since(start))

	c.JSON(http.StatusOK, toAPIMatches(result.Matches))
}

func (s *Server) match(c *gin.Context) (*matcher.Result, error) {
	ctx := c.Request.Context()

	var maxBytesErr *http.MaxBytesError

	fh, err := c.FormFile("image")
	if errors.As(err, &maxBytesErr) {
		return nil, err
	}

	if err == nil {
		if s.maxUpload > 0 && fh.Size > s.maxUpload {
			return nil, errUploadTooLarge
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}

		return s.matcher.MatchImage(ctx, data)
	}

	// Ein nicht lesbarer Body zaehlt als leeres Objekt, ein zu grosser nicht
	var req api.MatchRequest
	if err := c.ShouldBindJSON(&req); errors.As(err, &maxBytesErr) {
		return nil, err
	}

	if req.ImageURL == "" {
		return nil, errNoInput
	}

	return s.matcher.MatchURL(ctx, req.ImageURL)
}

func toAPIMatches(matches []matcher.Match) []api.Match {
	out := make([]api.Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, api.Match{
			ID:       m.Product.ID,
			Score:    m.Score,
			Name:     m.Product.Name,
			Image:    m.Product.ImageRef(),
			Category: m.Product.Category,
		})
	}
	return out
}
