// errors.go - Fehler-Definitionen und HTTP-Status-Mapping
// Enthaelt: errNoInput, errUploadTooLarge, statusFromError()

package server

import (
	"errors"
	"net/http"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

var (
	// errNoInput wird zurueckgegeben wenn weder Datei noch image_url vorhanden ist
	errNoInput = errors.New("No image file or image_url provided")

	// errUploadTooLarge wird bei zu grossen Uploads zurueckgegeben
	errUploadTooLarge = errors.New("image exceeds upload limit")
)

// genericErrorMessage ersetzt Fehlertexte wenn errorDetail aus ist
const genericErrorMessage = "internal server error"

// statusFromError gibt HTTP-Status und Antworttext fuer einen Fehler zurueck.
func (s *Server) statusFromError(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, errNoInput), errors.Is(err, matcher.ErrInvalidURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errUploadTooLarge), errors.Is(err, catalog.ErrTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, errUploadTooLarge.Error()
	case errors.Is(err, vision.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, vision.ErrImageTooLarge.Error()
	}

	if !s.errorDetail {
		return http.StatusInternalServerError, genericErrorMessage
	}
	return http.StatusInternalServerError, err.Error()
}
