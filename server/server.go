// server.go - Server-Struktur und Aufbau aus der Umgebung
// Enthaelt: Server, New, NewFromEnvironment, Close

package server

import (
	"errors"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
)

// Server bedient die HTTP-Routen des Product-Matchers.
type Server struct {
	matcher *matcher.Matcher
	store   *store.Store
	metrics *Metrics

	// errorDetail gibt Fehlertexte in 500-Antworten zurueck
	errorDetail bool

	// maxUpload begrenzt den Request-Body (Bytes)
	maxUpload int64

	// origins sind die erlaubten CORS-Origins, leer = alle
	origins []string
}

// Options konfiguriert einen Server
type Options struct {
	ErrorDetail bool
	MaxUpload   int64
	Origins     []string
}

// New erstellt einen Server um einen bestehenden Matcher.
func New(m *matcher.Matcher, opts Options) *Server {
	return &Server{
		matcher:     m,
		metrics:     NewMetrics(),
		errorDetail: opts.ErrorDetail,
		maxUpload:   opts.MaxUpload,
		origins:     opts.Origins,
	}
}

// NewFromEnvironment erstellt Matcher und Server aus PRODMATCH_*.
func NewFromEnvironment() (*Server, error) {
	config, err := matcher.ConfigFromEnvironment(envconfig.Embeddings())
	if err != nil {
		return nil, err
	}

	s := New(matcher.New(config), Options{
		ErrorDetail: envconfig.ErrorDetail(true),
		MaxUpload:   int64(envconfig.MaxUpload()),
		Origins:     envconfig.AllowedOrigins(),
	})
	s.store = config.Store
	return s, nil
}

// Close gibt Encoder und Store frei
func (s *Server) Close() error {
	err := s.matcher.Close()
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	return err
}
