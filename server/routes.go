// routes.go - Router-Konfiguration
// Enthaelt: GenerateRoutes(), Health-Handler

package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/api"
)

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
		requestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	if len(s.origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowWildcard = true
		corsConfig.AllowOrigins = s.origins
	}

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false
	if s.maxUpload > 0 {
		r.MaxMultipartMemory = s.maxUpload
	}
	r.Use(
		cors.New(corsConfig),
		requestIDMiddleware(),
	)

	// General
	r.HEAD("/", s.HealthHandler)
	r.GET("/", s.HealthHandler)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Matching
	r.POST("/api/match", s.MatchHandler)
	r.POST("/api/match/", s.MatchHandler)

	return r
}

// HealthHandler verarbeitet GET / und HEAD /
func (s *Server) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}
