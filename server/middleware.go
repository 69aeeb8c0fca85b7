// middleware.go - Request-ID Middleware
// Enthaelt: requestIDMiddleware(), requestLogger()

package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware uebernimmt X-Request-ID oder erzeugt eine neue ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger gibt einen Logger mit der Request-ID zurueck
func requestLogger(c *gin.Context) *slog.Logger {
	return slog.Default().With(requestIDKey, c.GetString(requestIDKey))
}
