package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// probePaths are only logged in debug mode.
var probePaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs each HTTP request with method, path, status, latency and the
// reviewer. Health probes are skipped unless debug is set.
func Logger(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if !debug && probePaths[c.Request.URL.Path] {
			return
		}
		latency := time.Since(start)

		requestID, _ := c.Get("request_id")
		reviewer, _ := c.Get(ContextKeyReviewer)
		log.Printf("[%s] %s %s %d %s %v",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency,
			reviewer,
		)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
