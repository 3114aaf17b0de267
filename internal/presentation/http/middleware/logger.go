package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/pkg/logger"
)

// LoggerMiddleware creates a structured logging middleware
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID if not present
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log := logger.From(c.Request.Context()).With(
			"request_id", requestID,
			"method", c.Request.Method,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"path", path,
		)
		if c.Writer.Header().Get("X-Idempotency-Replayed") == "true" {
			log = log.With("replayed", true)
		}
		log.Info("request")

		for _, e := range c.Errors {
			log.Error("request error", "error", e.Err)
		}
	}
}
