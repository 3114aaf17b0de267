package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/pkg/metrics"
)

// MetricsMiddleware records RED metrics per route pattern
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// route pattern (e.g. /api/v1/products/:id) instead of raw path
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPDuration.WithLabelValues(path, c.Request.Method, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(path, c.Request.Method, status).Inc()
	}
}
