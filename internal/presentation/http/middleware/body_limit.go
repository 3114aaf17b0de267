package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
)

// BodyLimitMiddleware rejects bodies larger than maxBytes with 413. Declared
// lengths are rejected up front; undeclared ones are cut off while reading.
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.Fail(c, apperror.ErrPayloadTooLarge)
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
