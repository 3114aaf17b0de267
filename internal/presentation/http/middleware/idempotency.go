package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencyKeyContextKey = "idempotency_key"
)

// IdempotencyKey reads the Idempotency-Key header into the context. It does
// not require one: the idempotent routes also accept the key in the body.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		if err := service.ValidateKey(key); err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(idempotencyKeyContextKey, key)
		c.Next()
	}
}

// ResolveIdempotencyKey returns the header key when present, else bodyKey
func ResolveIdempotencyKey(c *gin.Context, bodyKey string) string {
	if key := c.GetString(idempotencyKeyContextKey); key != "" {
		return key
	}
	return bodyKey
}
