package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
)

// WorkflowTokenHeader carries the shared secret for workflow and admin routes
const WorkflowTokenHeader = "X-Workflow-Token"

// TokenAuthMiddleware rejects requests whose X-Workflow-Token does not match
// expected. An empty expected token disables the check.
func TokenAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		token := c.GetHeader(WorkflowTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			response.Fail(c, apperror.NewAppError(401, apperror.KindUnauthorized, "Invalid or missing "+WorkflowTokenHeader+" header"))
			c.Abort()
			return
		}

		c.Next()
	}
}
