package response

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/sangkips/supplier-intel-api/pkg/pagination"
)

// ReplayedHeader marks responses served from the idempotency store
const ReplayedHeader = "X-Idempotency-Replayed"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains metadata about the response
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// ReplayResponse wraps a stored outcome returned for a repeated key
type ReplayResponse struct {
	Idempotent     bool            `json:"idempotent"`
	CachedResponse json.RawMessage `json:"cached_response"`
}

// newMeta creates metadata for the response
func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

// Outcome writes the result of an idempotent operation. Fresh outcomes are
// written verbatim; replays are wrapped and flagged.
func Outcome(c *gin.Context, outcome *service.Outcome) {
	if outcome.Replayed {
		body := outcome.Body
		if len(body) == 0 {
			body = json.RawMessage("null")
		}
		c.Header(ReplayedHeader, "true")
		c.JSON(outcome.Status, ReplayResponse{Idempotent: true, CachedResponse: body})
		return
	}

	if len(outcome.Body) == 0 {
		c.Status(outcome.Status)
		return
	}
	c.Data(outcome.Status, "application/json; charset=utf-8", outcome.Body)
}

// Fail writes an error in the flat {"error": kind, "message": ...} shape used
// by the idempotent routes
func Fail(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, appErr.Body())
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithPagination sends a success response with pagination
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    result,
		Meta:    newMeta(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Meta:    newMeta(c),
	})
}

// OK sends a 200 OK response
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, 200, message, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, 400, message)
}
