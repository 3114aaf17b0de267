package apperror

import (
	"errors"
	"net/http"
)

// Machine-readable error kinds returned in the "error" field of response bodies
const (
	KindMissingKey      = "missing_idempotency_key"
	KindValidation      = "validation_error"
	KindInvalidJSON     = "invalid_json"
	KindPayloadTooLarge = "payload_too_large"
	KindStorage         = "db_error"
	KindUnauthorized    = "unauthorized"
	KindNotFound        = "not_found"
	KindRateLimited     = "too_many_requests"
	KindServer          = "server_error"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *AppError) Unwrap() error {
	return e.cause
}

// Body renders the error as the JSON payload returned to (and cached for) a caller
func (e *AppError) Body() map[string]interface{} {
	body := map[string]interface{}{"error": e.Kind}
	if e.Message != "" {
		body["message"] = e.Message
	}
	if len(e.Errors) > 0 {
		body["messages"] = e.Errors
	}
	return body
}

// Common errors
var (
	ErrInvalidJSON           = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidJSON, Message: "Request body must be a JSON object"}
	ErrPayloadTooLarge       = &AppError{Code: http.StatusRequestEntityTooLarge, Kind: KindPayloadTooLarge, Message: "Request body exceeds the allowed size"}
	ErrMissingIdempotencyKey = &AppError{Code: http.StatusBadRequest, Kind: KindMissingKey, Message: "Idempotency key is required for this request"}
	ErrRateLimited           = &AppError{Code: http.StatusTooManyRequests, Kind: KindRateLimited, Message: "Rate limit exceeded. Please try again later."}
)

// NewAppError creates a new application error
func NewAppError(code int, kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewStorageError wraps a persistence fault
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStorage,
		Message: err.Error(),
		cause:   err,
	}
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindServer,
		Message: err.Error(),
		cause:   err,
	}
}
