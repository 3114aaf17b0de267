package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
)

var registerTagNames sync.Once

// RegisterValidatorTagNames makes validation errors report json field names
// instead of Go struct field names
func RegisterValidatorTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// jsonBody is a decoded request document
type jsonBody struct {
	// Raw is the document exactly as received
	Raw json.RawMessage
	// Key is the body-level idempotency_key, if any
	Key string
	// DecodeErr is a field type mismatch found while decoding into the
	// request struct. It is reported as a validation error from inside the
	// idempotent operation.
	DecodeErr error
}

// readJSONBody reads the request body, requires a non-empty JSON object and
// decodes it into dst
func readJSONBody(c *gin.Context, dst interface{}) (*jsonBody, error) {
	raw, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperror.ErrPayloadTooLarge
		}
		return nil, apperror.ErrInvalidJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil, apperror.ErrInvalidJSON
	}

	body := &jsonBody{Raw: raw}
	if k, ok := fields["idempotency_key"]; ok {
		// a non-string key is treated as absent
		_ = json.Unmarshal(k, &body.Key)
	}

	if dst != nil {
		if err := json.Unmarshal(raw, dst); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return nil, apperror.ErrInvalidJSON
			}
			body.DecodeErr = apperror.NewValidationError([]apperror.FieldError{{
				Field:   typeErr.Field,
				Message: "must be of type " + typeErr.Type.String(),
			}})
		}
	}
	return body, nil
}

// validate runs binding tag validation and converts failures into a
// validation AppError
func validate(obj interface{}) error {
	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidationError([]apperror.FieldError{{Message: err.Error()}})
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		})
	}
	return apperror.NewValidationError(fields)
}

// fieldPath drops the struct name from the namespace, e.g. images[0]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
