package entity

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKeyStatusOr(t *testing.T) {
	rec := &IdempotencyKey{}
	assert.Equal(t, http.StatusOK, rec.StatusOr(http.StatusOK))

	status := http.StatusAccepted
	rec.ResponseStatus = &status
	assert.Equal(t, http.StatusAccepted, rec.StatusOr(http.StatusOK))
}
