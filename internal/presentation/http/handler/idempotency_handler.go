package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
)

// IdempotencyHandler exposes stored idempotency records for inspection
type IdempotencyHandler struct {
	idempotencyService *service.IdempotencyService
}

// NewIdempotencyHandler creates a new idempotency handler
func NewIdempotencyHandler(idempotencyService *service.IdempotencyService) *IdempotencyHandler {
	return &IdempotencyHandler{idempotencyService: idempotencyService}
}

// Get returns the record stored under :key
func (h *IdempotencyHandler) Get(c *gin.Context) {
	rec, err := h.idempotencyService.Lookup(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if rec == nil {
		response.Error(c, apperror.NewNotFoundError("Idempotency key"))
		return
	}

	response.OK(c, "Idempotency key retrieved successfully", rec)
}
