package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/request"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/middleware"
)

// WebhookHandler handles forwarded webhooks
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Ingest records a webhook delivery once per key and reports later
// deliveries with the same key as duplicates
func (h *WebhookHandler) Ingest(c *gin.Context) {
	var req request.WebhookIngestRequest
	body, err := readJSONBody(c, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	key := middleware.ResolveIdempotencyKey(c, body.Key)
	if key != "" {
		if err := service.ValidateKey(key); err != nil {
			response.Fail(c, err)
			return
		}
	}

	status, result, err := h.webhookService.Ingest(c.Request.Context(), key, body.Raw)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(status, result)
}
