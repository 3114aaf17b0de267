package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sangkips/supplier-intel-api/pkg/logger"
)

// Webhook ingest statuses
const (
	WebhookStatusAccepted  = "accepted"
	WebhookStatusDuplicate = "duplicate"
)

// WebhookService ingests forwarded webhook payloads. Unlike the other
// idempotent routes it records the acceptance directly instead of computing an
// outcome first: the raw payload is stored under the key for later inspection.
type WebhookService struct {
	idempotency *IdempotencyService
}

// NewWebhookService creates a new webhook service
func NewWebhookService(idempotency *IdempotencyService) *WebhookService {
	return &WebhookService{idempotency: idempotency}
}

// WebhookResult is the body returned to the caller
type WebhookResult struct {
	Status string `json:"status"`
}

// Ingest records payload under key. Without a key the payload is accepted but
// nothing is stored.
func (s *WebhookService) Ingest(ctx context.Context, key string, payload json.RawMessage) (int, *WebhookResult, error) {
	if key == "" {
		logger.From(ctx).Info("webhook accepted without idempotency key; not recorded")
		return http.StatusAccepted, &WebhookResult{Status: WebhookStatusAccepted}, nil
	}

	existing, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		return 0, nil, err
	}
	if existing != nil {
		return http.StatusOK, &WebhookResult{Status: WebhookStatusDuplicate}, nil
	}

	_, created, err := s.idempotency.Store(ctx, key, http.StatusAccepted, payload)
	if err != nil {
		return 0, nil, err
	}
	if !created {
		return http.StatusOK, &WebhookResult{Status: WebhookStatusDuplicate}, nil
	}

	return http.StatusAccepted, &WebhookResult{Status: WebhookStatusAccepted}, nil
}
