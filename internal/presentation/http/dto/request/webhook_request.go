package request

import "encoding/json"

// WebhookIngestRequest represents a forwarded webhook. Only the key is
// interpreted; the whole document is stored as received.
type WebhookIngestRequest struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Source         string          `json:"source"`
	Payload        json.RawMessage `json:"payload"`
}
