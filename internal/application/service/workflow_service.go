package service

import (
	"context"
	"net/http"

	"github.com/sangkips/supplier-intel-api/pkg/callback"
	"github.com/sangkips/supplier-intel-api/pkg/logger"
	"github.com/sangkips/supplier-intel-api/pkg/metrics"
)

// Workflow result statuses
const (
	WorkflowStatusQueued         = "queued"
	WorkflowStatusCallbackSent   = "callback_sent"
	WorkflowStatusCallbackFailed = "callback_failed"
)

// CallbackPoster delivers a workflow trigger to an external callback URL
type CallbackPoster interface {
	Post(ctx context.Context, url string, payload interface{}) (*callback.Response, error)
}

// WorkflowService triggers named workflows
type WorkflowService struct {
	callbacks CallbackPoster
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(callbacks CallbackPoster) *WorkflowService {
	return &WorkflowService{callbacks: callbacks}
}

// RunWorkflowInput represents the run workflow input
type RunWorkflowInput struct {
	WorkflowName string
	Payload      map[string]interface{}
	CallbackURL  string
}

// WorkflowResult is the body returned to (and cached for) the caller
type WorkflowResult struct {
	Status         string `json:"status"`
	WorkflowName   string `json:"workflow_name,omitempty"`
	CallbackStatus int    `json:"callback_status,omitempty"`
	Error          string `json:"error,omitempty"`
}

// callbackRequest is the JSON posted to the callback URL
type callbackRequest struct {
	WorkflowName string                 `json:"workflow_name"`
	Payload      map[string]interface{} `json:"payload"`
}

// RunWorkflow calls the callback URL synchronously when one is given and
// mirrors its status; without one the workflow is acknowledged as queued.
// Nothing is actually enqueued.
func (s *WorkflowService) RunWorkflow(ctx context.Context, input *RunWorkflowInput) (int, *WorkflowResult) {
	if input.CallbackURL == "" {
		return http.StatusAccepted, &WorkflowResult{
			Status:       WorkflowStatusQueued,
			WorkflowName: input.WorkflowName,
		}
	}

	payload := input.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}

	resp, err := s.callbacks.Post(ctx, input.CallbackURL, callbackRequest{
		WorkflowName: input.WorkflowName,
		Payload:      payload,
	})
	if err != nil {
		metrics.CallbackRequests.WithLabelValues("failed").Inc()
		logger.From(ctx).Warn("workflow callback failed",
			"workflow", input.WorkflowName, "callback_url", input.CallbackURL, "error", err)
		return http.StatusInternalServerError, &WorkflowResult{
			Status: WorkflowStatusCallbackFailed,
			Error:  err.Error(),
		}
	}

	metrics.CallbackRequests.WithLabelValues("sent").Inc()
	return resp.StatusCode, &WorkflowResult{
		Status:         WorkflowStatusCallbackSent,
		WorkflowName:   input.WorkflowName,
		CallbackStatus: resp.StatusCode,
	}
}
