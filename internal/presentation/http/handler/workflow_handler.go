package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/request"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/middleware"
)

// WorkflowHandler handles workflow trigger requests
type WorkflowHandler struct {
	workflowService    *service.WorkflowService
	idempotencyService *service.IdempotencyService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowService *service.WorkflowService, idempotencyService *service.IdempotencyService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService:    workflowService,
		idempotencyService: idempotencyService,
	}
}

// Run triggers a workflow at most once per idempotency key. The token check
// happens in middleware before this handler, so rejected calls are never
// recorded.
func (h *WorkflowHandler) Run(c *gin.Context) {
	var req request.RunWorkflowRequest
	body, err := readJSONBody(c, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	key := middleware.ResolveIdempotencyKey(c, body.Key)
	if err := service.ValidateKey(key); err != nil {
		response.Fail(c, err)
		return
	}

	outcome, err := h.idempotencyService.Execute(c.Request.Context(), "workflow_run", key,
		func(ctx context.Context) (int, interface{}, error) {
			if body.DecodeErr != nil {
				return 0, nil, body.DecodeErr
			}
			if err := validate(&req); err != nil {
				return 0, nil, err
			}

			status, result := h.workflowService.RunWorkflow(ctx, &service.RunWorkflowInput{
				WorkflowName: req.WorkflowName,
				Payload:      req.Payload,
				CallbackURL:  req.CallbackURL,
			})
			return status, result, nil
		})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Outcome(c, outcome)
}
