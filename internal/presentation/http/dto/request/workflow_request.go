package request

// RunWorkflowRequest represents a workflow trigger
type RunWorkflowRequest struct {
	IdempotencyKey string                 `json:"idempotency_key"`
	WorkflowName   string                 `json:"workflow_name" binding:"required,max=255"`
	Payload        map[string]interface{} `json:"payload"`
	CallbackURL    string                 `json:"callback_url" binding:"omitempty,url"`
}
