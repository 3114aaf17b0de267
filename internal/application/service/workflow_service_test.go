package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sangkips/supplier-intel-api/pkg/callback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWorkflowWithoutCallbackIsQueued(t *testing.T) {
	svc := NewWorkflowService(callback.NewClient(callback.ClientConfig{}))

	status, result := svc.RunWorkflow(context.Background(), &RunWorkflowInput{WorkflowName: "sync-catalog"})
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, WorkflowStatusQueued, result.Status)
	assert.Equal(t, "sync-catalog", result.WorkflowName)
}

func TestRunWorkflowMirrorsCallbackStatus(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	svc := NewWorkflowService(callback.NewClient(callback.ClientConfig{Timeout: 5 * time.Second}))
	status, result := svc.RunWorkflow(context.Background(), &RunWorkflowInput{
		WorkflowName: "reprice",
		Payload:      map[string]interface{}{"sku": "A1"},
		CallbackURL:  srv.URL,
	})

	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, WorkflowStatusCallbackSent, result.Status)
	assert.Equal(t, http.StatusTeapot, result.CallbackStatus)
	assert.Equal(t, "reprice", received["workflow_name"])
	assert.Equal(t, map[string]interface{}{"sku": "A1"}, received["payload"])
}

func TestRunWorkflowSendsEmptyPayloadObject(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
	}))
	defer srv.Close()

	svc := NewWorkflowService(callback.NewClient(callback.ClientConfig{}))
	status, _ := svc.RunWorkflow(context.Background(), &RunWorkflowInput{WorkflowName: "noop", CallbackURL: srv.URL})

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{}`, string(raw["payload"]))
}

func TestRunWorkflowUnreachableCallbackFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewWorkflowService(callback.NewClient(callback.ClientConfig{Timeout: time.Second}))
	status, result := svc.RunWorkflow(context.Background(), &RunWorkflowInput{WorkflowName: "reprice", CallbackURL: url})

	require.NotNil(t, result)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, WorkflowStatusCallbackFailed, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.WorkflowName)
}
