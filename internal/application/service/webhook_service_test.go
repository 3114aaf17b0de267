package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestWithoutKeyStoresNothing(t *testing.T) {
	repo := &fakeIdempotencyRepo{}
	svc := NewWebhookService(NewIdempotencyService(repo))

	status, result, err := svc.Ingest(context.Background(), "", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, WebhookStatusAccepted, result.Status)
	assert.Equal(t, int32(0), repo.creates.Load())
}

func TestIngestRecordsOnceThenReportsDuplicate(t *testing.T) {
	idem := newIdempotencyServiceForTest(t)
	svc := NewWebhookService(idem)
	ctx := context.Background()
	payload := json.RawMessage(`{"idempotency_key":"evt-1","source":"make","payload":{"order":7}}`)

	status, result, err := svc.Ingest(ctx, "evt-1", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, WebhookStatusAccepted, result.Status)

	rec, err := idem.Lookup(ctx, "evt-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, http.StatusAccepted, rec.StatusOr(0))
	assert.JSONEq(t, string(payload), string(rec.ResponseBody))

	status, result, err = svc.Ingest(ctx, "evt-1", json.RawMessage(`{"different":true}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, WebhookStatusDuplicate, result.Status)

	rec, err = idem.Lookup(ctx, "evt-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(rec.ResponseBody))
}

func TestIngestLostRaceIsDuplicate(t *testing.T) {
	status := http.StatusAccepted
	// lookup misses but another delivery commits first
	repo := &fakeIdempotencyRepo{winner: &entity.IdempotencyKey{Key: "evt-2", ResponseStatus: &status}}
	svc := NewWebhookService(NewIdempotencyService(repo))

	code, result, err := svc.Ingest(context.Background(), "evt-2", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, WebhookStatusDuplicate, result.Status)
	assert.Equal(t, int32(1), repo.creates.Load())
}

func TestIngestStorageFailureIsReported(t *testing.T) {
	repo := &fakeIdempotencyRepo{getErr: errors.New("db down")}
	svc := NewWebhookService(NewIdempotencyService(repo))

	_, _, err := svc.Ingest(context.Background(), "evt-3", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))

	repo.getErr = nil
	repo.createErr = errors.New("db down")
	_, _, err = svc.Ingest(context.Background(), "evt-3", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))
}

func TestIngestRecordsAfterClientDisconnect(t *testing.T) {
	repo := &fakeIdempotencyRepo{}
	svc := NewWebhookService(NewIdempotencyService(repo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, result, err := svc.Ingest(ctx, "evt-4", json.RawMessage(`{"order":9}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, WebhookStatusAccepted, result.Status)
	assert.Equal(t, int32(1), repo.creates.Load())
}
