package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	"github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/sangkips/supplier-intel-api/pkg/logger"
	"github.com/sangkips/supplier-intel-api/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

// MaxIdempotencyKeyLength matches the width of the idempotency_key column
const MaxIdempotencyKeyLength = 255

// storeTimeout bounds the write of an outcome once it is detached from the
// caller's context
const storeTimeout = 5 * time.Second

// Outcome is the status/body pair an idempotent operation produced
type Outcome struct {
	Status   int
	Body     json.RawMessage
	Replayed bool
}

// Operation performs the side effect of a request exactly once and computes
// the status/body returned to the caller. A returned error is rendered through
// apperror and cached like any other outcome.
type Operation func(ctx context.Context) (status int, body interface{}, err error)

// IdempotencyService implements check → execute once → persist → return.
//
// Failed outcomes are cached too: a retry after a failure replays the stored
// error instead of re-attempting the side effect. If persisting the outcome
// fails, the outcome is still returned but a retry will execute again, so the
// guarantee is at-least-once under storage failure.
type IdempotencyService struct {
	repo   repository.IdempotencyRepository
	tracer trace.Tracer
}

// NewIdempotencyService creates a new idempotency service
func NewIdempotencyService(repo repository.IdempotencyRepository) *IdempotencyService {
	return &IdempotencyService{
		repo:   repo,
		tracer: otel.Tracer("supplier-intel-api/idempotency"),
	}
}

// ValidateKey checks that a caller-supplied key is usable. Keys are opaque and
// compared byte for byte, so surrounding whitespace is rejected rather than
// trimmed.
func ValidateKey(key string) error {
	if key == "" {
		return apperror.ErrMissingIdempotencyKey
	}
	if len(key) > MaxIdempotencyKeyLength {
		return keyError(fmt.Sprintf("must be at most %d characters", MaxIdempotencyKeyLength))
	}
	if strings.TrimSpace(key) != key {
		return keyError("must not have leading or trailing whitespace")
	}
	return nil
}

func keyError(msg string) error {
	return apperror.NewValidationError([]apperror.FieldError{{Field: "idempotency_key", Message: msg}})
}

// Lookup returns the stored record for key, or nil when none exists
func (s *IdempotencyService) Lookup(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	rec, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return rec, nil
}

// Store persists (status, body) under key unless a record already exists.
// Losing a concurrent race is not an error: the winner's record is returned
// with created=false. The write ignores cancellation of ctx so an outcome whose
// side effect already happened is still recorded after the client hangs up.
func (s *IdempotencyService) Store(ctx context.Context, key string, status int, body interface{}) (*entity.IdempotencyKey, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	raw, err := encodeBody(body)
	if err != nil {
		return nil, false, err
	}

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	rec, created, err := s.repo.Create(storeCtx, &entity.IdempotencyKey{
		Key:            key,
		ResponseStatus: &status,
		ResponseBody:   datatypes.JSON(raw),
	})
	if err != nil {
		return nil, false, apperror.NewStorageError(err)
	}
	if !created {
		metrics.IdempotencyRaces.Inc()
		logger.From(ctx).Info("idempotency key already stored by another writer", "key", key)
	}
	return rec, created, nil
}

// Execute runs op at most once per key and returns its outcome, replaying the
// stored outcome when the key has been seen before. name labels metrics and spans.
func (s *IdempotencyService) Execute(ctx context.Context, name, key string, op Operation) (*Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "idempotency.Execute", trace.WithAttributes(
		attribute.String("idempotency.operation", name),
		attribute.String("idempotency.key", key),
	))
	defer span.End()

	log := logger.From(ctx).With("operation", name, "idempotency_key", key)

	existing, err := s.Lookup(ctx, key)
	if err != nil {
		if apperror.IsKind(err, apperror.KindStorage) {
			metrics.IdempotencyOutcomes.WithLabelValues(name, "lookup_failed").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "lookup failed")
			log.Error("idempotency lookup failed", "error", err)
		}
		return nil, err
	}
	if existing != nil {
		metrics.IdempotencyOutcomes.WithLabelValues(name, "replayed").Inc()
		span.SetAttributes(attribute.Bool("idempotency.replayed", true))
		log.Debug("replaying stored outcome")
		return &Outcome{
			Status:   existing.StatusOr(http.StatusOK),
			Body:     json.RawMessage(existing.ResponseBody),
			Replayed: true,
		}, nil
	}

	status, raw := run(ctx, op)
	span.SetAttributes(
		attribute.Bool("idempotency.replayed", false),
		attribute.Int("idempotency.status", status),
	)

	stored, created, err := s.Store(ctx, key, status, raw)
	if err != nil {
		metrics.IdempotencyOutcomes.WithLabelValues(name, "store_failed").Inc()
		span.RecordError(err)
		log.Error("failed to persist idempotent outcome; a retry will execute again", "status", status, "error", err)
		return &Outcome{Status: status, Body: raw}, nil
	}

	metrics.IdempotencyOutcomes.WithLabelValues(name, "executed").Inc()
	if !created {
		// a concurrent request with the same key persisted first; its outcome is the one of record
		return &Outcome{
			Status:   stored.StatusOr(http.StatusOK),
			Body:     json.RawMessage(stored.ResponseBody),
			Replayed: true,
		}, nil
	}
	return &Outcome{Status: status, Body: raw}, nil
}

// run executes op and renders its result, including errors, into status/body
func run(ctx context.Context, op Operation) (int, json.RawMessage) {
	status, body, err := op(ctx)
	if err != nil {
		appErr := apperror.GetAppError(err)
		status, body = appErr.Code, appErr.Body()
	}

	raw, encErr := encodeBody(body)
	if encErr != nil {
		appErr := apperror.GetAppError(encErr)
		raw, _ = json.Marshal(appErr.Body())
		return appErr.Code, raw
	}
	return status, raw
}

func encodeBody(body interface{}) (json.RawMessage, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.NewAppError(http.StatusInternalServerError, apperror.KindServer, "failed to encode response body: "+err.Error())
	}
	return raw, nil
}

// Ping checks that the idempotency store is reachable
func (s *IdempotencyService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
