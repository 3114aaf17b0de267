package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/pkg/logger"
)

const idempotencyCachePrefix = "idem:"

// cachedIdempotencyRepository is a read-through redis cache in front of the
// durable repository. Only rows the durable store has already committed are
// cached, so a cache entry is always the first writer's record.
type cachedIdempotencyRepository struct {
	base   domainRepo.IdempotencyRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedIdempotencyRepository wraps base with a redis replay cache
func NewCachedIdempotencyRepository(base domainRepo.IdempotencyRepository, client *redis.Client, ttl time.Duration) domainRepo.IdempotencyRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &cachedIdempotencyRepository{base: base, client: client, ttl: ttl}
}

func (r *cachedIdempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	if rec, ok := r.get(ctx, key); ok {
		return rec, nil
	}

	rec, err := r.base.GetByKey(ctx, key)
	if err != nil || rec == nil {
		return rec, err
	}
	r.set(ctx, rec)
	return rec, nil
}

func (r *cachedIdempotencyRepository) Create(ctx context.Context, rec *entity.IdempotencyKey) (*entity.IdempotencyKey, bool, error) {
	stored, created, err := r.base.Create(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	// a race loser may hold only its own discarded attempt; the next read fills the cache
	if created {
		r.set(ctx, stored)
	}
	return stored, created, nil
}

// DeleteExpired sweeps the durable store only; cache entries age out on their own TTL
func (r *cachedIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.base.DeleteExpired(ctx, before)
}

func (r *cachedIdempotencyRepository) Ping(ctx context.Context) error {
	if err := r.base.Ping(ctx); err != nil {
		return err
	}
	return r.client.Ping(ctx).Err()
}

func (r *cachedIdempotencyRepository) get(ctx context.Context, key string) (*entity.IdempotencyKey, bool) {
	data, err := r.client.Get(ctx, idempotencyCachePrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.From(ctx).Warn("idempotency cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var rec entity.IdempotencyKey
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func (r *cachedIdempotencyRepository) set(ctx context.Context, rec *entity.IdempotencyKey) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, idempotencyCachePrefix+rec.Key, data, r.ttl).Err(); err != nil {
		logger.From(ctx).Warn("idempotency cache write failed", "key", rec.Key, "error", err)
	}
}
