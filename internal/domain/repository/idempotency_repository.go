package repository

import (
	"context"
	"time"

	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations.
// Implementations must enforce at-most-one insert per key in the storage
// layer itself, never with an in-process check-then-insert.
type IdempotencyRepository interface {
	// GetByKey retrieves a record by key; (nil, nil) when absent
	GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error)
	// Create stores rec unless the key already exists. When another writer got
	// there first it returns the persisted record with created=false and no error.
	Create(ctx context.Context, rec *entity.IdempotencyKey) (stored *entity.IdempotencyKey, created bool, err error)
	// DeleteExpired removes records created before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}
