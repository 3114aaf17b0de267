package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/internal/infrastructure/database"
)

// boltIdempotencyRepository keeps idempotency records in an embedded bolt
// file. Bolt serializes write transactions, so the existence check and the put
// inside one Update are atomic: the store itself enforces first-writer-wins.
type boltIdempotencyRepository struct {
	db *bolt.DB
}

// NewBoltIdempotencyRepository creates an idempotency repository on bolt
func NewBoltIdempotencyRepository(db *bolt.DB) domainRepo.IdempotencyRepository {
	return &boltIdempotencyRepository{db: db}
}

func (r *boltIdempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *entity.IdempotencyKey
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(database.IdempotencyBucket)).Get([]byte(key))
		if v == nil {
			return nil
		}
		rec = &entity.IdempotencyKey{}
		return json.Unmarshal(v, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return rec, nil
}

func (r *boltIdempotencyRepository) Create(ctx context.Context, rec *entity.IdempotencyKey) (*entity.IdempotencyKey, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var stored entity.IdempotencyKey
	created := false

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(database.IdempotencyBucket))

		if existing := b.Get([]byte(rec.Key)); existing != nil {
			return json.Unmarshal(existing, &stored)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.ID = uint(seq)
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		stored = *rec
		created = true
		return b.Put([]byte(rec.Key), data)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return &stored, created, nil
}

func (r *boltIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var deleted int64
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(database.IdempotencyBucket))

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var rec entity.IdempotencyKey
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.CreatedAt.Before(before) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		// deleting while iterating with ForEach is not allowed
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

func (r *boltIdempotencyRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(database.IdempotencyBucket)) == nil {
			return fmt.Errorf("bucket %s missing", database.IdempotencyBucket)
		}
		return nil
	})
}
