package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/internal/infrastructure/database"
	"github.com/sangkips/supplier-intel-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newRecord(key string, status int, body string) *entity.IdempotencyKey {
	return &entity.IdempotencyKey{
		Key:            key,
		ResponseStatus: &status,
		ResponseBody:   datatypes.JSON(body),
	}
}

// backends runs fn against every durable idempotency store
func backends(t *testing.T, fn func(t *testing.T, repo domainRepo.IdempotencyRepository)) {
	t.Run("gorm", func(t *testing.T) {
		fn(t, NewIdempotencyRepository(testutil.NewTestDB(t)))
	})
	t.Run("bolt", func(t *testing.T) {
		db, err := database.NewBoltDB(filepath.Join(t.TempDir(), "idempotency.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		fn(t, NewBoltIdempotencyRepository(db))
	})
}

func TestIdempotencyRepositoryGetByKeyAbsent(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		rec, err := repo.GetByKey(context.Background(), "never-seen")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestIdempotencyRepositoryCreateThenGet(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		ctx := context.Background()

		stored, created, err := repo.Create(ctx, newRecord("k1", 201, `{"id":1}`))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "k1", stored.Key)

		rec, err := repo.GetByKey(ctx, "k1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, 201, rec.StatusOr(0))
		assert.JSONEq(t, `{"id":1}`, string(rec.ResponseBody))
		assert.False(t, rec.CreatedAt.IsZero())
	})
}

func TestIdempotencyRepositoryFirstWriterWins(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		ctx := context.Background()

		_, created, err := repo.Create(ctx, newRecord("k2", 200, `{"n":1}`))
		require.NoError(t, err)
		require.True(t, created)

		stored, created, err := repo.Create(ctx, newRecord("k2", 500, `{"n":2}`))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 200, stored.StatusOr(0))
		assert.JSONEq(t, `{"n":1}`, string(stored.ResponseBody))

		rec, err := repo.GetByKey(ctx, "k2")
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":1}`, string(rec.ResponseBody))
	})
}

func TestIdempotencyRepositoryConcurrentCreate(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		ctx := context.Background()
		const writers = 10

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
			bodies  = make(map[string]int)
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				stored, created, err := repo.Create(ctx, newRecord("shared", 200, fmt.Sprintf(`{"writer":%d}`, i)))
				assert.NoError(t, err)
				if err != nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				if created {
					winners++
				}
				bodies[string(stored.ResponseBody)]++
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, winners)

		rec, err := repo.GetByKey(ctx, "shared")
		require.NoError(t, err)
		require.NotNil(t, rec)
		// every writer saw the committed record
		assert.Equal(t, writers, bodies[string(rec.ResponseBody)])
	})
}

func TestIdempotencyRepositoryDeleteExpired(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		ctx := context.Background()
		now := time.Now().UTC()

		old := newRecord("old", 200, `{}`)
		old.CreatedAt = now.Add(-48 * time.Hour)
		fresh := newRecord("fresh", 200, `{}`)
		fresh.CreatedAt = now

		_, _, err := repo.Create(ctx, old)
		require.NoError(t, err)
		_, _, err = repo.Create(ctx, fresh)
		require.NoError(t, err)

		deleted, err := repo.DeleteExpired(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		rec, err := repo.GetByKey(ctx, "old")
		require.NoError(t, err)
		assert.Nil(t, rec)

		rec, err = repo.GetByKey(ctx, "fresh")
		require.NoError(t, err)
		assert.NotNil(t, rec)
	})
}

func TestIdempotencyRepositoryPing(t *testing.T) {
	backends(t, func(t *testing.T, repo domainRepo.IdempotencyRepository) {
		assert.NoError(t, repo.Ping(context.Background()))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}
