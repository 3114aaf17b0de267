package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return &ikey, nil
}

// Create inserts rec. The unique index on idempotency_key decides the winner
// between concurrent writers; the loser gets the winner's row back.
func (r *idempotencyRepository) Create(ctx context.Context, rec *entity.IdempotencyKey) (*entity.IdempotencyKey, bool, error) {
	err := r.db.WithContext(ctx).Create(rec).Error
	if err == nil {
		return rec, true, nil
	}
	if !IsUniqueViolation(err) {
		return nil, false, fmt.Errorf("failed to store idempotency key: %w", err)
	}

	winner, getErr := r.GetByKey(ctx, rec.Key)
	if getErr != nil || winner == nil {
		// the discarded attempt is all we can offer; the race itself is not an error
		rec.ID = 0
		return rec, false, nil
	}
	return winner, false, nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}

func (r *idempotencyRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation reports whether err is a uniqueness constraint violation,
// either translated by gorm or raw from pgx
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite, when the dialector does not translate
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
