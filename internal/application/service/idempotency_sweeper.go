package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/pkg/metrics"
)

// IdempotencySweeper periodically deletes idempotency records older than a TTL.
// Nothing depends on records being deleted; the sweep only bounds table growth.
type IdempotencySweeper struct {
	repo     repository.IdempotencyRepository
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewIdempotencySweeper creates a new sweeper
func NewIdempotencySweeper(repo repository.IdempotencyRepository, ttl, interval time.Duration) *IdempotencySweeper {
	return &IdempotencySweeper{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (s *IdempotencySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("idempotency sweeper started", "ttl", s.ttl.String(), "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("idempotency sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Error("idempotency sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce deletes every record created more than ttl ago
func (s *IdempotencySweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl)
	deleted, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		metrics.IdempotencySwept.Add(float64(deleted))
		slog.Info("swept expired idempotency keys", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
