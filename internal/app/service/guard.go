package service

import (
	"context"
	"judge_web/internal/common"
	"judge_web/internal/domain/repository"
	"time"
)

// InFlightGuard allows one operation per key at a time. A second call
// while the first is running fails with common.ErrInFlight.
type InFlightGuard struct {
	locks repository.LockRepository
	ttl   time.Duration
}

func NewInFlightGuard(locks repository.LockRepository, ttl time.Duration) *InFlightGuard {
	return &InFlightGuard{locks: locks, ttl: ttl}
}

func (g *InFlightGuard) Do(ctx context.Context, key string, fn func() error) error {
	release, ok, err := g.locks.Acquire(ctx, key, g.ttl)
	if err != nil {
		return common.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return common.ErrInFlight
	}
	defer release()
	return fn()
}
