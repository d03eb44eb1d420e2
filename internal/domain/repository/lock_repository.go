package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LockRepository hands out short-lived exclusive locks by key. Acquire
// returns ok=false when the key is already held; release is a no-op once
// the lock has expired or been taken over.
type LockRepository interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

const lockKeyPrefix = "judge_web:lock:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type redisLockRepository struct {
	rdb *redis.Client
}

func NewRedisLockRepository(rdb *redis.Client) LockRepository {
	return &redisLockRepository{rdb: rdb}
}

func (r *redisLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	lockKey := lockKeyPrefix + key
	lockValue := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redisLockRepository.Acquire: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// The request context may already be cancelled by the time the
		// lock is released.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, r.rdb, []string{lockKey}, lockValue)
	}
	return release, true, nil
}

type memoryLockRepository struct {
	mu   sync.Mutex
	held map[string]memoryLock
	now  func() time.Time
}

type memoryLock struct {
	value     string
	expiresAt time.Time
}

func NewMemoryLockRepository() LockRepository {
	return &memoryLockRepository{held: make(map[string]memoryLock), now: time.Now}
}

func (r *memoryLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, exists := r.held[key]; exists && r.now().Before(lock.expiresAt) {
		return nil, false, nil
	}
	value := uuid.NewString()
	r.held[key] = memoryLock{value: value, expiresAt: r.now().Add(ttl)}
	release := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if lock, exists := r.held[key]; exists && lock.value == value {
			delete(r.held, key)
		}
	}
	return release, true, nil
}
