package repository

import (
	"context"
	"errors"
	"fmt"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "judge_web:session:"

type redisSessionRepository struct {
	rdb *redis.Client
}

func NewRedisSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepository{rdb: rdb}
}

func redisSessionKey(sessionID string) string {
	return sessionKeyPrefix + security.StoreKey(sessionID)
}

func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := r.rdb.Get(ctx, redisSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisSessionRepository.Get: %w", err)
	}
	return decodeSession(sessionID, data)
}

func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisSessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redisSessionRepository.Save: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, redisSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redisSessionRepository.Delete: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis expires keys itself.
func (r *redisSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
