package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"time"
)

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	query := `SELECT data FROM web_sessions WHERE key = $1 AND expires_at > now()`
	var data []byte
	err := r.db.QueryRowContext(ctx, query, security.StoreKey(sessionID)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSessionRepository.Get: %w", err)
	}
	return decodeSession(sessionID, data)
}

func (r *pgSessionRepository) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	query := `INSERT INTO web_sessions (key, data, expires_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`
	_, err = r.db.ExecContext(ctx, query, security.StoreKey(session.ID), data, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Save: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE key = $1`, security.StoreKey(sessionID))
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Delete: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.DeleteExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.DeleteExpired: %w", err)
	}
	return n, nil
}
