package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"sync"
	"time"
)

type SessionRepository interface {
	// Get returns common.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
	// DeleteExpired removes sessions past their TTL for stores that do not
	// expire entries themselves.
	DeleteExpired(ctx context.Context) (int64, error)
}

func encodeSession(session *model.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decodeSession(sessionID string, data []byte) (*model.Session, error) {
	session := &model.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.ID = sessionID
	return session, nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Entries are
// stored encoded so callers never share a *model.Session with the store.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (r *memorySessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	key := security.StoreKey(sessionID)
	r.mu.Lock()
	entry, ok := r.entries[key]
	if ok && !r.now().Before(entry.expiresAt) {
		delete(r.entries, key)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return nil, common.ErrNotFound
	}
	return decodeSession(sessionID, entry.data)
}

func (r *memorySessionRepository) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.entries[security.StoreKey(session.ID)] = memoryEntry{data: data, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.entries, security.StoreKey(sessionID))
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	now := r.now()
	r.mu.Lock()
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, key)
			n++
		}
	}
	r.mu.Unlock()
	return n, nil
}
