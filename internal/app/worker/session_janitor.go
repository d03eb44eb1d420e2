package worker

import (
	"context"
	"log"
	"time"
)

type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionJanitor periodically removes expired sessions from stores that
// keep them until deleted.
type SessionJanitor struct {
	sessions ExpiredSessionPurger
	interval time.Duration
}

func NewSessionJanitor(sessions ExpiredSessionPurger, interval time.Duration) *SessionJanitor {
	return &SessionJanitor{sessions: sessions, interval: interval}
}

func (j *SessionJanitor) Start(ctx context.Context) {
	log.Println("Session janitor started, interval:", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Session janitor stopping...")
			return
		case <-ticker.C:
			n, err := j.sessions.PurgeExpired(ctx)
			if err != nil {
				log.Printf("ERROR: Failed to purge expired sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("INFO: Purged %d expired sessions", n)
			}
		}
	}
}
