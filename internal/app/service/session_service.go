package service

import (
	"context"
	"errors"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"judge_web/internal/domain/repository"
	"judge_web/internal/platform/backend"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type SessionBackend interface {
	CurrentUser(ctx context.Context, auth backend.Auth) (*model.User, error)
	Logout(ctx context.Context, auth backend.Auth) ([]*http.Cookie, error)
}

// SessionService owns browser sessions. A session is created when a user
// is first recognised or when an alert has to survive a redirect.
type SessionService struct {
	sessions repository.SessionRepository
	api      SessionBackend
	tokens   *security.SessionTokens
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, api SessionBackend, tokens *security.SessionTokens) *SessionService {
	return &SessionService{sessions: sessions, api: api, tokens: tokens, now: time.Now}
}

// Resolve returns the session for sessionID and probes the backend for the
// current user when none is cached. It never fails: store and backend
// errors yield an anonymous session, unsaved while its ID is empty. token
// is set when the session was persisted for the first time.
func (s *SessionService) Resolve(ctx context.Context, sessionID string, auth backend.Auth) (session *model.Session, token string) {
	if sessionID != "" {
		found, err := s.sessions.Get(ctx, sessionID)
		switch {
		case err == nil:
			session = found
		case errors.Is(err, common.ErrNotFound):
		default:
			log.Printf("ERROR: load session: %v", err)
		}
	}
	if session == nil {
		session = &model.Session{}
	}
	if session.User != nil {
		return session, ""
	}

	user, err := s.api.CurrentUser(ctx, auth)
	if err != nil {
		// Not being logged in is the common case, only log the unexpected.
		if !errors.Is(err, common.ErrUnauthorized) && !errors.Is(err, common.ErrForbidden) {
			log.Printf("WARN: session check failed: %v", err)
		}
		return session, ""
	}

	session.User = user
	token, err = s.Save(ctx, session)
	if err != nil {
		log.Printf("ERROR: save session for user %s: %v", user.ID, err)
	}
	return session, token
}

// Save persists session. The first save assigns an id and returns the
// token the browser has to receive as a cookie; later saves return "".
func (s *SessionService) Save(ctx context.Context, session *model.Session) (string, error) {
	var token string
	if session.ID == "" {
		id := uuid.NewString()
		t, err := s.tokens.GenerateToken(id)
		if err != nil {
			return "", common.Errorf("issue session token: %w", err)
		}
		session.ID = id
		session.CreatedAt = s.now()
		token = t
	}
	if err := s.sessions.Save(ctx, session, s.tokens.TTL()); err != nil {
		return "", common.Errorf("save session: %w", err)
	}
	return token, nil
}

func (s *SessionService) AddAlert(ctx context.Context, session *model.Session, variant, message string) (string, error) {
	session.Alerts = append(session.Alerts, model.Alert{Variant: variant, Message: message})
	return s.Save(ctx, session)
}

// TakeAlerts returns the pending alerts and clears them.
func (s *SessionService) TakeAlerts(ctx context.Context, session *model.Session) []model.Alert {
	if len(session.Alerts) == 0 {
		return nil
	}
	alerts := session.Alerts
	session.Alerts = nil
	if session.ID != "" {
		if _, err := s.Save(ctx, session); err != nil {
			log.Printf("ERROR: clear alerts: %v", err)
		}
	}
	return alerts
}

func (s *SessionService) RememberUpload(ctx context.Context, session *model.Session, fileID string) (string, error) {
	session.UploadedFileID = fileID
	return s.Save(ctx, session)
}

// Forget drops the cached user once the backend has rejected its
// credentials. Pending alerts are kept.
func (s *SessionService) Forget(ctx context.Context, session *model.Session) {
	if session.User == nil {
		return
	}
	session.User = nil
	session.UploadedFileID = ""
	if session.ID == "" {
		return
	}
	if _, err := s.Save(ctx, session); err != nil {
		log.Printf("ERROR: forget session user: %v", err)
	}
}

// Destroy logs out of the backend and deletes the session. The returned
// cookies are the backend's and must be relayed to the browser.
func (s *SessionService) Destroy(ctx context.Context, session *model.Session, auth backend.Auth) []*http.Cookie {
	cookies, err := s.api.Logout(ctx, auth)
	if err != nil {
		log.Printf("ERROR: Logout error: %v", err)
	}
	if session != nil && session.ID != "" {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			log.Printf("ERROR: delete session %s: %v", security.StoreKey(session.ID), err)
		}
	}
	return cookies
}

// PurgeExpired removes sessions past their expiry in stores that do not
// expire entries on their own.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
