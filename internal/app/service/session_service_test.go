package service

import (
	"context"
	"errors"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"judge_web/internal/domain/repository"
	"judge_web/internal/platform/backend"
	"testing"
	"time"
)

func newSessionService(api *fakeBackend) (*SessionService, repository.SessionRepository) {
	repo := repository.NewMemorySessionRepository()
	tokens := security.NewSessionTokens([]byte("test-secret"), time.Hour, "judge_session", false)
	return NewSessionService(repo, api, tokens), repo
}

func TestResolveBootstrapsUser(t *testing.T) {
	api := &fakeBackend{user: &model.User{ID: "u1", Username: "ann", Role: model.RoleStudent}}
	svc, repo := newSessionService(api)

	session, token := svc.Resolve(context.Background(), "", backend.Auth{Cookie: "JSESSIONID=x"})
	if !session.Authenticated() || session.User.Username != "ann" {
		t.Fatalf("session = %+v", session)
	}
	if token == "" || session.ID == "" {
		t.Fatal("a new session must be persisted and issue a token")
	}
	stored, err := repo.Get(context.Background(), session.ID)
	if err != nil || stored.User.ID != "u1" {
		t.Fatalf("stored session = %+v, %v", stored, err)
	}

	// A cached user is trusted without asking the backend again.
	before := api.callCount()
	again, token := svc.Resolve(context.Background(), session.ID, backend.Auth{})
	if again.User.ID != "u1" || token != "" {
		t.Errorf("second resolve = %+v, token %q", again, token)
	}
	if api.callCount() != before {
		t.Error("cached session probed the backend")
	}
}

func TestResolveAnonymous(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newSessionService(api)

	session, token := svc.Resolve(context.Background(), "unknown", backend.Auth{})
	if session.Authenticated() {
		t.Fatal("rejected session check produced a user")
	}
	if token != "" || session.ID != "" {
		t.Errorf("anonymous session persisted: id=%q token=%q", session.ID, token)
	}
}

func TestResolveBackendDown(t *testing.T) {
	api := &fakeBackend{userErr: &backend.TransportError{Op: "users.me", Err: errors.New("refused")}}
	svc, _ := newSessionService(api)

	session, _ := svc.Resolve(context.Background(), "", backend.Auth{})
	if session == nil || session.Authenticated() {
		t.Fatalf("session = %+v", session)
	}
}

func TestAlertsAreOneShot(t *testing.T) {
	svc, _ := newSessionService(&fakeBackend{})
	session := &model.Session{}

	token, err := svc.AddAlert(context.Background(), session, model.AlertDanger, "Please upload file first")
	if err != nil || token == "" {
		t.Fatalf("AddAlert: token %q, err %v", token, err)
	}
	reloaded, _ := svc.Resolve(context.Background(), session.ID, backend.Auth{})
	alerts := svc.TakeAlerts(context.Background(), reloaded)
	if len(alerts) != 1 || alerts[0].Message != "Please upload file first" {
		t.Fatalf("alerts = %+v", alerts)
	}
	reloaded, _ = svc.Resolve(context.Background(), session.ID, backend.Auth{})
	if got := svc.TakeAlerts(context.Background(), reloaded); len(got) != 0 {
		t.Errorf("alerts shown twice: %+v", got)
	}
}

func TestForgetAndDestroy(t *testing.T) {
	api := &fakeBackend{user: &model.User{ID: "u1"}}
	svc, repo := newSessionService(api)
	session, _ := svc.Resolve(context.Background(), "", backend.Auth{})

	svc.Forget(context.Background(), session)
	stored, err := repo.Get(context.Background(), session.ID)
	if err != nil || stored.User != nil {
		t.Fatalf("forgotten session = %+v, %v", stored, err)
	}

	cookies := svc.Destroy(context.Background(), session, backend.Auth{})
	if len(cookies) != 1 {
		t.Errorf("backend cookies = %d", len(cookies))
	}
	if _, err := repo.Get(context.Background(), session.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("destroyed session still stored: %v", err)
	}
}
