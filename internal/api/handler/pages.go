package handler

import (
	"errors"
	"judge_web/internal/api/middleware"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"log"
	"net/http"
)

// Pages holds what every page handler needs to render a view with the
// caller's session.
type Pages struct {
	sessions *service.SessionService
	tokens   *security.SessionTokens
	views    *view.Renderer
}

func NewPages(sessions *service.SessionService, tokens *security.SessionTokens, views *view.Renderer) *Pages {
	return &Pages{sessions: sessions, tokens: tokens, views: views}
}

func (p *Pages) session(r *http.Request) *model.Session {
	return middleware.SessionFromContext(r.Context())
}

// auth forwards the browser's backend cookies, never our own.
func (p *Pages) auth(r *http.Request) backend.Auth {
	return backend.AuthFromRequest(r, p.tokens.CookieName())
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name, title, active string, data any) {
	session := p.session(r)
	page := view.Page{
		Title:  title,
		Active: active,
		User:   session.User,
		Alerts: p.sessions.TakeAlerts(r.Context(), session),
		Data:   data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.views.Render(w, name, page); err != nil {
		log.Printf("ERROR: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// persist saves the session and hands out the cookie when it is new.
func (p *Pages) persist(w http.ResponseWriter, r *http.Request, save func(*model.Session) (string, error)) {
	token, err := save(p.session(r))
	if err != nil {
		log.Printf("ERROR: %v", err)
		return
	}
	if token != "" {
		http.SetCookie(w, p.tokens.Cookie(token))
	}
}

// flash queues an alert for the next rendered page.
func (p *Pages) flash(w http.ResponseWriter, r *http.Request, variant, message string) {
	p.persist(w, r, func(s *model.Session) (string, error) {
		return p.sessions.AddAlert(r.Context(), s, variant, message)
	})
}

// fail flashes message and drops the cached user when the backend no
// longer accepts the browser's credentials.
func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, common.ErrUnauthorized) {
		p.sessions.Forget(r.Context(), p.session(r))
	}
	p.flash(w, r, model.AlertDanger, message)
}

// checkResult drops the cached user when a view fetch was rejected as
// unauthenticated.
func checkResult[T any](p *Pages, r *http.Request, res view.Result[T]) view.Result[T] {
	if res.IsFailed() && errors.Is(res.Err, common.ErrUnauthorized) {
		p.sessions.Forget(r.Context(), p.session(r))
	}
	return res
}
