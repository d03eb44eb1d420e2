package middleware

import (
	"context"
	"judge_web/internal/app/service"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const SessionCtxKey contextKey = "session"

// LoginPath is where anonymous visitors of private pages are sent.
const LoginPath = "/login"

// Session resolves the browser session for every request and stores it in
// the context. It must run after the token verifier.
func Session(sessions *service.SessionService, tokens *security.SessionTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			token, claims, err := jwtauth.FromContext(r.Context())
			if err == nil && token != nil {
				sessionID, _ = security.GetSessionIDFromClaims(claims)
			}

			auth := backend.AuthFromRequest(r, tokens.CookieName())
			session, issued := sessions.Resolve(r.Context(), sessionID, auth)
			switch {
			case issued != "":
				http.SetCookie(w, tokens.Cookie(issued))
			case session.ID == "" && tokens.TokenFromCookie(r) != "":
				// Expired, forged or pointing at a purged session.
				http.SetCookie(w, tokens.ClearCookie())
			}

			ctx := context.WithValue(r.Context(), SessionCtxKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser sends anonymous visitors to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).Authenticated() {
			common.Redirect(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits users holding one of roles. Anonymous visitors are
// sent to the login page, everyone else gets 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if !session.Authenticated() {
				common.Redirect(w, r, LoginPath)
				return
			}
			if !session.User.HasRole(roles...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext never returns nil; outside the Session middleware it
// yields an anonymous session.
func SessionFromContext(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(SessionCtxKey).(*model.Session); ok && session != nil {
		return session
	}
	return &model.Session{}
}
