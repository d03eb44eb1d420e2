package handler

import (
	"judge_web/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	*Pages
}

func NewAuthHandler(pages *Pages) *AuthHandler {
	return &AuthHandler{Pages: pages}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.login)
	r.Post("/logout", h.logout)
}

// login sends users that are already recognised home. Everyone else gets
// the GitHub login button, which goes through the /api proxy.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if h.session(r).Authenticated() {
		common.Redirect(w, r, "/")
		return
	}
	h.render(w, r, "login", "Login", "", nil)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.sessions.Destroy(r.Context(), h.session(r), h.auth(r)) {
		http.SetCookie(w, c)
	}
	http.SetCookie(w, h.tokens.ClearCookie())
	common.Redirect(w, r, "/")
}
