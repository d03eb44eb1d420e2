package handler

import (
	"context"
	"judge_web/internal/api/middleware"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	*Pages
	adminService *service.AdminService
}

func NewAdminHandler(pages *Pages, as *service.AdminService) *AdminHandler {
	return &AdminHandler{Pages: pages, adminService: as}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequireRole(model.RoleAdmin))
	r.Get("/", h.panel)
	r.Post("/users/{userID}/grant-teacher", h.grantTeacher)
}

func (h *AdminHandler) panel(w http.ResponseWriter, r *http.Request) {
	auth := h.auth(r)
	users := checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) ([]model.User, error) {
		return h.adminService.ListUsers(ctx, auth)
	}, "Error loading users"))
	h.render(w, r, "admin", "Admin panel", "", view.AdminData{Users: users})
}

func (h *AdminHandler) grantTeacher(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.adminService.GrantTeacher(r.Context(), h.auth(r), userID); err != nil {
		h.fail(w, r, err, service.AdminMessage(err))
	} else {
		h.flash(w, r, model.AlertSuccess, service.MsgRoleUpdated)
	}
	common.Redirect(w, r, "/admin-panel")
}
