package service

import (
	"context"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"log"
	"strings"
)

const (
	MsgRoleUpdated  = "Role updated successfully"
	MsgUnknownError = "Unknown error"
)

type AdminBackend interface {
	ListUsers(ctx context.Context, auth backend.Auth) ([]model.User, error)
	GrantTeacher(ctx context.Context, auth backend.Auth, userID string) error
}

type AdminService struct {
	api AdminBackend
}

func NewAdminService(api AdminBackend) *AdminService {
	return &AdminService{api: api}
}

func (s *AdminService) ListUsers(ctx context.Context, auth backend.Auth) ([]model.User, error) {
	return s.api.ListUsers(ctx, auth)
}

func (s *AdminService) GrantTeacher(ctx context.Context, auth backend.Auth, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return common.Errorf("user id is required: %w", common.ErrBadRequest)
	}
	return s.api.GrantTeacher(ctx, auth, userID)
}

// AdminMessage is the text shown when a role change fails.
func AdminMessage(err error) string {
	if detail, ok := common.ProblemDetail(err); ok {
		return detail
	}
	log.Printf("ERROR: grant teacher: %v", err)
	return MsgUnknownError
}
