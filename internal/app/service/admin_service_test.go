package service

import (
	"context"
	"judge_web/internal/common"
	"judge_web/internal/platform/backend"
	"net/http"
	"testing"
)

func TestAdminMessage(t *testing.T) {
	api := &fakeBackend{grantErr: &common.ProblemError{Status: http.StatusConflict, Title: "Conflict", Detail: "User is already a teacher"}}
	svc := NewAdminService(api)

	err := svc.GrantTeacher(context.Background(), backend.Auth{}, "u1")
	if got := AdminMessage(err); got != "User is already a teacher" {
		t.Errorf("message = %q", got)
	}
	if got := AdminMessage(&backend.StatusError{Op: "users.grant_teacher", Code: http.StatusInternalServerError}); got != MsgUnknownError {
		t.Errorf("message = %q", got)
	}
	if err := svc.GrantTeacher(context.Background(), backend.Auth{}, ""); err == nil || api.callCount() != 1 {
		t.Errorf("blank user id: err %v, calls %d", err, api.callCount())
	}
}
