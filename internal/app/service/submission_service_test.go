package service

import (
	"context"
	"errors"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"judge_web/internal/domain/repository"
	"judge_web/internal/platform/backend"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"
)

func newSubmissionService(api *fakeBackend) *SubmissionService {
	return NewSubmissionService(api, NewInFlightGuard(repository.NewMemoryLockRepository(), time.Minute))
}

func TestSubmitFileWithoutUploadMakesNoRequest(t *testing.T) {
	api := &fakeBackend{}
	svc := newSubmissionService(api)

	_, err := svc.SubmitFile(context.Background(), backend.Auth{}, "sess", "t1", "")
	if !errors.Is(err, common.ErrNoFileSelected) {
		t.Fatalf("err = %v, want ErrNoFileSelected", err)
	}
	if n := api.callCount(); n != 0 {
		t.Fatalf("backend called %d times, want 0", n)
	}
	if got := SubmissionMessage(err); got != "Please upload file first" {
		t.Errorf("message = %q", got)
	}
}

func TestSubmitFileQuotaRejectionShowsDetail(t *testing.T) {
	api := &fakeBackend{submitErr: &common.ProblemError{
		Status: http.StatusForbidden,
		Title:  "Submission Not Allowed",
		Detail: "Quota exceeded",
	}}
	svc := newSubmissionService(api)

	_, err := svc.SubmitFile(context.Background(), backend.Auth{}, "sess", "t1", "f1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := SubmissionMessage(err); got != "Quota exceeded" {
		t.Errorf("message = %q, want %q", got, "Quota exceeded")
	}
}

func TestSubmissionMessageGenericFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", &backend.TransportError{Op: "tasks.submit", Err: errors.New("connection refused")}},
		{"bare status", &backend.StatusError{Op: "tasks.submit", Code: http.StatusInternalServerError}},
		{"other problem", &common.ProblemError{Status: http.StatusForbidden, Title: "Forbidden", Detail: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubmissionMessage(tt.err); got != MsgSubmissionError {
				t.Errorf("message = %q, want %q", got, MsgSubmissionError)
			}
		})
	}
}

func TestSubmitFileSendsUploadedID(t *testing.T) {
	api := &fakeBackend{}
	svc := newSubmissionService(api)

	sub, err := svc.SubmitFile(context.Background(), backend.Auth{}, "sess", "t1", "f1")
	if err != nil {
		t.Fatalf("SubmitFile: %v", err)
	}
	if sub.ID != "sub-1" {
		t.Errorf("submission id = %q", sub.ID)
	}
	if len(api.submits) != 1 || api.submits[0] != (model.SubmitRequest{TaskID: "t1", SourceCodeFileID: "f1"}) {
		t.Errorf("submits = %+v", api.submits)
	}
}

func TestSubmitRejectsConcurrentSubmit(t *testing.T) {
	api := &fakeBackend{}
	svc := newSubmissionService(api)
	var inner error
	api.onSubmit = func() {
		_, inner = svc.SubmitFile(context.Background(), backend.Auth{}, "sess", "t1", "f2")
	}

	if _, err := svc.SubmitFile(context.Background(), backend.Auth{}, "sess", "t1", "f1"); err != nil {
		t.Fatalf("outer submit: %v", err)
	}
	if !errors.Is(inner, common.ErrInFlight) {
		t.Fatalf("inner submit err = %v, want ErrInFlight", inner)
	}
	if len(api.submits) != 1 {
		t.Errorf("submits = %d, want 1", len(api.submits))
	}
}

func TestSubmitRepository(t *testing.T) {
	api := &fakeBackend{}
	svc := newSubmissionService(api)

	if _, err := svc.SubmitRepository(context.Background(), backend.Auth{}, "sess", "t1", " "); !errors.Is(err, ErrNoRepository) {
		t.Fatalf("blank repo err = %v", err)
	}
	if api.callCount() != 0 {
		t.Fatal("blank repository reached the backend")
	}

	if _, err := svc.SubmitRepository(context.Background(), backend.Auth{}, "sess", "t1", "solution"); err != nil {
		t.Fatalf("SubmitRepository: %v", err)
	}
	if got := strings.Join(api.calls, ","); got != "files.github_save_zip,tasks.submit" {
		t.Errorf("calls = %s", got)
	}
	if api.submits[0].SourceCodeFileID != "zip-solution" {
		t.Errorf("submitted file = %q", api.submits[0].SourceCodeFileID)
	}
}

func TestSubmitRepositoryQuotaOnSnapshot(t *testing.T) {
	api := &fakeBackend{zipErr: &common.ProblemError{Status: http.StatusForbidden, Title: common.SubmissionNotAllowedTitle, Detail: "Deadline passed"}}
	svc := newSubmissionService(api)

	_, err := svc.SubmitRepository(context.Background(), backend.Auth{}, "sess", "t1", "solution")
	if got := SubmissionMessage(err); got != "Deadline passed" {
		t.Errorf("message = %q", got)
	}
	if len(api.submits) != 0 {
		t.Error("submit sent after a failed snapshot")
	}
}

func TestUploadSolutionWithoutFile(t *testing.T) {
	api := &fakeBackend{}
	svc := newSubmissionService(api)
	if _, err := svc.UploadSolution(context.Background(), backend.Auth{}, "sess", "", nil); !errors.Is(err, common.ErrNoFileSelected) {
		t.Fatalf("err = %v", err)
	}
	if api.callCount() != 0 {
		t.Fatal("backend called without a file")
	}

	id, err := svc.UploadSolution(context.Background(), backend.Auth{}, "sess", "main.go", strings.NewReader("package main"))
	if err != nil {
		t.Fatalf("UploadSolution: %v", err)
	}
	if id != "new-SOLUTION" {
		t.Errorf("file id = %q", id)
	}
}

func TestResultsSortsHistory(t *testing.T) {
	api := &fakeBackend{
		tasks: map[string]*model.Problem{"t1": {ID: "t1", Title: "Sum"}},
		history: []model.Submission{
			{ID: "old", CreatedAt: at(1)},
			{ID: "new", CreatedAt: at(7)},
			{ID: "mid", CreatedAt: at(4)},
		},
	}
	svc := newSubmissionService(api)

	page := svc.Results(context.Background(), backend.Auth{}, "t1")
	if page.TaskErr != nil || page.HistoryErr != nil {
		t.Fatalf("Results errors: %v, %v", page.TaskErr, page.HistoryErr)
	}
	if page.Task.Title != "Sum" {
		t.Errorf("task = %+v", page.Task)
	}
	if want := []model.ID{"new", "mid", "old"}; !slices.Equal(ids(page.History), want) {
		t.Errorf("history = %v, want %v", ids(page.History), want)
	}
}

func TestResultsKeepsHistoryWhenTaskMissing(t *testing.T) {
	api := &fakeBackend{history: []model.Submission{{ID: "s1", CreatedAt: at(1)}}}
	svc := newSubmissionService(api)

	page := svc.Results(context.Background(), backend.Auth{}, "missing")
	if !errors.Is(page.TaskErr, common.ErrNotFound) {
		t.Errorf("task err = %v, want ErrNotFound", page.TaskErr)
	}
	if page.HistoryErr != nil {
		t.Fatalf("history err = %v", page.HistoryErr)
	}
	if want := []model.ID{"s1"}; !slices.Equal(ids(page.History), want) {
		t.Errorf("history = %v, want %v", ids(page.History), want)
	}
}
