package service

import (
	"context"
	"io"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"net/http"
	"sync"
)

// fakeBackend records calls and answers from its fields. A nil func field
// answers with a zero value.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	user      *model.User
	userErr   error
	tasks     map[string]*model.Problem
	submitErr error
	uploadErr error
	zipErr    error
	history   []model.Submission

	created  []backend.TaskPayload
	updated  []backend.TaskPayload
	deleted  []string
	uploads  []model.FileType
	submits  []model.SubmitRequest
	granted  []string
	grantErr error
	stats    *model.TaskStatistics
	onSubmit func()
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) CurrentUser(ctx context.Context, auth backend.Auth) (*model.User, error) {
	f.record("users.me")
	if f.userErr != nil {
		return nil, f.userErr
	}
	if f.user == nil {
		return nil, &backend.StatusError{Op: "users.me", Code: http.StatusUnauthorized}
	}
	u := *f.user
	return &u, nil
}

func (f *fakeBackend) Logout(ctx context.Context, auth backend.Auth) ([]*http.Cookie, error) {
	f.record("logout")
	return []*http.Cookie{{Name: "JSESSIONID", MaxAge: -1}}, nil
}

func (f *fakeBackend) ListTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error) {
	f.record("tasks.list")
	var out []model.Problem
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeBackend) ListOwnedTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error) {
	f.record("tasks.owned")
	return f.ListTasks(ctx, auth)
}

func (f *fakeBackend) GetTask(ctx context.Context, auth backend.Auth, taskID string) (*model.Problem, error) {
	f.record("tasks.get")
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, &backend.StatusError{Op: "tasks.get", Code: http.StatusNotFound}
	}
	c := *t
	return &c, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, auth backend.Auth, task backend.TaskPayload) error {
	f.record("tasks.create")
	f.created = append(f.created, task)
	return nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, auth backend.Auth, task backend.TaskPayload) error {
	f.record("tasks.update")
	f.updated = append(f.updated, task)
	return nil
}

func (f *fakeBackend) DeleteTask(ctx context.Context, auth backend.Auth, taskID string) error {
	f.record("tasks.delete")
	f.deleted = append(f.deleted, taskID)
	return nil
}

func (f *fakeBackend) UploadFile(ctx context.Context, auth backend.Auth, fileType model.FileType, filename string, content io.Reader) (*model.StoredFile, error) {
	f.record("files.upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	io.Copy(io.Discard, content)
	f.uploads = append(f.uploads, fileType)
	return &model.StoredFile{ID: model.ID("new-" + string(fileType))}, nil
}

func (f *fakeBackend) Submit(ctx context.Context, auth backend.Auth, req model.SubmitRequest) (*model.Submission, error) {
	f.record("tasks.submit")
	if f.onSubmit != nil {
		f.onSubmit()
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submits = append(f.submits, req)
	return &model.Submission{ID: "sub-1", TaskID: model.ID(req.TaskID), SourceCodeFileID: model.ID(req.SourceCodeFileID), Status: model.StatusSubmitted}, nil
}

func (f *fakeBackend) History(ctx context.Context, auth backend.Auth, taskID string) ([]model.Submission, error) {
	f.record("submissions.history")
	return append([]model.Submission(nil), f.history...), nil
}

func (f *fakeBackend) GitHubRepos(ctx context.Context, auth backend.Auth) ([]model.GitHubRepo, error) {
	f.record("users.github_repos")
	return []model.GitHubRepo{{ID: "1", Name: "solution"}}, nil
}

func (f *fakeBackend) GitHubSaveZip(ctx context.Context, auth backend.Auth, repo string) (*model.StoredFile, error) {
	f.record("files.github_save_zip")
	if f.zipErr != nil {
		return nil, f.zipErr
	}
	return &model.StoredFile{ID: model.ID("zip-" + repo)}, nil
}

func (f *fakeBackend) ListUsers(ctx context.Context, auth backend.Auth) ([]model.User, error) {
	f.record("users.list")
	return []model.User{{ID: "u1", Username: "ann", Role: model.RoleStudent}}, nil
}

func (f *fakeBackend) GrantTeacher(ctx context.Context, auth backend.Auth, userID string) error {
	f.record("users.grant_teacher")
	if f.grantErr != nil {
		return f.grantErr
	}
	f.granted = append(f.granted, userID)
	return nil
}

func (f *fakeBackend) Statistics(ctx context.Context, auth backend.Auth, taskID string) (*model.TaskStatistics, error) {
	f.record("users.statistics")
	if f.stats == nil {
		return nil, common.ErrNotFound
	}
	return f.stats, nil
}
