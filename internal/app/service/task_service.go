package service

import (
	"context"
	"fmt"
	"io"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"net/url"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/spf13/cast"
)

type TaskBackend interface {
	ListTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error)
	ListOwnedTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error)
	GetTask(ctx context.Context, auth backend.Auth, taskID string) (*model.Problem, error)
	CreateTask(ctx context.Context, auth backend.Auth, task backend.TaskPayload) error
	UpdateTask(ctx context.Context, auth backend.Auth, task backend.TaskPayload) error
	DeleteTask(ctx context.Context, auth backend.Auth, taskID string) error
	UploadFile(ctx context.Context, auth backend.Auth, fileType model.FileType, filename string, content io.Reader) (*model.StoredFile, error)
}

type TaskService struct {
	api    TaskBackend
	limits TaskLimits
}

// TaskLimits are the bounds the teacher forms enforce before anything is
// sent to the backend.
type TaskLimits struct {
	MemoryMin int
	MemoryMax int
}

func NewTaskService(api TaskBackend, limits TaskLimits) *TaskService {
	return &TaskService{api: api, limits: limits}
}

// TaskForm is the editable shape of a task as the teacher forms post it.
type TaskForm struct {
	TaskID                 string
	Title                  string
	Statement              string
	TimeRestriction        int
	MemoryRestriction      int
	SolutionTemplateFileID string
	TestsFileID            string
	LintersFileID          string
	TestsPoints            int
	LintersPoints          int
	SubmissionsNumberLimit int
}

// NewTaskForm returns the defaults of the create form.
func NewTaskForm() TaskForm {
	return TaskForm{
		MemoryRestriction:      256,
		TestsPoints:            50,
		LintersPoints:          50,
		SubmissionsNumberLimit: 3,
	}
}

func (f TaskForm) payload() backend.TaskPayload {
	return backend.TaskPayload{
		TaskID:                 f.TaskID,
		Title:                  strings.TrimSpace(f.Title),
		Statement:              f.Statement,
		TimeRestriction:        f.TimeRestriction,
		MemoryRestriction:      f.MemoryRestriction,
		SolutionTemplateFileID: f.SolutionTemplateFileID,
		TestsFileID:            f.TestsFileID,
		LintersFileID:          f.LintersFileID,
		TestsPoints:            f.TestsPoints,
		LintersPoints:          f.LintersPoints,
		SubmissionsNumberLimit: f.SubmissionsNumberLimit,
	}
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

// ValidationError carries per-field messages and matches common.ErrValidation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// ParseTaskForm reads a posted teacher form. Fields that do not parse as
// numbers are reported and left at zero.
func ParseTaskForm(values url.Values) (TaskForm, FieldErrors) {
	errs := FieldErrors{}
	number := func(name string, optional bool) int {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			if !optional {
				errs[name] = "Required"
			}
			return 0
		}
		n, err := cast.ToIntE(raw)
		if err != nil {
			errs[name] = "Must be a number"
			return 0
		}
		return n
	}
	form := TaskForm{
		TaskID:                 strings.TrimSpace(values.Get("taskId")),
		Title:                  values.Get("title"),
		Statement:              values.Get("statement"),
		TimeRestriction:        number("timeRestriction", true),
		MemoryRestriction:      number("memoryRestriction", false),
		SolutionTemplateFileID: strings.TrimSpace(values.Get("solutionTemplateFileId")),
		TestsFileID:            strings.TrimSpace(values.Get("testsFileId")),
		LintersFileID:          strings.TrimSpace(values.Get("lintersFileId")),
		TestsPoints:            number("testsPoints", false),
		LintersPoints:          number("lintersPoints", false),
		SubmissionsNumberLimit: number("submissionsNumberLimit", false),
	}
	return form, errs
}

// ValidateTask checks form against limits. requireFullScore additionally
// demands that tests and linters points add up to 100.
func ValidateTask(form TaskForm, limits TaskLimits, requireFullScore bool) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(form.Title) == "" {
		errs["title"] = "Required"
	}
	if strings.TrimSpace(form.Statement) == "" {
		errs["statement"] = "Required"
	}
	if form.MemoryRestriction < limits.MemoryMin || form.MemoryRestriction > limits.MemoryMax {
		errs["memoryRestriction"] = fmt.Sprintf("%d–%d", limits.MemoryMin, limits.MemoryMax)
	}
	if form.TimeRestriction < 0 {
		errs["timeRestriction"] = "Must be ≥ 0"
	}
	if form.TestsPoints < 0 || form.TestsPoints > 100 {
		errs["testsPoints"] = "0–100"
	}
	if form.LintersPoints < 0 || form.LintersPoints > 100 {
		errs["lintersPoints"] = "0–100"
	}
	if requireFullScore && errs["testsPoints"] == "" && errs["lintersPoints"] == "" &&
		form.TestsPoints+form.LintersPoints != 100 {
		errs["lintersPoints"] = "Points must sum to 100"
	}
	if form.SubmissionsNumberLimit < 1 {
		errs["submissionsNumberLimit"] = "Must be ≥ 1"
	}
	return errs
}

// Artifact is an optional file attached to a teacher form.
type Artifact struct {
	FileType model.FileType
	Filename string
	Content  io.Reader
}

func (s *TaskService) Limits() TaskLimits {
	return s.limits
}

func (s *TaskService) ListTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error) {
	return s.api.ListTasks(ctx, auth)
}

func (s *TaskService) ListOwnedTasks(ctx context.Context, auth backend.Auth) ([]model.Problem, error) {
	return s.api.ListOwnedTasks(ctx, auth)
}

func (s *TaskService) GetTask(ctx context.Context, auth backend.Auth, taskID string) (*model.Problem, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, common.Errorf("task id is required: %w", common.ErrBadRequest)
	}
	return s.api.GetTask(ctx, auth, taskID)
}

// Prefill loads taskID into an update form. Artifact ids start blank so
// that only newly uploaded files replace the stored ones.
func (s *TaskService) Prefill(ctx context.Context, auth backend.Auth, taskID string) (TaskForm, error) {
	task, err := s.GetTask(ctx, auth, taskID)
	if err != nil {
		return TaskForm{}, err
	}
	var form TaskForm
	if err := copier.Copy(&form, task); err != nil {
		return TaskForm{}, common.Errorf("prefill task %s: %w", taskID, err)
	}
	form.TaskID = task.ID.String()
	form.SolutionTemplateFileID = ""
	form.TestsFileID = ""
	form.LintersFileID = ""
	return form, nil
}

func (s *TaskService) CreateTask(ctx context.Context, auth backend.Auth, form TaskForm, artifacts []Artifact) error {
	if errs := ValidateTask(form, s.limits, false); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	if err := s.uploadArtifacts(ctx, auth, &form, artifacts); err != nil {
		return err
	}
	form.TaskID = ""
	return s.api.CreateTask(ctx, auth, form.payload())
}

func (s *TaskService) UpdateTask(ctx context.Context, auth backend.Auth, form TaskForm, artifacts []Artifact) error {
	if form.TaskID == "" {
		return &ValidationError{Fields: FieldErrors{"taskId": "Please select a task"}}
	}
	if errs := ValidateTask(form, s.limits, true); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	original, err := s.api.GetTask(ctx, auth, form.TaskID)
	if err != nil {
		return common.Errorf("load task %s: %w", form.TaskID, err)
	}
	if err := s.uploadArtifacts(ctx, auth, &form, artifacts); err != nil {
		return err
	}
	if form.SolutionTemplateFileID == "" {
		form.SolutionTemplateFileID = original.SolutionTemplateFileID.String()
	}
	if form.TestsFileID == "" {
		form.TestsFileID = original.TestsFileID.String()
	}
	if form.LintersFileID == "" {
		form.LintersFileID = original.LintersFileID.String()
	}
	return s.api.UpdateTask(ctx, auth, form.payload())
}

func (s *TaskService) DeleteTask(ctx context.Context, auth backend.Auth, taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return &ValidationError{Fields: FieldErrors{"taskId": "Please select a task"}}
	}
	return s.api.DeleteTask(ctx, auth, taskID)
}

func (s *TaskService) uploadArtifacts(ctx context.Context, auth backend.Auth, form *TaskForm, artifacts []Artifact) error {
	for _, a := range artifacts {
		if a.Content == nil {
			continue
		}
		stored, err := s.api.UploadFile(ctx, auth, a.FileType, a.Filename, a.Content)
		if err != nil {
			return common.Errorf("upload %s: %w", a.FileType, err)
		}
		switch a.FileType {
		case model.FileTypeSolutionTemplate, model.FileTypeSolution:
			form.SolutionTemplateFileID = stored.ID.String()
		case model.FileTypeTest:
			form.TestsFileID = stored.ID.String()
		case model.FileTypeLinter:
			form.LintersFileID = stored.ID.String()
		}
	}
	return nil
}
