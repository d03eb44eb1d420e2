package backend

import (
	"context"
	"judge_web/internal/domain/model"
	"net/http"
	"net/url"
)

// TaskPayload is the record the create and update endpoints accept.
// TaskID is empty on create.
type TaskPayload struct {
	TaskID                 string `json:"taskId,omitempty"`
	Title                  string `json:"title"`
	Statement              string `json:"statement"`
	TimeRestriction        int    `json:"timeRestriction,omitempty"`
	MemoryRestriction      int    `json:"memoryRestriction"`
	SolutionTemplateFileID string `json:"solutionTemplateFileId"`
	TestsFileID            string `json:"testsFileId"`
	LintersFileID          string `json:"lintersFileId"`
	TestsPoints            int    `json:"testsPoints"`
	LintersPoints          int    `json:"lintersPoints"`
	SubmissionsNumberLimit int    `json:"submissionsNumberLimit"`
}

type deleteTaskPayload struct {
	TaskID string `json:"taskId"`
}

func (c *Client) ListTasks(ctx context.Context, auth Auth) ([]model.Problem, error) {
	var tasks []model.Problem
	if err := c.call(ctx, auth, "tasks.list", http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOwnedTasks returns the tasks the calling teacher created.
func (c *Client) ListOwnedTasks(ctx context.Context, auth Auth) ([]model.Problem, error) {
	var tasks []model.Problem
	if err := c.call(ctx, auth, "tasks.owned", http.MethodGet, "/api/tasks/owned", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, auth Auth, taskID string) (*model.Problem, error) {
	var task model.Problem
	if err := c.call(ctx, auth, "tasks.get", http.MethodGet, "/api/tasks/"+url.PathEscape(taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, auth Auth, task TaskPayload) error {
	return c.call(ctx, auth, "tasks.create", http.MethodPost, "/api/tasks/create", task, nil)
}

func (c *Client) UpdateTask(ctx context.Context, auth Auth, task TaskPayload) error {
	return c.call(ctx, auth, "tasks.update", http.MethodPut, "/api/tasks/update", task, nil)
}

func (c *Client) DeleteTask(ctx context.Context, auth Auth, taskID string) error {
	return c.call(ctx, auth, "tasks.delete", http.MethodDelete, "/api/tasks/delete", deleteTaskPayload{TaskID: taskID}, nil)
}
