package backend

import (
	"context"
	"judge_web/internal/domain/model"
	"net/http"
	"net/url"
)

// Submit creates a submission; the returned snapshot carries its id.
func (c *Client) Submit(ctx context.Context, auth Auth, req model.SubmitRequest) (*model.Submission, error) {
	var sub model.Submission
	if err := c.call(ctx, auth, "tasks.submit", http.MethodPost, "/api/tasks/submit", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// History returns the caller's submissions for a task in backend order.
func (c *Client) History(ctx context.Context, auth Auth, taskID string) ([]model.Submission, error) {
	var subs []model.Submission
	if err := c.call(ctx, auth, "submissions.history", http.MethodGet, "/api/submissions/"+url.PathEscape(taskID)+"/history", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
