package backend

import (
	"context"
	"io"
	"judge_web/internal/domain/model"
	"net/http"
	"net/url"
)

func (c *Client) CurrentUser(ctx context.Context, auth Auth) (*model.User, error) {
	var user model.User
	if err := c.call(ctx, auth, "users.me", http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the backend session and returns the cookies the backend set
// while doing so, for relaying to the browser.
func (c *Client) Logout(ctx context.Context, auth Auth) ([]*http.Cookie, error) {
	resp, err := c.send(ctx, auth, request{op: "logout", method: http.MethodPost, path: "/api/logout"})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.Cookies(), nil
}

func (c *Client) ListUsers(ctx context.Context, auth Auth) ([]model.User, error) {
	var users []model.User
	if err := c.call(ctx, auth, "users.list", http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GrantTeacher(ctx context.Context, auth Auth, userID string) error {
	return c.call(ctx, auth, "users.grant_teacher", http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/grant-teacher", nil, nil)
}

func (c *Client) GitHubRepos(ctx context.Context, auth Auth) ([]model.GitHubRepo, error) {
	var repos []model.GitHubRepo
	if err := c.call(ctx, auth, "users.github_repos", http.MethodGet, "/api/users/github-repos", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) Statistics(ctx context.Context, auth Auth, taskID string) (*model.TaskStatistics, error) {
	var stats model.TaskStatistics
	if err := c.call(ctx, auth, "users.statistics", http.MethodGet, "/api/users/statistics/"+url.PathEscape(taskID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
