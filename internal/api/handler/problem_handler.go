package handler

import (
	"context"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/domain/model"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	*Pages
	taskService       *service.TaskService
	statisticsService *service.StatisticsService
}

func NewProblemHandler(pages *Pages, ts *service.TaskService, ss *service.StatisticsService) *ProblemHandler {
	return &ProblemHandler{Pages: pages, taskService: ts, statisticsService: ss}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.mainPage)
	r.Get("/problemset", h.problemset)
	r.Get("/problemset/task/{taskID}", h.problem)
	r.Get("/problemset/statistics/{taskID}", h.statistics)
}

func (h *ProblemHandler) listTasks(r *http.Request) view.Result[[]model.Problem] {
	auth := h.auth(r)
	return checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) ([]model.Problem, error) {
		return h.taskService.ListTasks(ctx, auth)
	}, "Failed to load problems"))
}

func (h *ProblemHandler) mainPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "main", "", view.TabTasks, view.TaskListData{Tasks: h.listTasks(r)})
}

func (h *ProblemHandler) problemset(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "problemset", "Problem set", view.TabTasks, view.TaskListData{Tasks: h.listTasks(r)})
}

func (h *ProblemHandler) problem(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	auth := h.auth(r)
	task := checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) (*model.Problem, error) {
		return h.taskService.GetTask(ctx, auth, taskID)
	}, "Failed to load problem"))

	title := "Task"
	if task.IsReady() {
		title = task.Value.Title
	}
	h.render(w, r, "problem", title, view.TabTasks, view.ProblemData{TaskID: taskID, Tab: view.TabTasks, Task: task})
}

func (h *ProblemHandler) statistics(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	auth := h.auth(r)
	chart := checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) (*service.Chart, error) {
		return h.statisticsService.Chart(ctx, auth, taskID)
	}, "No statistics available."))
	h.render(w, r, "statistics", "Statistics", view.TabStatistics, view.StatisticsData{TaskID: taskID, Tab: view.TabStatistics, Chart: chart})
}
