package view

import (
	"judge_web/internal/app/service"
	"judge_web/internal/domain/model"
	"net/url"
)

const (
	TabTasks      = "tasks"
	TabSubmit     = "submit"
	TabResult     = "result"
	TabStatistics = "statistics"
)

const (
	ModeFile = "FILE"
	ModeRepo = "REPO"
)

type TaskListData struct {
	Tasks Result[[]model.Problem]
}

type ProblemData struct {
	TaskID string
	Tab    string
	Task   Result[*model.Problem]
}

type SubmitData struct {
	TaskID         string
	Tab            string
	LoggedIn       bool
	Mode           string
	UploadedFileID string
	Repos          Result[[]model.GitHubRepo]
}

type ResultsData struct {
	TaskID  string
	Tab     string
	Task    Result[*model.Problem]
	History Result[[]model.Submission]
	Track   string
	LiveURL string
}

// LiveURL is the status stream the results page subscribes to.
func LiveURL(taskID, submissionID string) string {
	return "/problemset/results/" + url.PathEscape(taskID) + "/live?" + url.Values{"submissionId": {submissionID}}.Encode()
}

type StatisticsData struct {
	TaskID string
	Tab    string
	Chart  Result[*service.Chart]
}

type TaskFormData struct {
	Form   service.TaskForm
	Errors service.FieldErrors
	Limits service.TaskLimits
}

type UpdateFormData struct {
	TaskFormData
	Owned    Result[[]model.Problem]
	Selected string
	Loaded   bool
}

type DeleteFormData struct {
	Tasks    Result[[]model.Problem]
	Selected string
	Error    string
}

type TeacherData struct {
	Tab    string
	Create TaskFormData
	Update UpdateFormData
	Delete DeleteFormData
}

type AdminData struct {
	Users Result[[]model.User]
}
