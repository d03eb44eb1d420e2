package model

type StatusCount struct {
	Status SubmissionStatus `json:"status"`
	Count  int              `json:"count"`
}

// TaskStatistics is the backend's count-by-status aggregation for a task.
type TaskStatistics struct {
	Statuses []StatusCount `json:"statuses"`
}
