package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	StageBuild  = "BUILD"
	StageLinter = "LINTER"
	StageTest   = "TEST"
)

var stageOrder = []string{StageBuild, StageLinter, StageTest}

type Submission struct {
	ID               ID                `json:"id"`
	TaskID           ID                `json:"taskId"`
	UserID           ID                `json:"userId"`
	SourceCodeFileID ID                `json:"sourceCodeFileId"`
	Logs             map[string]string `json:"logs,omitempty"`
	Status           SubmissionStatus  `json:"status"`
	Score            *float64          `json:"score,omitempty"`
	CreatedAt        Timestamp         `json:"createdAt"`
}

type StageLog struct {
	Stage string
	Text  string
}

// StageLogs returns the logs in pipeline order, followed by any stage the
// pipeline does not declare, sorted by name.
func (s *Submission) StageLogs() []StageLog {
	if len(s.Logs) == 0 {
		return nil
	}
	out := make([]StageLog, 0, len(s.Logs))
	seen := make(map[string]bool, len(stageOrder))
	for _, stage := range stageOrder {
		seen[stage] = true
		if text, ok := s.Logs[stage]; ok {
			out = append(out, StageLog{Stage: stage, Text: text})
		}
	}
	var extra []string
	for stage := range s.Logs {
		if !seen[stage] {
			extra = append(extra, stage)
		}
	}
	sort.Strings(extra)
	for _, stage := range extra {
		out = append(out, StageLog{Stage: stage, Text: s.Logs[stage]})
	}
	return out
}

// ScoreText renders the score or "-" while grading has not produced one.
func (s *Submission) ScoreText() string {
	if s.Score == nil {
		return "-"
	}
	return strconv.FormatFloat(*s.Score, 'f', -1, 64)
}

type SubmitRequest struct {
	TaskID           string `json:"taskId"`
	SourceCodeFileID string `json:"sourceCodeFileId"`
}

// Timestamp accepts the shapes the backend has been seen to emit for
// createdAt: RFC 3339, a zone-less local date-time, or epoch milliseconds.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
