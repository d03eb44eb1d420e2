package model

import "time"

const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
	AlertInfo    = "info"
)

// Alert is a one-shot message shown on the next rendered view.
type Alert struct {
	Variant string `json:"variant"`
	Message string `json:"message"`
}

// Session is the per-browser state this server keeps between requests.
type Session struct {
	ID             string    `json:"-"`
	User           *User     `json:"user,omitempty"`
	Alerts         []Alert   `json:"alerts,omitempty"`
	UploadedFileID string    `json:"uploadedFileId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}
