package service

import "testing"

func TestDownloadName(t *testing.T) {
	tests := []struct {
		title, kind, contentType, want string
	}{
		{"Two Sum", "solution template", "application/zip", "two-sum-solution-template.zip"},
		{"", "", "application/octet-stream", "file.zip"},
		{"Statement", "", "application/pdf", "statement.pdf"},
	}
	for _, tt := range tests {
		if got := DownloadName(tt.title, tt.kind, tt.contentType); got != tt.want {
			t.Errorf("DownloadName(%q, %q, %q) = %q, want %q", tt.title, tt.kind, tt.contentType, got, tt.want)
		}
	}
}
