package model

import (
	"encoding/json"
	"testing"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`"65f1c2"`, "65f1c2"},
		{`1`, "1"},
		{`9007199254740993`, "9007199254740993"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.in, err)
			continue
		}
		if id != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
		}
	}
	for _, bad := range []string{`true`, `{"id":1}`, `[1]`} {
		var id ID
		if err := json.Unmarshal([]byte(bad), &id); err == nil {
			t.Errorf("Unmarshal(%s) accepted", bad)
		}
	}
}

func TestNumericIDsDecode(t *testing.T) {
	var sub Submission
	err := json.Unmarshal([]byte(`{"id":1,"taskId":7,"userId":"u1","sourceCodeFileId":42,"status":"ACCEPTED","createdAt":1714566600000}`), &sub)
	if err != nil {
		t.Fatalf("Unmarshal submission: %v", err)
	}
	if sub.ID != "1" || sub.TaskID != "7" || sub.UserID != "u1" || sub.SourceCodeFileID != "42" {
		t.Errorf("submission ids = %q %q %q %q", sub.ID, sub.TaskID, sub.UserID, sub.SourceCodeFileID)
	}

	var user User
	if err := json.Unmarshal([]byte(`{"id":3,"username":"ann","role":"STUDENT"}`), &user); err != nil {
		t.Fatalf("Unmarshal user: %v", err)
	}
	if user.ID != "3" {
		t.Errorf("user id = %q", user.ID)
	}

	var task Problem
	if err := json.Unmarshal([]byte(`{"id":12,"title":"Sum","testsFileId":"f-9"}`), &task); err != nil {
		t.Fatalf("Unmarshal task: %v", err)
	}
	if task.ID != "12" || task.TestsFileID != "f-9" {
		t.Errorf("task ids = %q %q", task.ID, task.TestsFileID)
	}

	// Re-encoded ids are strings, so stored sessions round-trip.
	out, _ := json.Marshal(user)
	if string(out) != `{"id":"3","username":"ann","role":"STUDENT"}` {
		t.Errorf("Marshal user = %s", out)
	}
}
