package backend

import (
	"context"
	"errors"
	"fmt"
	"judge_web/internal/domain/model"
	"net/http"
	"testing"
	"time"
)

func TestStreamStatusDropsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("submissionId") != "s1" {
			t.Errorf("submissionId = %q", r.URL.Query().Get("submissionId"))
		}
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"s1\",\"status\":\"COMPILING\"}\n\n")
		fmt.Fprint(w, "data: not json\n\n")
		fmt.Fprint(w, "data: {\"status\":\"ACCEPTED\"}\n\n")
		fmt.Fprint(w, "event: heartbeat\ndata: {}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"s1\",\"status\":\"ACCEPTED\",\"score\":100}\n\n")
	})

	var got []model.Submission
	err := c.StreamStatus(context.Background(), Auth{}, "s1", func(s model.Submission) {
		got = append(got, s)
	})
	if !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("err = %v, want ErrStreamClosed", err)
	}
	if len(got) != 2 {
		t.Fatalf("applied %d updates, want 2", len(got))
	}
	if got[0].Status != model.StatusCompiling || got[1].Status != model.StatusAccepted || got[1].ScoreText() != "100" {
		t.Errorf("updates = %+v", got)
	}
}

func TestStreamStatusStopsOnCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"s1\",\"status\":\"SUBMITTED\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.StreamStatus(ctx, Auth{}, "s1", func(model.Submission) { cancel() })
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestStreamStatusRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := c.StreamStatus(context.Background(), Auth{}, "missing", func(model.Submission) {})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestStreamStatusFraming(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "id: 7\r\nretry: 3000\r\ndata: {\"id\":1,\r\ndata: \"status\":\"COMPILING\"}\r\n\r\n")
		fmt.Fprint(w, "event: message\ndata:{\"id\":\"s1\",\"status\":\"ACCEPTED\",\"logs\":{\"TEST\":\"a\\r\\nb\"}}\n\n")
		fmt.Fprint(w, "event: status\ndata: {\"id\":\"s1\",\"status\":\"WRONG_ANSWER\"}\n\n")
	})

	var got []model.Submission
	err := c.StreamStatus(context.Background(), Auth{}, "1", func(s model.Submission) {
		got = append(got, s)
	})
	if !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("err = %v, want ErrStreamClosed", err)
	}
	if len(got) != 2 {
		t.Fatalf("applied %d updates, want 2: %+v", len(got), got)
	}
	if got[0].ID != "1" || got[0].Status != model.StatusCompiling {
		t.Errorf("multi-line event = %+v", got[0])
	}
	if got[1].Status != model.StatusAccepted || got[1].Logs[model.StageTest] != "a\r\nb" {
		t.Errorf("named message event = %+v", got[1])
	}
}
