package worker

import (
	"bytes"
	"context"
	"errors"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeStream replays snapshots, then either ends the stream or waits for
// the context.
type fakeStream struct {
	snapshots []model.Submission
	hold      bool
	started   chan struct{}
}

func (f *fakeStream) StreamStatus(ctx context.Context, auth backend.Auth, submissionID string, onUpdate func(model.Submission)) error {
	for _, s := range f.snapshots {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		onUpdate(s)
	}
	if f.started != nil {
		close(f.started)
	}
	if !f.hold {
		return backend.ErrStreamClosed
	}
	<-ctx.Done()
	return ctx.Err()
}

func snapshot(id string, status model.SubmissionStatus, minute int) model.Submission {
	return model.Submission{
		ID:        model.ID(id),
		Status:    status,
		CreatedAt: model.Timestamp{Time: time.Date(2024, 5, 1, 12, minute, 0, 0, time.UTC)},
	}
}

func TestRunMergesSnapshots(t *testing.T) {
	history := []model.Submission{
		snapshot("s1", model.StatusSubmitted, 2),
		snapshot("s0", model.StatusAccepted, 1),
	}
	relay := NewStatusRelay(&fakeStream{snapshots: []model.Submission{
		snapshot("s1", model.StatusCompiling, 2),
		snapshot("s1", model.StatusAccepted, 2),
	}})

	var updates []Update
	err := relay.Run(context.Background(), backend.Auth{}, "s1", history, func(u Update) error {
		updates = append(updates, u)
		return nil
	})
	if !errors.Is(err, backend.ErrStreamClosed) {
		t.Fatalf("err = %v, want ErrStreamClosed", err)
	}
	if len(updates) != 2 {
		t.Fatalf("updates = %d", len(updates))
	}
	last := updates[1]
	if last.Tracked.Status != model.StatusAccepted {
		t.Errorf("tracked = %s", last.Tracked.Status)
	}
	if len(last.History) != 2 || last.History[0].ID != "s1" || last.History[0].Status != model.StatusAccepted {
		t.Errorf("history = %+v", last.History)
	}
	if history[0].Status != model.StatusSubmitted {
		t.Error("caller's history was modified")
	}
}

func TestRunStopsWhenEmitFails(t *testing.T) {
	relay := NewStatusRelay(&fakeStream{
		snapshots: []model.Submission{
			snapshot("s1", model.StatusCompiling, 0),
			snapshot("s1", model.StatusCompilationSuccess, 0),
		},
		hold: true,
	})
	gone := errors.New("viewer gone")

	var calls int32
	err := relay.Run(context.Background(), backend.Auth{}, "s1", nil, func(Update) error {
		atomic.AddInt32(&calls, 1)
		return gone
	})
	if !errors.Is(err, gone) {
		t.Fatalf("err = %v, want the emit error", err)
	}
	if calls != 1 {
		t.Errorf("emit called %d times after failing", calls)
	}
}

func TestRunViewerCancel(t *testing.T) {
	started := make(chan struct{})
	relay := NewStatusRelay(&fakeStream{hold: true, started: started})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- relay.Run(ctx, backend.Auth{}, "s1", nil, func(Update) error { return nil })
	}()
	<-started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	started := make(chan struct{})
	relay := NewStatusRelay(&fakeStream{hold: true, started: started})

	done := make(chan error, 1)
	go func() {
		done <- relay.Run(context.Background(), backend.Auth{}, "s1", nil, func(Update) error { return nil })
	}()
	<-started
	relay.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestRunWarnsOnUnrecognisedStatus(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	relay := NewStatusRelay(&fakeStream{snapshots: []model.Submission{
		snapshot("s1", model.StatusCompiling, 0),
		snapshot("s1", "QUEUED_REMOTELY", 0),
	}})
	var got []model.SubmissionStatus
	err := relay.Run(context.Background(), backend.Auth{}, "s1", nil, func(u Update) error {
		got = append(got, u.Tracked.Status)
		return nil
	})
	if !errors.Is(err, backend.ErrStreamClosed) {
		t.Fatalf("err = %v, want ErrStreamClosed", err)
	}
	if len(got) != 2 || got[1] != "QUEUED_REMOTELY" {
		t.Errorf("statuses = %v, unknown status not passed through", got)
	}
	if !strings.Contains(logs.String(), `WARN: live status for submission s1: unrecognised status "QUEUED_REMOTELY"`) {
		t.Errorf("missing warning, logs:\n%s", logs.String())
	}
}
