package worker

import (
	"context"
	"errors"
	"judge_web/internal/app/service"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"judge_web/internal/platform/metrics"
	"log"
)

type StreamBackend interface {
	StreamStatus(ctx context.Context, auth backend.Auth, submissionID string, onUpdate func(model.Submission)) error
}

// Update is the state of the results view after one live snapshot.
type Update struct {
	Tracked model.Submission
	History []model.Submission
}

// StatusRelay follows one submission on the backend stream and hands each
// merged view state to a single consumer, in arrival order.
type StatusRelay struct {
	api      StreamBackend
	closing  context.Context
	closeAll context.CancelFunc
}

// ErrRelayClosed ends subscriptions when the server shuts down.
var ErrRelayClosed = errors.New("status relay closed")

func NewStatusRelay(api StreamBackend) *StatusRelay {
	closing, closeAll := context.WithCancel(context.Background())
	return &StatusRelay{api: api, closing: closing, closeAll: closeAll}
}

// Close ends every running subscription. Run returns nil for them.
func (r *StatusRelay) Close() {
	r.closeAll()
}

// Run blocks until ctx is done, the backend closes the stream or emit
// fails. Cancellation of ctx is a normal end and returns nil.
func (r *StatusRelay) Run(ctx context.Context, auth backend.Auth, submissionID string, history []model.Submission, emit func(Update) error) error {
	metrics.LiveSubscriptions.Inc()
	defer metrics.LiveSubscriptions.Dec()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(r.closing, func() { cancel(ErrRelayClosed) })
	defer stop()

	log.Printf("INFO: live status for submission %s: subscribed", submissionID)
	var last model.SubmissionStatus
	for _, s := range history {
		if s.ID.String() == submissionID {
			last = s.Status
			break
		}
	}

	err := r.api.StreamStatus(ctx, auth, submissionID, func(snapshot model.Submission) {
		if !snapshot.Status.Known() {
			log.Printf("WARN: live status for submission %s: unrecognised status %q", snapshot.ID, snapshot.Status)
		} else if last != "" && !model.CanFollow(last, snapshot.Status) {
			log.Printf("WARN: live status for submission %s: unexpected transition %s -> %s", snapshot.ID, last, snapshot.Status)
		}
		last = snapshot.Status
		history = service.Upsert(history, snapshot)
		if err := emit(Update{Tracked: snapshot, History: history}); err != nil {
			cancel(err)
		}
	})

	cause := context.Cause(ctx)
	if errors.Is(cause, ErrRelayClosed) {
		log.Printf("INFO: live status for submission %s: closed on shutdown", submissionID)
		return nil
	}
	if cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	if errors.Is(err, context.Canceled) {
		log.Printf("INFO: live status for submission %s: viewer left", submissionID)
		return nil
	}
	return err
}
