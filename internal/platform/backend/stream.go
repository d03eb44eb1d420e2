package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/metrics"
	"log"
	"net/http"
	"net/url"

	"github.com/tmaxmax/go-sse"
)

// ErrStreamClosed is returned when the backend ends the live stream.
var ErrStreamClosed = errors.New("status stream closed by backend")

// StreamStatus subscribes to live snapshots of one submission and calls
// onUpdate for each, in arrival order, until ctx is done or the stream
// fails. Payloads that do not decode are logged and skipped. There is no
// reconnect.
func (c *Client) StreamStatus(ctx context.Context, auth Auth, submissionID string, onUpdate func(model.Submission)) error {
	resp, err := c.send(ctx, auth, request{
		op:        "tasks.status",
		method:    http.MethodGet,
		path:      "/api/tasks/status",
		query:     url.Values{"submissionId": {submissionID}},
		accept:    "text/event-stream",
		streaming: true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for ev, err := range sse.Read(resp.Body, nil) {
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrStreamClosed
			}
			return fmt.Errorf("tasks.status: read stream: %w", err)
		}
		if ev.Type != "" && ev.Type != "message" {
			metrics.LiveEvents.WithLabelValues("ignored").Inc()
			continue
		}

		var snapshot model.Submission
		if err := json.Unmarshal([]byte(ev.Data), &snapshot); err != nil || snapshot.ID == "" {
			if err == nil {
				err = errors.New("snapshot without id")
			}
			log.Printf("WARN: live status for submission %s: dropping malformed event: %v", submissionID, err)
			metrics.LiveEvents.WithLabelValues("malformed").Inc()
			continue
		}
		metrics.LiveEvents.WithLabelValues("applied").Inc()
		onUpdate(snapshot)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return ErrStreamClosed
}
