package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"judge_web/internal/common"
	"judge_web/internal/platform/metrics"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	ContentTypeJSON = "application/json"
	maxErrorBody    = 64 << 10
)

// Client calls the judge backend on behalf of one browser user. It holds
// no per-user state; every call takes the caller's Auth.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	stream  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	transport := otelhttp.NewTransport(http.DefaultTransport)
	return &Client{
		baseURL: u,
		http:    &http.Client{Transport: transport, Timeout: timeout},
		// Live streams stay open for as long as grading takes.
		stream: &http.Client{Transport: transport},
	}, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Auth carries the browser's backend credentials: its cookies minus the
// ones that belong to this server.
type Auth struct {
	Cookie string
}

// AuthFromRequest forwards every cookie of r except those named in skip.
func AuthFromRequest(r *http.Request, skip ...string) Auth {
	var parts []string
outer:
	for _, cookie := range r.Cookies() {
		for _, name := range skip {
			if cookie.Name == name {
				continue outer
			}
		}
		parts = append(parts, cookie.Name+"="+cookie.Value)
	}
	return Auth{Cookie: strings.Join(parts, "; ")}
}

// StatusError is a non-2xx response without a problem body.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status code %d, response body: %s", e.Op, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return common.SentinelForStatus(e.Code)
}

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{common.ErrServiceUnavailable, e.Err}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	accept      string
	streaming   bool
}

// send performs the request and returns the response only for 2xx codes;
// the caller owns the body.
func (c *Client) send(ctx context.Context, auth Auth, rq request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, rq.method, c.endpoint(rq.path, rq.query), rq.body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", rq.op, err)
	}
	if rq.contentType != "" {
		req.Header.Set("Content-Type", rq.contentType)
	}
	if rq.accept != "" {
		req.Header.Set("Accept", rq.accept)
	} else {
		req.Header.Set("Accept", ContentTypeJSON)
	}
	if auth.Cookie != "" {
		req.Header.Set("Cookie", auth.Cookie)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	httpClient := c.http
	if rq.streaming {
		httpClient = c.stream
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(rq.op, "error").Inc()
		return nil, &TransportError{Op: rq.op, Err: err}
	}
	metrics.BackendRequests.WithLabelValues(rq.op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(rq.op, resp)
	}
	return resp, nil
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var problem common.ProblemError
	if len(raw) > 0 && json.Unmarshal(raw, &problem) == nil && (problem.Title != "" || problem.Detail != "") {
		problem.Status = resp.StatusCode
		return &problem
	}
	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}

// call sends in as JSON (when non-nil) and decodes the response into out
// (when non-nil).
func (c *Client) call(ctx context.Context, auth Auth, op, method, path string, in, out interface{}) error {
	rq := request{op: op, method: method, path: path}
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rq.body = bytes.NewReader(bodyBytes)
		rq.contentType = ContentTypeJSON
	}
	resp, err := c.send(ctx, auth, rq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response body", op)
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
