package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable") // backend unreachable
	ErrInFlight           = errors.New("another request is already in flight")
	ErrNoFileSelected     = errors.New("no file selected")
)

// SubmissionNotAllowedTitle is the problem title the backend uses for quota
// and deadline rejections.
const SubmissionNotAllowedTitle = "Submission Not Allowed"

// ProblemError is a non-2xx backend response that carried an RFC 7807
// problem body.
type ProblemError struct {
	Status int    `json:"status"`
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *ProblemError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

// Unwrap lets errors.Is match the sentinel for the status code.
func (e *ProblemError) Unwrap() error {
	return SentinelForStatus(e.Status)
}

// IsSubmissionNotAllowed returns the backend's detail message when err is
// the structured 403 submission rejection.
func IsSubmissionNotAllowed(err error) (string, bool) {
	var pe *ProblemError
	if errors.As(err, &pe) && pe.Status == http.StatusForbidden && pe.Title == SubmissionNotAllowedTitle {
		return pe.Detail, true
	}
	return "", false
}

// ProblemDetail returns the detail of a problem body anywhere in err's chain.
func ProblemDetail(err error) (string, bool) {
	var pe *ProblemError
	if errors.As(err, &pe) && pe.Detail != "" {
		return pe.Detail, true
	}
	return "", false
}

// SentinelForStatus maps a backend status code onto the error vocabulary
// of this package. It returns nil for codes with no sentinel.
func SentinelForStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case code >= 500:
		return ErrServiceUnavailable
	}
	return nil
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNoFileSelected) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInFlight) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
