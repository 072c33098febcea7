package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when a task does not exist, remotely or in cache.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for missing, expired or rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable wraps transport failures: the server could not be reached.
	ErrUnavailable = errors.New("unable to reach task server")

	// ErrInvalidResponse is returned when a response body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap maps well-known status codes onto the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Describe returns a short user-facing description of err, prefixed with its
// failure category.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrUnavailable):
		return "network error: " + err.Error()
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrUnauthorized):
		return "auth error: " + err.Error()
	case errors.As(err, &statusErr):
		return "server error: " + strings.TrimSpace(statusErr.Error())
	case errors.Is(err, ErrInvalidResponse):
		return "bad response: " + err.Error()
	default:
		return "backend error: " + err.Error()
	}
}
