package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx backend response. ErrorText and MessageText are the
// "error" and "message" fields of the body when it carried them.
type APIError struct {
	StatusCode  int
	ErrorText   string
	MessageText string
}

// Error prefers the backend's "error" field, then "message", then the bare
// status.
func (e *APIError) Error() string {
	switch {
	case e.ErrorText != "":
		return e.ErrorText
	case e.MessageText != "":
		return e.MessageText
	default:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// ServerFault reports a 5xx status.
func (e *APIError) ServerFault() bool {
	return e.StatusCode >= 500
}

func newAPIError(status int, body map[string]any) *APIError {
	e := &APIError{StatusCode: status}
	if s, ok := body["error"].(string); ok {
		e.ErrorText = s
	}
	if s, ok := body["message"].(string); ok {
		e.MessageText = s
	}
	return e
}
