package netx

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBody          = errors.New("empty response body")
	ErrInvalidJSON        = errors.New("invalid JSON response")
	ErrInvalidContentType = errors.New("invalid content-type")
	ErrRetriesExhausted   = errors.New("retries exhausted")
)

// StatusError is a non-2xx response rejected by FetchWithRetry.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// RetriesError is returned once every attempt has failed. It matches both
// ErrRetriesExhausted and the last attempt's error.
type RetriesError struct {
	Attempts int
	Err      error
}

func (e *RetriesError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Err}
}
