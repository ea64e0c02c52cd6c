package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the collaborator API is unreachable.
	ErrUnavailable = errors.New("collaborator api unavailable")

	// ErrTimeout indicates the call exceeded its configured timeout.
	ErrTimeout = errors.New("collaborator api request timed out")
)

// StatusError is a non-2xx HTTP response from the collaborator API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collaborator api returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response class is safe to retry: server
// errors are, client errors are not.
func (e *StatusError) Retryable() bool { return e.StatusCode >= 500 }
