package llm

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrNotInstalled  = errors.New("provider not installed")
	ErrUnknown       = errors.New("unknown provider")
)

// NotReadyError is returned by Provider.Ready. Message is what the user sees.
type NotReadyError struct {
	Provider string
	Err      error // ErrNotConfigured or ErrNotInstalled
	Message  string
}

func (e *NotReadyError) Error() string { return e.Message }
func (e *NotReadyError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from a hosted provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ExitError is a CLI provider that exited non-zero.
type ExitError struct {
	Provider string
	Code     int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Provider, e.Code, e.Stderr)
}

// TimeoutError is a CLI provider that was terminated for running too long.
type TimeoutError struct {
	Provider string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Provider, e.After)
}
