package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError means the vendor answered 429.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// UnavailableError means the vendor could not be reached or failed
// server-side.
type UnavailableError struct {
	Status int // 0 when no HTTP status was received
	Err    error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("model unavailable (status %d): %v", e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("model unavailable: %v", e.Err)
	default:
		return "model unavailable"
	}
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// InvalidOutputError means the answer did not match the requested schema.
type InvalidOutputError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("model output rejected: %v", e.Err)
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

// TruncatedError means the answer hit MaxTokens before it was complete.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "model output truncated at max tokens"
}

// classifyStatus maps a vendor HTTP status onto the error types above.
// status 0 means the request never got an answer.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &UnavailableError{Status: status, Err: err}
}
