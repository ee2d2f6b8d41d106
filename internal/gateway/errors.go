package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrRetryExhausted matches any *RetryExhaustedError via errors.Is.
var ErrRetryExhausted = errors.New("statistics still processing")

// RetryExhaustedError is returned when GitHub kept answering 202 Accepted
// for every permitted attempt.
type RetryExhaustedError struct {
	Attempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("request did not succeed after %d attempts: %v", e.Attempts, ErrRetryExhausted)
}

func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// TransportError wraps a network failure or an unexpected HTTP status.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d: %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a successful response body does not have the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode contributor statistics: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsCancellation reports whether err stems from a cancelled or expired context
// rather than from GitHub.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
