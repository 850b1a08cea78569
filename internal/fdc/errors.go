package fdc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"
)

// FetchError reports a failed FoodData Central call.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fdc %s (HTTP %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("fdc %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same call may succeed later.
// Transport failures, throttling, server errors and an open breaker are
// retryable; other HTTP errors and cancellation are not.
func (e *FetchError) Retryable() bool {
	switch {
	case errors.Is(e.Err, context.Canceled):
		return false
	case errors.Is(e.Err, gobreaker.ErrOpenState), errors.Is(e.Err, gobreaker.ErrTooManyRequests):
		return true
	case e.Status == 0:
		return true
	case e.Status == http.StatusTooManyRequests:
		return true
	default:
		return e.Status >= 500
	}
}

// IsRetryable reports whether err is a retryable FetchError.
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable()
}
