package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited is wrapped when the backend answered 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable is wrapped for every other failed call.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrEmptyResponse is returned when the backend answered without text.
	ErrEmptyResponse = errors.New("response has no text")
)

// callError classifies a failed SDK call by the HTTP status it reported.
// status is zero when no response was received.
func callError(backend string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %w", backend, ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w: %w", backend, ErrUnavailable, err)
}

func emptyResponse(backend string) error {
	return fmt.Errorf("%s: %w", backend, ErrEmptyResponse)
}
