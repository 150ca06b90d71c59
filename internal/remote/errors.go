package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure is returned when the request did not complete with a success status.
	ErrNetworkFailure = errors.New("recipe endpoint request failed")

	// ErrInvalidPayload is returned when the endpoint answered with something that is not a recipe list.
	ErrInvalidPayload = errors.New("recipe endpoint returned an invalid payload")
)

// StatusError carries the status of a non-success response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s answered with status %d", ErrNetworkFailure, e.URL, e.StatusCode)
}

// Is matches ErrNetworkFailure.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetworkFailure
}
