package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNothingToSimulate     = errors.New("nothing to simulate")
)

// APIError is a non-2xx answer from the backend. Detail carries the response's "detail" field when
// present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api responded with status %d: %s", e.StatusCode, e.Detail)
}

// ErrorDetail returns the backend's detail message for err, or fallback when there is none.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
