package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 or 422 answer: the token is expired or invalid.
	ErrUnauthorized = errors.New("session expired or invalid")
	// ErrForbidden matches a 403 answer. The session stays valid.
	ErrForbidden = errors.New("permission denied")
)

const genericMessage = "Something went wrong. Please try again."

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return isUnauthorizedStatus(e.Status)
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

func isUnauthorizedStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not come
// from an API answer.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server-provided message carried by err, or the generic
// fallback.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericMessage
}
