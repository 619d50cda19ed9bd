package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
	ErrUnavailable  = errors.New("backend: cannot reach server")
)

// APIError is a rejection the user can act on, e.g. a table that is already
// booked. Message is the backend's own text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

// IsConflict reports whether the backend refused the request because of the
// current state of its data (409, 422) or the request content (400).
func (e *APIError) IsConflict() bool {
	switch e.Status {
	case http.StatusConflict, http.StatusUnprocessableEntity, http.StatusBadRequest:
		return true
	}
	return false
}

// statusError turns a non-2xx response into the error taxonomy.
func statusError(status int, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return ErrUnavailable
	}

	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}
