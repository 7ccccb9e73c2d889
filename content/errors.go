package content

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned by a client created without a token.
	ErrNoToken = errors.New("content: no access token configured")
	// ErrNotFound is returned when a path does not exist.
	ErrNotFound = errors.New("content: not found")
	// ErrConflict is returned when a write carries a stale or missing sha.
	ErrConflict = errors.New("content: revision conflict")
)

// APIError is a non-success response from the contents API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("content api: %d %s", e.Status, e.Message)
}

// Is maps status codes onto the package sentinels so callers can use
// errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict || e.Status == http.StatusUnprocessableEntity
	}
	return false
}
