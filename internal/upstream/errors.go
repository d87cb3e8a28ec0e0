package upstream

import (
	"fmt"
	"net/http"

	"github.com/sevadhara/console/internal/platform/httpx"
)

// APIError is returned for every non-2xx answer from the remote API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s %s: %d", e.Method, e.Path, e.Status)
}

// Unwrap exposes the matching httpx sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return httpx.ErrNotFound
	case http.StatusUnauthorized:
		return httpx.ErrUnauthorized
	case http.StatusForbidden:
		return httpx.ErrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return httpx.ErrValidation
	case http.StatusConflict:
		return httpx.ErrDuplicate
	}
	if e.Status >= 500 {
		return httpx.ErrUpstream
	}
	return nil
}
