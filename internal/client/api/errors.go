package api

import (
	"fmt"
	"net/http"

	"github.com/revline/revline-go/internal/common"
)

// APIError is the uniform rejection for any non-2xx backend response.
// Status and the backend-provided message are always preserved; the
// diagnostic fields are populated when the backend sends them (403
// responses carry the permission diagnostics, 422-class responses carry
// the field error map, which this layer passes through uninterpreted).
type APIError struct {
	Status             int
	Message            string
	RequiredPermission string
	YourRoles          []string
	YourPermissions    []string
	Fields             map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps auth statuses onto the shared sentinels so callers can use
// errors.Is(err, common.ErrUnauthorized) without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrForbidden
	}
	return nil
}

// errorBody is the wire shape of backend error responses.
type errorBody struct {
	Message            string              `json:"message"`
	RequiredPermission string              `json:"required_permission"`
	YourRoles          []string            `json:"your_roles"`
	YourPermissions    []string            `json:"your_permissions"`
	Errors             map[string][]string `json:"errors"`
}
