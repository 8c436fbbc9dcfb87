package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/botfarm/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the uniform error body. Kind is machine-readable so
// clients can branch without parsing the message.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteServiceError maps a service error to an HTTP status by its kind.
// Access denied is reported as 404 so bot existence is never revealed to
// non-owners.
func WriteServiceError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case core.KindUnauthenticated:
		status = http.StatusUnauthorized
	case core.KindNotVerified:
		status = http.StatusForbidden
	case core.KindAccessDenied:
		status = http.StatusNotFound
	case core.KindValidation:
		status = http.StatusBadRequest
	case core.KindQuotaExceeded:
		status = http.StatusConflict
	}

	message := err.Error()
	var svcErr *core.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	WriteJSON(w, status, ErrorResponse{Error: message, Kind: string(kind)})
}

// PaginatedResponse wraps a list with pagination metadata.
type PaginatedResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, items any, nextCursor string, hasMore bool) {
	WriteJSON(w, status, PaginatedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	})
}
