// ABOUTME: Error-to-status mapping for access service errors.
// ABOUTME: Workflow sentinels map to 4xx; anything else is a logged 500.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/access"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// writeAccessError maps service errors to HTTP statuses. Unrecognized errors
// are persistence failures on an admin write path: they are logged and the
// message is surfaced verbatim so the operator sees what actually failed.
func writeAccessError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, access.ErrRequestNotFound):
		http.Error(w, "role request not found", http.StatusNotFound)
	case errors.Is(err, access.ErrSelfModification):
		http.Error(w, "cannot modify your own role", http.StatusForbidden)
	case errors.Is(err, access.ErrAlreadyProcessed):
		http.Error(w, "role request has already been processed", http.StatusConflict)
	case errors.Is(err, store.ErrDuplicatePendingRequest):
		http.Error(w, "a pending role request already exists", http.StatusConflict)
	case errors.Is(err, rbac.ErrUnknownRole):
		http.Error(w, "unknown role", http.StatusBadRequest)
	case errors.Is(err, access.ErrRoleNotEditable):
		http.Error(w, "role is not editable", http.StatusBadRequest)
	case errors.Is(err, access.ErrUnknownFeature):
		http.Error(w, "unknown feature key", http.StatusBadRequest)
	default:
		slog.ErrorContext(r.Context(), action, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
