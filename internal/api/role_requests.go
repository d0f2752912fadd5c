// ABOUTME: HTTP handlers for the role-change request workflow: submit, list, approve, reject.
// ABOUTME: Decision routes are admin-gated in the router; guards live in the access service.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// roleRequestEntry is the JSON representation of a role request.
type roleRequestEntry struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	RequestedRole string  `json:"requested_role"`
	Status        string  `json:"status"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// roleRequestListEntry adds requester profile fields for the admin list view.
type roleRequestListEntry struct {
	roleRequestEntry
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func toRoleRequestEntry(r *store.RoleRequest) roleRequestEntry {
	e := roleRequestEntry{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		RequestedRole: r.RequestedRole,
		Status:        r.Status,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedBy != nil {
		s := r.ReviewedBy.String()
		e.ReviewedBy = &s
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		e.ReviewedAt = &s
	}
	return e
}

// submitRoleRequestBody is the request body for POST /role-requests.
type submitRoleRequestBody struct {
	RequestedRole string `json:"requested_role"`
}

// submitRoleRequestHandler handles POST /api/v1/role-requests.
// Any authenticated user may file a request for themselves; one open request
// per user.
func (srv *Server) submitRoleRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitRoleRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role, ok := rbac.ParseRole(req.RequestedRole)
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	created, err := srv.svc.SubmitRoleRequest(r.Context(), userID, role)
	if err != nil {
		writeAccessError(w, r, err, "submit role request")
		return
	}
	writeJSON(w, http.StatusCreated, toRoleRequestEntry(created))
}

// listRoleRequestsHandler handles GET /api/v1/role-requests.
// Admin-gated. Supports ?status= filtering; rows include requester profiles.
func (srv *Server) listRoleRequestsHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.RoleRequestFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		if status != store.RequestPending && status != store.RequestApproved && status != store.RequestRejected {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = status
	}

	rows, err := srv.svc.ListRoleRequests(r.Context(), filter)
	if err != nil {
		writeAccessError(w, r, err, "list role requests")
		return
	}

	entries := make([]roleRequestListEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, roleRequestListEntry{
			roleRequestEntry: toRoleRequestEntry(&rows[i].RoleRequest),
			DisplayName:      rows[i].DisplayName,
			Email:            rows[i].Email,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// decisionBody is the request body for approve/reject.
type decisionBody struct {
	AdminNotes string `json:"admin_notes"`
}

// approveRoleRequestHandler handles POST /api/v1/role-requests/{id}/approve.
// Admin-gated. Assigns the requested role and records reviewer metadata.
func (srv *Server) approveRoleRequestHandler(w http.ResponseWriter, r *http.Request) {
	srv.decideRoleRequest(w, r, true)
}

// rejectRoleRequestHandler handles POST /api/v1/role-requests/{id}/reject.
// Admin-gated. Never touches the requester's role binding.
func (srv *Server) rejectRoleRequestHandler(w http.ResponseWriter, r *http.Request) {
	srv.decideRoleRequest(w, r, false)
}

func (srv *Server) decideRoleRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	reviewerID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	// Notes are optional; an empty body is fine.
	var req decisionBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var decided *store.RoleRequest
	if approve {
		decided, err = srv.svc.ApproveRoleRequest(r.Context(), requestID, reviewerID, req.AdminNotes)
	} else {
		decided, err = srv.svc.RejectRoleRequest(r.Context(), requestID, reviewerID, req.AdminNotes)
	}
	if err != nil {
		writeAccessError(w, r, err, "decide role request")
		return
	}
	writeJSON(w, http.StatusOK, toRoleRequestEntry(decided))
}
