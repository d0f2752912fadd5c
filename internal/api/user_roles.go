// ABOUTME: HTTP handlers for direct role assignment — GET/PUT /users/{user_id}/role.
// ABOUTME: Admin-gated in the router; the self-modification guard lives in the access service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
)

// userRoleEntry is the JSON representation of a user's role binding.
type userRoleEntry struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Rank   int    `json:"rank"`
}

// putUserRoleBody is the request body for PUT /users/{user_id}/role.
type putUserRoleBody struct {
	Role string `json:"role"`
}

// getUserRoleHandler handles GET /api/v1/users/{user_id}/role.
// Admin-gated. A user without a binding reports the lowest-ranked role.
func (srv *Server) getUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	role, err := srv.svc.RoleForUser(r.Context(), targetID)
	if err != nil {
		writeAccessError(w, r, err, "get user role")
		return
	}

	rank, _ := rbac.RankOf(role)
	writeJSON(w, http.StatusOK, userRoleEntry{
		UserID: targetID.String(),
		Role:   string(role),
		Rank:   rank,
	})
}

// putUserRoleHandler handles PUT /api/v1/users/{user_id}/role.
// Admin-gated. Idempotent upsert; admins cannot change their own role.
func (srv *Server) putUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	actingID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	var req putUserRoleBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role, ok := rbac.ParseRole(req.Role)
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	if err := srv.svc.AssignRole(r.Context(), actingID, targetID, role); err != nil {
		writeAccessError(w, r, err, "assign role")
		return
	}

	rank, _ := rbac.RankOf(role)
	writeJSON(w, http.StatusOK, userRoleEntry{
		UserID: targetID.String(),
		Role:   string(role),
		Rank:   rank,
	})
}
