// ABOUTME: Handlers for feature access checks and the caller's own role.
// ABOUTME: These are the hot-path endpoints the dashboard hits on navigation.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
)

// accessEntry is the JSON response for GET /access/{feature}.
type accessEntry struct {
	Feature string `json:"feature"`
	Role    string `json:"role"`
	Allowed bool   `json:"allowed"`
}

// checkAccessHandler handles GET /api/v1/access/{feature}.
// Returns the decision for the caller's current role. Unknown feature keys are
// a 400 rather than a silent deny so that dashboard typos surface in dev.
func (srv *Server) checkAccessHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	feature := rbac.FeatureKey(chi.URLParam(r, "feature"))
	if !rbac.KnownFeature(feature) {
		http.Error(w, "unknown feature key", http.StatusBadRequest)
		return
	}

	role, err := srv.svc.RoleForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "resolve role", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, accessEntry{
		Feature: string(feature),
		Role:    string(role),
		Allowed: srv.svc.CanAccess(r.Context(), role, feature),
	})
}

// myRoleEntry is the JSON response for GET /me/role.
type myRoleEntry struct {
	Role        string   `json:"role"`
	Rank        int      `json:"rank"`
	DisplayName string   `json:"display_name"`
	Features    []string `json:"features"`
}

// myRoleHandler handles GET /api/v1/me/role.
// Returns the caller's effective role and the features it can currently
// access, so the dashboard can build its navigation in one round trip.
func (srv *Server) myRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	role, err := srv.svc.RoleForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "resolve role", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rank, _ := rbac.RankOf(role)
	features := make([]string, 0, len(rbac.Catalogue()))
	for _, key := range rbac.Catalogue() {
		if srv.svc.CanAccess(r.Context(), role, key) {
			features = append(features, string(key))
		}
	}

	writeJSON(w, http.StatusOK, myRoleEntry{
		Role:        string(role),
		Rank:        rank,
		DisplayName: rbac.DisplayName(role),
		Features:    features,
	})
}
