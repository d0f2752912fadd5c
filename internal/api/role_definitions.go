// ABOUTME: HTTP handlers for the feature toggle editor — GET/PUT role-definitions.
// ABOUTME: PUT fully replaces a role's feature set; an empty list is a meaningful override.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// roleDefinitionEntry is the JSON representation of a customized role.
type roleDefinitionEntry struct {
	Role        string   `json:"role"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Rank        int      `json:"rank"`
	Permissions []string `json:"permissions"`
	UpdatedAt   string   `json:"updated_at"`
}

func toRoleDefinitionEntry(d *store.RoleDefinition) roleDefinitionEntry {
	perms := make([]string, 0, len(d.Permissions))
	for _, p := range d.Permissions {
		perms = append(perms, string(p))
	}
	return roleDefinitionEntry{
		Role:        string(d.Role),
		DisplayName: d.DisplayName,
		Description: d.Description,
		Rank:        d.HierarchyLevel,
		Permissions: perms,
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}

// putRoleDefinitionBody is the request body for PUT /role-definitions/{role}.
type putRoleDefinitionBody struct {
	Permissions []string `json:"permissions"`
}

// listRoleDefinitionsHandler handles GET /api/v1/role-definitions.
// Admin-gated. Returns only customized roles; roles without a row still run on
// the baseline.
func (srv *Server) listRoleDefinitionsHandler(w http.ResponseWriter, r *http.Request) {
	defs, err := srv.svc.RoleDefinitions(r.Context())
	if err != nil {
		writeAccessError(w, r, err, "list role definitions")
		return
	}

	entries := make([]roleDefinitionEntry, 0, len(defs))
	for i := range defs {
		entries = append(entries, toRoleDefinitionEntry(&defs[i]))
	}
	writeJSON(w, http.StatusOK, entries)
}

// putRoleDefinitionHandler handles PUT /api/v1/role-definitions/{role}.
// Admin-gated. Replaces the role's feature set wholesale — the saved list is
// exactly what the role can access afterwards, empty included.
func (srv *Server) putRoleDefinitionHandler(w http.ResponseWriter, r *http.Request) {
	role, ok := rbac.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	var req putRoleDefinitionBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Permissions == nil {
		http.Error(w, "permissions is required", http.StatusBadRequest)
		return
	}

	features := make([]rbac.FeatureKey, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		features = append(features, rbac.FeatureKey(p))
	}

	def, err := srv.svc.ReplaceRoleDefinition(r.Context(), role, features)
	if err != nil {
		writeAccessError(w, r, err, "replace role definition")
		return
	}
	writeJSON(w, http.StatusOK, toRoleDefinitionEntry(def))
}
