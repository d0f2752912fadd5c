// ABOUTME: Public huma routes for the static role hierarchy and feature catalogue.
// ABOUTME: These describe code-defined data only — no database access, safe unauthenticated.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
)

// registerCatalogRoutes wires up the two read-only catalogue endpoints.
//
//	GET /roles    — role hierarchy with ranks and display metadata
//	GET /features — feature catalogue with baseline role grants
func registerCatalogRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-roles",
		Method:      http.MethodGet,
		Path:        "/roles",
		Summary:     "List roles",
		Description: "Returns the role hierarchy ordered from least to most privileged.",
		Tags:        []string{"Catalog"},
	}, listRolesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "list-features",
		Method:      http.MethodGet,
		Path:        "/features",
		Summary:     "List features",
		Description: "Returns the feature catalogue with the baseline roles granted each feature.",
		Tags:        []string{"Catalog"},
	}, listFeaturesHandler)
}

// RoleItem is the API representation of one role in the hierarchy.
type RoleItem struct {
	Role        string `json:"role"`
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// RolesOutput is the response for GET /roles.
type RolesOutput struct {
	Body struct {
		Roles []RoleItem `json:"roles"`
	}
}

func listRolesHandler(_ context.Context, _ *struct{}) (*RolesOutput, error) {
	out := &RolesOutput{}
	for _, role := range rbac.Roles() {
		rank, err := rbac.RankOf(role)
		if err != nil {
			continue
		}
		out.Body.Roles = append(out.Body.Roles, RoleItem{
			Role:        string(role),
			Rank:        rank,
			DisplayName: rbac.DisplayName(role),
			Description: rbac.Description(role),
		})
	}
	return out, nil
}

// FeatureItem is the API representation of one catalogue feature.
type FeatureItem struct {
	Key           string   `json:"key"`
	BaselineRoles []string `json:"baseline_roles"`
}

// FeaturesOutput is the response for GET /features.
type FeaturesOutput struct {
	Body struct {
		Features []FeatureItem `json:"features"`
	}
}

func listFeaturesHandler(_ context.Context, _ *struct{}) (*FeaturesOutput, error) {
	out := &FeaturesOutput{}
	for _, key := range rbac.Catalogue() {
		roles := rbac.BaselineRoles(key)
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, string(r))
		}
		out.Body.Features = append(out.Body.Features, FeatureItem{
			Key:           string(key),
			BaselineRoles: names,
		})
	}
	return out, nil
}
