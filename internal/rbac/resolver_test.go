// ABOUTME: Unit tests for the permission resolver — escape hatch, override replacement,
// ABOUTME: baseline fallback, and deny-by-default for unknown feature keys.
package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess_AdminEscapeHatch(t *testing.T) {
	t.Parallel()
	// Admin passes for every catalogued feature, with or without overrides.
	overrides := Overrides{
		RoleAdmin: {}, // must be ignored even if somehow present
	}
	for _, f := range Catalogue() {
		assert.True(t, CanAccess(RoleAdmin, f, nil), "admin denied %s", f)
		assert.True(t, CanAccess(RoleAdmin, f, overrides), "admin denied %s with overrides", f)
	}
	// Even unknown keys: the escape hatch precedes the catalogue lookup.
	assert.True(t, CanAccess(RoleAdmin, FeatureKey("nonexistent"), nil))
}

func TestCanAccess_BaselineFallback(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		role    Role
		feature FeatureKey
		want    bool
	}{
		{"user dashboard allowed", RoleUser, FeatureDashboard, true},
		{"user portfolio denied", RoleUser, FeaturePortfolio, false},
		{"program_manager dashboard allowed", RoleProgramManager, FeatureDashboard, true},
		{"program_manager reports allowed", RoleProgramManager, FeatureReports, true},
		{"program_manager stakeholders allowed", RoleProgramManager, FeatureStakeholders, true},
		{"program_manager tasks denied", RoleProgramManager, FeatureTasks, false},
		{"executive aiInsights allowed", RoleExecutive, FeatureAIInsights, true},
		{"nobody gets adminDashboard from baseline", RoleExecutive, FeatureAdminDashboard, false},
		{"unknown feature denied", RolePMO, FeatureKey("crystalBall"), false},
		{"unknown role denied", Role("intern"), FeatureDashboard, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CanAccess(tc.role, tc.feature, nil))
		})
	}
}

func TestCanAccess_OverrideReplacesBaseline(t *testing.T) {
	t.Parallel()
	// user customized down to meetings only: everything else the baseline
	// granted must now be denied.
	overrides := Overrides{RoleUser: {FeatureMeetings}}

	assert.True(t, CanAccess(RoleUser, FeatureMeetings, overrides))
	assert.False(t, CanAccess(RoleUser, FeatureDashboard, overrides),
		"override must fully replace the baseline, not merge with it")
	assert.False(t, CanAccess(RoleUser, FeatureTasks, overrides))

	// Other roles are untouched by user's override.
	assert.True(t, CanAccess(RoleProjectManager, FeatureDashboard, overrides))
}

func TestCanAccess_OverrideCanGrantBeyondBaseline(t *testing.T) {
	t.Parallel()
	// Baseline denies user the portfolio screen; an override can grant it.
	overrides := Overrides{RoleUser: {FeaturePortfolio}}
	assert.True(t, CanAccess(RoleUser, FeaturePortfolio, overrides))
}

func TestCanAccess_ExplicitlyEmptyOverride(t *testing.T) {
	t.Parallel()
	// An empty entry means "customized to zero features", not "fall back to
	// baseline". The presence of the map entry is the customization marker.
	overrides := Overrides{RoleUser: {}}
	for _, f := range Catalogue() {
		assert.False(t, CanAccess(RoleUser, f, overrides),
			"explicitly empty override must deny %s", f)
	}
	// Absent entry still falls back.
	assert.True(t, CanAccess(RoleProjectManager, FeatureProjects, overrides))
}

func TestBaseline_AdminNeverListed(t *testing.T) {
	t.Parallel()
	for _, f := range Catalogue() {
		for _, r := range BaselineRoles(f) {
			assert.NotEqual(t, RoleAdmin, r, "admin must not appear in the %s baseline", f)
		}
	}
}

func TestCatalogueSize(t *testing.T) {
	t.Parallel()
	assert.Len(t, Catalogue(), 19)
	for _, f := range Catalogue() {
		assert.True(t, KnownFeature(f))
	}
}
