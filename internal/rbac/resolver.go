// ABOUTME: Pure permission resolver — answers "can role R use feature F" with no I/O.
// ABOUTME: Overrides fully replace the baseline per role; they never merge with it.
package rbac

import "slices"

// Overrides is the per-role customized feature set loaded from the dynamic
// permission store. A role that is present in the map — even with an empty
// slice — has been customized, and its entry is the sole source of truth for
// that role. A role that is absent falls back to the static baseline.
//
// The distinction between an empty entry and a missing entry is deliberate:
// an administrator who strips a role down to zero features must not silently
// re-enable the baseline.
type Overrides map[Role][]FeatureKey

// CanAccess decides whether role may use feature.
//
// Decision order:
//  1. admin is granted everything unconditionally. This branch is the only
//     place admin privilege exists; admin never appears in overrides or the
//     baseline.
//  2. A customized role is checked against its override set only.
//  3. Otherwise the static baseline applies; features missing from the
//     baseline deny by default.
//
// Unknown roles carry no baseline entries and no overrides, so they resolve
// to false without being treated as an error.
func CanAccess(role Role, feature FeatureKey, overrides Overrides) bool {
	if role == RoleAdmin {
		return true
	}
	if set, customized := overrides[role]; customized {
		return slices.Contains(set, feature)
	}
	allowed, ok := baseline[feature]
	if !ok {
		return false
	}
	return slices.Contains(allowed, role)
}
