// ABOUTME: Role hierarchy — fixed role set with integer ranks for seniority checks.
// ABOUTME: Ranks are strictly increasing with seniority and deliberately non-contiguous.
package rbac

import (
	"errors"
	"fmt"
)

// Role identifies a position in the organizational hierarchy. The set is
// fixed; roles are never created or deleted at runtime.
type Role string

// All roles, least to most senior.
const (
	RoleUser                 Role = "user"
	RoleProjectManager       Role = "project_manager"
	RoleSeniorProjectManager Role = "senior_project_manager"
	RoleProgramManager       Role = "program_manager"
	RolePMO                  Role = "pmo"
	RoleExecutive            Role = "executive"
	RoleAdmin                Role = "admin"
)

// ErrUnknownRole is returned when a role identifier is not part of the fixed set.
var ErrUnknownRole = errors.New("unknown role")

// ranks leave gaps so a role can be inserted later without renumbering.
var ranks = map[Role]int{
	RoleUser:                 0,
	RoleProjectManager:       10,
	RoleSeniorProjectManager: 20,
	RoleProgramManager:       30,
	RolePMO:                  40,
	RoleExecutive:            50,
	RoleAdmin:                100,
}

var displayNames = map[Role]string{
	RoleUser:                 "User",
	RoleProjectManager:       "Project Manager",
	RoleSeniorProjectManager: "Senior Project Manager",
	RoleProgramManager:       "Program Manager",
	RolePMO:                  "PMO",
	RoleExecutive:            "Executive",
	RoleAdmin:                "Administrator",
}

var descriptions = map[Role]string{
	RoleUser:                 "Standard team member with day-to-day workspace access",
	RoleProjectManager:       "Manages individual projects and their delivery",
	RoleSeniorProjectManager: "Senior delivery lead with reporting and budget visibility",
	RoleProgramManager:       "Oversees a portfolio of related projects",
	RolePMO:                  "Project management office with tenant-wide oversight",
	RoleExecutive:            "Executive stakeholder with read-focused visibility",
	RoleAdmin:                "Full administrative control",
}

// Roles returns every role ordered by ascending rank.
func Roles() []Role {
	return []Role{
		RoleUser,
		RoleProjectManager,
		RoleSeniorProjectManager,
		RoleProgramManager,
		RolePMO,
		RoleExecutive,
		RoleAdmin,
	}
}

// ParseRole converts a string to a Role. The second return is false for
// identifiers outside the fixed set.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := ranks[r]
	return r, ok
}

// RankOf returns the hierarchy rank of r. An unknown role is a caller
// contract violation, not a runtime condition, and returns ErrUnknownRole.
func RankOf(r Role) (int, error) {
	rank, ok := ranks[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, r)
	}
	return rank, nil
}

// rankOrBelow returns the rank of r, or -1 for unknown roles so that an
// unrecognized identifier sits below every real role (fail-closed).
func rankOrBelow(r Role) int {
	rank, ok := ranks[r]
	if !ok {
		return -1
	}
	return rank
}

// MeetsMinimum reports whether r is at least as senior as threshold.
// Unknown roles never meet any threshold.
func MeetsMinimum(r, threshold Role) bool {
	t, ok := ranks[threshold]
	if !ok {
		return false
	}
	return rankOrBelow(r) >= t
}

// DisplayName returns the human-readable name for r, falling back to the
// raw identifier for unknown roles.
func DisplayName(r Role) string {
	if n, ok := displayNames[r]; ok {
		return n
	}
	return string(r)
}

// Description returns the free-text description for r.
func Description(r Role) string {
	return descriptions[r]
}
