// ABOUTME: Error taxonomy for role assignment and the request workflow.
// ABOUTME: Sentinels are matched with errors.Is by the HTTP layer for status mapping.
package access

import "errors"

var (
	// ErrSelfModification is returned when a caller attempts to change their
	// own role, via direct assignment or by approving their own request.
	// This is an absolute guard, not a permission check — it applies to
	// admins too and is never retried.
	ErrSelfModification = errors.New("cannot modify your own role")

	// ErrAlreadyProcessed is returned when a role request has already been
	// approved or rejected, typically because another reviewer got there
	// first.
	ErrAlreadyProcessed = errors.New("role request has already been processed")

	// ErrRequestNotFound is returned when the referenced role request does
	// not exist.
	ErrRequestNotFound = errors.New("role request not found")

	// ErrRoleNotEditable is returned when the editor targets the admin role,
	// which is granted everything in code and must never appear as an
	// editable row.
	ErrRoleNotEditable = errors.New("role is not editable")

	// ErrUnknownFeature is returned when the editor submits a feature key
	// outside the catalogue.
	ErrUnknownFeature = errors.New("unknown feature key")
)
