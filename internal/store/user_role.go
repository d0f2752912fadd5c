// ABOUTME: Store methods for user_roles — at most one role binding per user.
// ABOUTME: Absence of a binding means the user is treated as the lowest-ranked role.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRoleBinding is the single role record owned by a user.
type UserRoleBinding struct {
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetUserRole returns the binding for userID, or (nil, nil) when the user has
// none. Callers treat a missing binding as the lowest-ranked role.
func (s *Store) GetUserRole(ctx context.Context, userID uuid.UUID) (*UserRoleBinding, error) {
	var b UserRoleBinding
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, role, created_at, updated_at FROM user_roles WHERE user_id = $1`,
		userID,
	).Scan(&b.UserID, &b.Role, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user role: %w", err)
	}
	return &b, nil
}

// UpsertUserRole inserts or updates the binding for userID. Idempotent by
// user_id — retries cannot create a second binding.
func (s *Store) UpsertUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	if _, err := s.pool.Exec(ctx, upsertUserRoleSQL, userID, role); err != nil {
		return fmt.Errorf("upsert user role: %w", err)
	}
	return nil
}

// upsertUserRoleSQL is shared with the approval transaction in role_request.go.
const upsertUserRoleSQL = `
	INSERT INTO user_roles (user_id, role)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO UPDATE
	SET role = EXCLUDED.role, updated_at = now()`
