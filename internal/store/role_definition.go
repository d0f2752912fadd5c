// ABOUTME: Store methods for role_definitions — the persisted per-role permission overrides.
// ABOUTME: Rows are created lazily on first edit; a row's presence marks the role as customized.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
)

// RoleDefinition is one editable role row. The admin role never has a row;
// a database constraint enforces this in addition to the service-level guard.
type RoleDefinition struct {
	Role           rbac.Role
	DisplayName    string
	Description    string
	HierarchyLevel int
	Permissions    []rbac.FeatureKey
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const roleDefinitionColumns = `role, display_name, description, hierarchy_level, permissions, created_at, updated_at`

func scanRoleDefinition(row pgx.Row) (*RoleDefinition, error) {
	var (
		def   RoleDefinition
		role  string
		perms []string
	)
	if err := row.Scan(&role, &def.DisplayName, &def.Description,
		&def.HierarchyLevel, &perms, &def.CreatedAt, &def.UpdatedAt); err != nil {
		return nil, err
	}
	def.Role = rbac.Role(role)
	def.Permissions = make([]rbac.FeatureKey, len(perms))
	for i, p := range perms {
		def.Permissions[i] = rbac.FeatureKey(p)
	}
	return &def, nil
}

// ListRoleDefinitions returns all override rows ordered by hierarchy rank.
func (s *Store) ListRoleDefinitions(ctx context.Context) ([]RoleDefinition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+roleDefinitionColumns+` FROM role_definitions ORDER BY hierarchy_level`)
	if err != nil {
		return nil, fmt.Errorf("list role definitions: %w", err)
	}
	defer rows.Close()

	var defs []RoleDefinition
	for rows.Next() {
		def, err := scanRoleDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("list role definitions: %w", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list role definitions: %w", err)
	}
	return defs, nil
}

// GetRoleDefinition returns the override row for role, or (nil, nil) if the
// role has never been customized.
func (s *Store) GetRoleDefinition(ctx context.Context, role rbac.Role) (*RoleDefinition, error) {
	def, err := scanRoleDefinition(s.pool.QueryRow(ctx,
		`SELECT `+roleDefinitionColumns+` FROM role_definitions WHERE role = $1`, string(role)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get role definition: %w", err)
	}
	return def, nil
}

// ReplaceRoleDefinition upserts the full feature set for role in a single
// statement, so concurrent readers never observe a partial list. On first
// edit the row is created with the display name, description, and rank
// derived from the role hierarchy; later edits replace only the feature set
// and bump updated_at.
func (s *Store) ReplaceRoleDefinition(ctx context.Context, role rbac.Role, features []rbac.FeatureKey) (*RoleDefinition, error) {
	rank, err := rbac.RankOf(role)
	if err != nil {
		return nil, err
	}
	perms := make([]string, len(features))
	for i, f := range features {
		perms[i] = string(f)
	}

	def, err := scanRoleDefinition(s.pool.QueryRow(ctx, `
		INSERT INTO role_definitions (role, display_name, description, hierarchy_level, permissions)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (role) DO UPDATE
		SET permissions = EXCLUDED.permissions,
		    updated_at  = now()
		RETURNING `+roleDefinitionColumns,
		string(role), rbac.DisplayName(role), rbac.Description(role), rank, perms))
	if err != nil {
		return nil, fmt.Errorf("replace role definition: %w", err)
	}
	return def, nil
}

// LoadOverrides returns the full role → feature-set override map for the
// resolver. Roles without a row are absent from the map; a customized role
// with zero features is present with an empty slice.
func (s *Store) LoadOverrides(ctx context.Context) (rbac.Overrides, error) {
	rows, err := s.pool.Query(ctx, `SELECT role, permissions FROM role_definitions`)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(rbac.Overrides)
	for rows.Next() {
		var (
			role  string
			perms []string
		)
		if err := rows.Scan(&role, &perms); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
		set := make([]rbac.FeatureKey, len(perms))
		for i, p := range perms {
			set[i] = rbac.FeatureKey(p)
		}
		overrides[rbac.Role(role)] = set
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	return overrides, nil
}
