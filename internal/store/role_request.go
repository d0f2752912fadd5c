// ABOUTME: Store methods for role_requests — the pending → approved/rejected workflow rows.
// ABOUTME: Status transitions are compare-and-swap updates guarded on status = 'pending'.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Role request lifecycle states. Terminal states never transition again.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ErrDuplicatePendingRequest is returned by CreateRoleRequest when the user
// already has an open request (role_requests_one_pending_per_user index).
var ErrDuplicatePendingRequest = errors.New("a pending role request already exists for this user")

// RoleRequest is one row of the role-change approval workflow.
type RoleRequest struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	RequestedRole string
	Status        string
	AdminNotes    *string
	ReviewedBy    *uuid.UUID
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoleRequestRow is a request joined with the requester's profile for display.
type RoleRequestRow struct {
	RoleRequest
	DisplayName string
	Email       string
}

const roleRequestColumns = `id, user_id, requested_role, status, admin_notes, reviewed_by, reviewed_at, created_at, updated_at`

func scanRoleRequest(row pgx.Row) (*RoleRequest, error) {
	var r RoleRequest
	if err := row.Scan(&r.ID, &r.UserID, &r.RequestedRole, &r.Status,
		&r.AdminNotes, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRoleRequest inserts a new pending request. Returns
// ErrDuplicatePendingRequest when the user already has one open.
func (s *Store) CreateRoleRequest(ctx context.Context, userID uuid.UUID, requestedRole string) (*RoleRequest, error) {
	req, err := scanRoleRequest(s.pool.QueryRow(ctx, `
		INSERT INTO role_requests (user_id, requested_role)
		VALUES ($1, $2)
		RETURNING `+roleRequestColumns,
		userID, requestedRole))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicatePendingRequest
		}
		return nil, fmt.Errorf("create role request: %w", err)
	}
	return req, nil
}

// GetRoleRequest returns the request with the given id, or (nil, nil) if it
// does not exist.
func (s *Store) GetRoleRequest(ctx context.Context, id uuid.UUID) (*RoleRequest, error) {
	req, err := scanRoleRequest(s.pool.QueryRow(ctx,
		`SELECT `+roleRequestColumns+` FROM role_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get role request: %w", err)
	}
	return req, nil
}

// RoleRequestFilter narrows ListRoleRequests. Zero values mean "no filter".
type RoleRequestFilter struct {
	Status string
	UserID uuid.UUID
	Limit  uint64
	Offset uint64
}

// ListRoleRequests returns requests joined with the requester's profile,
// newest first. The filter is applied dynamically via squirrel.
func (s *Store) ListRoleRequests(ctx context.Context, f RoleRequestFilter) ([]RoleRequestRow, error) {
	b := sq.Select(
		"r.id", "r.user_id", "r.requested_role", "r.status", "r.admin_notes",
		"r.reviewed_by", "r.reviewed_at", "r.created_at", "r.updated_at",
		"COALESCE(p.display_name, '')", "COALESCE(p.email, '')",
	).
		From("role_requests r").
		LeftJoin("profiles p ON p.user_id = r.user_id").
		OrderBy("r.created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if f.Status != "" {
		b = b.Where(sq.Eq{"r.status": f.Status})
	}
	if f.UserID != uuid.Nil {
		b = b.Where(sq.Eq{"r.user_id": f.UserID})
	}
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	if f.Offset > 0 {
		b = b.Offset(f.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list role requests: build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list role requests: %w", err)
	}
	defer rows.Close()

	var out []RoleRequestRow
	for rows.Next() {
		var r RoleRequestRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.RequestedRole, &r.Status,
			&r.AdminNotes, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt, &r.UpdatedAt,
			&r.DisplayName, &r.Email); err != nil {
			return nil, fmt.Errorf("list role requests: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list role requests: %w", err)
	}
	return out, nil
}

// casRoleRequestSQL transitions a request out of pending. The WHERE clause on
// status makes concurrent reviewers race safely: exactly one update wins, the
// others affect zero rows.
const casRoleRequestSQL = `
	UPDATE role_requests
	SET status = $2, reviewed_by = $3, admin_notes = $4,
	    reviewed_at = now(), updated_at = now()
	WHERE id = $1 AND status = 'pending'
	RETURNING ` + roleRequestColumns

// ApproveRoleRequest atomically transitions the request to approved and
// upserts the requester's role binding in the same transaction. A lost CAS
// (request already decided) returns (nil, nil) and mutates nothing; a won CAS
// always commits together with the role mutation.
func (s *Store) ApproveRoleRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*RoleRequest, error) {
	var approved *RoleRequest
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		req, err := scanRoleRequest(tx.QueryRow(ctx, casRoleRequestSQL,
			id, RequestApproved, reviewerID, notes))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // lost the CAS; leave approved nil
		}
		if err != nil {
			return fmt.Errorf("approve role request: %w", err)
		}
		if _, err := tx.Exec(ctx, upsertUserRoleSQL, req.UserID, req.RequestedRole); err != nil {
			return fmt.Errorf("approve role request: assign role: %w", err)
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectRoleRequest transitions the request to rejected. Never touches
// user_roles. A lost CAS returns (nil, nil).
func (s *Store) RejectRoleRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*RoleRequest, error) {
	req, err := scanRoleRequest(s.pool.QueryRow(ctx, casRoleRequestSQL,
		id, RequestRejected, reviewerID, notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reject role request: %w", err)
	}
	return req, nil
}
