// ABOUTME: Access-control service — feature decisions, role assignment, and the
// ABOUTME: role-change request workflow with self-modification and CAS guards.
package access

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// DecisionEmailQueue is the job queue that carries request-decision
// notification emails.
const DecisionEmailQueue = "role_decision_email"

// DecisionEmailPayload is the job payload for a decision notification.
type DecisionEmailPayload struct {
	RequestID uuid.UUID `json:"request_id"`
}

// Service answers feature-access questions and mutates role state. All reads
// of the dynamic override store go through the TTL cache; all writes
// invalidate it.
type Service struct {
	store *store.Store
	cache *OverrideCache
}

// NewService creates a Service with an override cache refreshed at most every
// cacheTTL.
func NewService(s *store.Store, cacheTTL time.Duration) *Service {
	return &Service{store: s, cache: NewOverrideCache(s, cacheTTL)}
}

// CanAccess reports whether role may use feature right now, combining the
// static baseline with any persisted overrides.
func (svc *Service) CanAccess(ctx context.Context, role rbac.Role, feature rbac.FeatureKey) bool {
	allowed := rbac.CanAccess(role, feature, svc.cache.Overrides(ctx))
	if allowed {
		accessChecks.WithLabelValues("allow").Inc()
	} else {
		accessChecks.WithLabelValues("deny").Inc()
	}
	return allowed
}

// MeetsMinimum reports whether role is at least as senior as threshold. This
// is independent of the feature-permission system.
func (svc *Service) MeetsMinimum(role, threshold rbac.Role) bool {
	return rbac.MeetsMinimum(role, threshold)
}

// RoleForUser returns the user's current role. A user without a binding — or
// with a binding whose role identifier is no longer recognized — is the
// lowest-ranked role, never elevated.
func (svc *Service) RoleForUser(ctx context.Context, userID uuid.UUID) (rbac.Role, error) {
	binding, err := svc.store.GetUserRole(ctx, userID)
	if err != nil {
		return rbac.RoleUser, err
	}
	if binding == nil {
		return rbac.RoleUser, nil
	}
	role, ok := rbac.ParseRole(binding.Role)
	if !ok {
		slog.WarnContext(ctx, "unrecognized role in binding, treating as lowest rank",
			"user_id", userID, "role", binding.Role)
		return rbac.RoleUser, nil
	}
	return role, nil
}

// AssignRole sets targetUserID's role binding. Callers cannot change their own
// role regardless of privilege. The upsert is idempotent by target user, so a
// manual retry after a transient failure is safe. This direct path does not
// write audit metadata; the request workflow does.
func (svc *Service) AssignRole(ctx context.Context, actingUserID, targetUserID uuid.UUID, newRole rbac.Role) error {
	if actingUserID == targetUserID {
		return ErrSelfModification
	}
	if _, err := rbac.RankOf(newRole); err != nil {
		return err
	}
	return svc.store.UpsertUserRole(ctx, targetUserID, string(newRole))
}

// SubmitRoleRequest creates a pending role-change request for userID. A user
// may have at most one open request; store.ErrDuplicatePendingRequest is
// passed through for the caller to surface as a conflict.
func (svc *Service) SubmitRoleRequest(ctx context.Context, userID uuid.UUID, requested rbac.Role) (*store.RoleRequest, error) {
	if _, err := rbac.RankOf(requested); err != nil {
		return nil, err
	}
	return svc.store.CreateRoleRequest(ctx, userID, string(requested))
}

// ListRoleRequests returns requests joined with requester profiles.
func (svc *Service) ListRoleRequests(ctx context.Context, f store.RoleRequestFilter) ([]store.RoleRequestRow, error) {
	return svc.store.ListRoleRequests(ctx, f)
}

// ApproveRoleRequest approves the pending request, assigning the requested
// role and recording reviewer identity, notes, and timestamp atomically.
//
// Guards, in order: the request must exist; the reviewer must not be the
// requester (the request stays pending); and the status transition is a
// compare-and-swap — losing it means another reviewer already decided, which
// surfaces as ErrAlreadyProcessed with no further mutation.
func (svc *Service) ApproveRoleRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*store.RoleRequest, error) {
	req, err := svc.store.GetRoleRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.UserID == reviewerID {
		return nil, ErrSelfModification
	}
	if req.Status != store.RequestPending {
		return nil, ErrAlreadyProcessed
	}

	approved, err := svc.store.ApproveRoleRequest(ctx, id, reviewerID, notes)
	if err != nil {
		return nil, err
	}
	if approved == nil {
		return nil, ErrAlreadyProcessed
	}

	requestDecisions.WithLabelValues(store.RequestApproved).Inc()
	svc.enqueueDecisionEmail(ctx, approved.ID)
	return approved, nil
}

// RejectRoleRequest rejects the pending request with reviewer metadata. It
// never touches the user's role binding.
func (svc *Service) RejectRoleRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*store.RoleRequest, error) {
	req, err := svc.store.GetRoleRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.Status != store.RequestPending {
		return nil, ErrAlreadyProcessed
	}

	rejected, err := svc.store.RejectRoleRequest(ctx, id, reviewerID, notes)
	if err != nil {
		return nil, err
	}
	if rejected == nil {
		return nil, ErrAlreadyProcessed
	}

	requestDecisions.WithLabelValues(store.RequestRejected).Inc()
	svc.enqueueDecisionEmail(ctx, rejected.ID)
	return rejected, nil
}

// enqueueDecisionEmail queues the notification for a decided request.
// Best-effort: the decision stands even if the enqueue fails.
func (svc *Service) enqueueDecisionEmail(ctx context.Context, requestID uuid.UUID) {
	payload, err := json.Marshal(DecisionEmailPayload{RequestID: requestID})
	if err != nil {
		slog.ErrorContext(ctx, "marshal decision email payload", "request_id", requestID, "error", err)
		return
	}
	if _, err := svc.store.EnqueueJob(ctx, DecisionEmailQueue, payload, 5); err != nil {
		slog.ErrorContext(ctx, "enqueue decision email", "request_id", requestID, "error", err)
	}
}

// RoleDefinitions returns all customized roles for the toggle editor.
func (svc *Service) RoleDefinitions(ctx context.Context) ([]store.RoleDefinition, error) {
	return svc.store.ListRoleDefinitions(ctx)
}

// ReplaceRoleDefinition fully rewrites the feature set for role, creating the
// definition row on first edit. Saving an empty set is meaningful: the role
// keeps zero features rather than reverting to the baseline. The admin role
// is not editable.
func (svc *Service) ReplaceRoleDefinition(ctx context.Context, role rbac.Role, features []rbac.FeatureKey) (*store.RoleDefinition, error) {
	if role == rbac.RoleAdmin {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotEditable, role)
	}
	for _, f := range features {
		if !rbac.KnownFeature(f) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, f)
		}
	}
	def, err := svc.store.ReplaceRoleDefinition(ctx, role, features)
	if err != nil {
		return nil, err
	}
	svc.cache.Invalidate()
	return def, nil
}
