// ABOUTME: Integration tests for role_requests — CAS transitions, exactly-once decisions,
// ABOUTME: pending-uniqueness, and the approve transaction's role mutation.
package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/testutil"
)

func TestCreateRoleRequest_DuplicatePendingRejected(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := s.CreateRoleRequest(ctx, userID, string(rbac.RolePMO)); err != nil {
		t.Fatalf("CreateRoleRequest: %v", err)
	}
	_, err := s.CreateRoleRequest(ctx, userID, string(rbac.RoleExecutive))
	if !errors.Is(err, store.ErrDuplicatePendingRequest) {
		t.Errorf("second pending request: err = %v, want ErrDuplicatePendingRequest", err)
	}

	// Other users are unaffected.
	if _, err := s.CreateRoleRequest(ctx, uuid.New(), string(rbac.RolePMO)); err != nil {
		t.Errorf("unrelated user's request: %v", err)
	}
}

func TestApproveRoleRequest_AssignsRoleAndRecordsReviewer(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()
	userID, reviewerID := uuid.New(), uuid.New()

	req, err := s.CreateRoleRequest(ctx, userID, string(rbac.RolePMO))
	if err != nil {
		t.Fatalf("CreateRoleRequest: %v", err)
	}

	approved, err := s.ApproveRoleRequest(ctx, req.ID, reviewerID, "confirmed by manager")
	if err != nil {
		t.Fatalf("ApproveRoleRequest: %v", err)
	}
	if approved == nil {
		t.Fatal("ApproveRoleRequest returned nil for a pending request")
	}
	if approved.Status != store.RequestApproved {
		t.Errorf("Status = %q, want approved", approved.Status)
	}
	if approved.ReviewedBy == nil || *approved.ReviewedBy != reviewerID {
		t.Errorf("ReviewedBy = %v, want %v", approved.ReviewedBy, reviewerID)
	}
	if approved.AdminNotes == nil || *approved.AdminNotes != "confirmed by manager" {
		t.Errorf("AdminNotes = %v, want notes preserved", approved.AdminNotes)
	}
	if approved.ReviewedAt == nil {
		t.Error("ReviewedAt should be set")
	}

	binding, err := s.GetUserRole(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserRole: %v", err)
	}
	if binding == nil || binding.Role != string(rbac.RolePMO) {
		t.Errorf("binding = %+v, want role pmo", binding)
	}
}

func TestApproveRoleRequest_SecondDecisionLosesCAS(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	req, _ := s.CreateRoleRequest(ctx, userID, string(rbac.RolePMO))
	if _, err := s.ApproveRoleRequest(ctx, req.ID, uuid.New(), ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	// A second approve by a different reviewer affects zero rows.
	again, err := s.ApproveRoleRequest(ctx, req.ID, uuid.New(), "me too")
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if again != nil {
		t.Error("second approve should lose the CAS and return nil")
	}

	// Reject after approve also loses.
	rej, err := s.RejectRoleRequest(ctx, req.ID, uuid.New(), "no")
	if err != nil {
		t.Fatalf("reject after approve: %v", err)
	}
	if rej != nil {
		t.Error("reject after approve should lose the CAS and return nil")
	}

	// The binding still reflects the first decision.
	binding, _ := s.GetUserRole(ctx, userID)
	if binding == nil || binding.Role != string(rbac.RolePMO) {
		t.Errorf("binding = %+v, want pmo from the first approval", binding)
	}
}

func TestRejectRoleRequest_NeverTouchesBinding(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	req, _ := s.CreateRoleRequest(ctx, userID, string(rbac.RoleExecutive))
	rejected, err := s.RejectRoleRequest(ctx, req.ID, uuid.New(), "not yet")
	if err != nil {
		t.Fatalf("RejectRoleRequest: %v", err)
	}
	if rejected == nil || rejected.Status != store.RequestRejected {
		t.Fatalf("rejected = %+v, want status rejected", rejected)
	}

	binding, err := s.GetUserRole(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserRole: %v", err)
	}
	if binding != nil {
		t.Errorf("reject must not create a binding, got %+v", binding)
	}
}

func TestListRoleRequests_FilterAndProfileJoin(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	if err := s.UpsertProfile(ctx, alice, "Alice", "alice@example.com"); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	reqA, _ := s.CreateRoleRequest(ctx, alice, string(rbac.RolePMO))
	reqB, _ := s.CreateRoleRequest(ctx, bob, string(rbac.RoleProjectManager))
	if _, err := s.RejectRoleRequest(ctx, reqB.ID, uuid.New(), ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, err := s.ListRoleRequests(ctx, store.RoleRequestFilter{Status: store.RequestPending})
	if err != nil {
		t.Fatalf("ListRoleRequests: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d rows, want 1", len(pending))
	}
	if pending[0].ID != reqA.ID {
		t.Errorf("pending[0].ID = %v, want %v", pending[0].ID, reqA.ID)
	}
	if pending[0].DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want Alice", pending[0].DisplayName)
	}

	// Missing profile joins as empty strings, not an error.
	all, err := s.ListRoleRequests(ctx, store.RoleRequestFilter{})
	if err != nil {
		t.Fatalf("ListRoleRequests (all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d rows, want 2", len(all))
	}
	for _, r := range all {
		if r.UserID == bob && r.DisplayName != "" {
			t.Errorf("profileless user DisplayName = %q, want empty", r.DisplayName)
		}
	}
}

func TestUpsertUserRole_IdempotentByUser(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := s.UpsertUserRole(ctx, userID, string(rbac.RoleProjectManager)); err != nil {
		t.Fatalf("UpsertUserRole (insert): %v", err)
	}
	if err := s.UpsertUserRole(ctx, userID, string(rbac.RolePMO)); err != nil {
		t.Fatalf("UpsertUserRole (update): %v", err)
	}

	binding, err := s.GetUserRole(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserRole: %v", err)
	}
	if binding.Role != string(rbac.RolePMO) {
		t.Errorf("Role = %q, want pmo", binding.Role)
	}

	// Missing binding reads as (nil, nil).
	none, err := s.GetUserRole(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetUserRole (absent): %v", err)
	}
	if none != nil {
		t.Errorf("absent binding = %+v, want nil", none)
	}
}
