// ABOUTME: Integration tests for direct role assignment via PUT /users/{user_id}/role.
// ABOUTME: Covers admin gating, the absolute self-modification guard, and upsert behavior.
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestPutUserRole_AdminGated(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)
	ctx := context.Background()

	resp := doJSON(t, ctx, ts, http.MethodPut, "/api/v1/users/"+uuid.NewString()+"/role", tokenFor(t, uuid.New()), `{"role":"pmo"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestPutUserRole_AssignAndReassign(t *testing.T) {
	t.Parallel()
	ts, db := newTestServer(t)
	ctx := context.Background()
	adminToken := tokenFor(t, seedAdmin(t, ctx, db))
	targetID := uuid.New()

	resp := doJSON(t, ctx, ts, http.MethodPut, "/api/v1/users/"+targetID.String()+"/role", adminToken, `{"role":"project_manager"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d, want 200", resp.StatusCode)
	}
	var entry struct {
		Role string `json:"role"`
		Rank int    `json:"rank"`
	}
	decodeBody(t, resp, &entry)
	if entry.Role != "project_manager" {
		t.Errorf("entry = %+v", entry)
	}

	// Reassignment overwrites the binding.
	resp = doJSON(t, ctx, ts, http.MethodPut, "/api/v1/users/"+targetID.String()+"/role", adminToken, `{"role":"executive"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reassign status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, ctx, ts, http.MethodGet, "/api/v1/users/"+targetID.String()+"/role", adminToken, "")
	decodeBody(t, resp, &entry)
	if entry.Role != "executive" {
		t.Errorf("after reassign = %+v", entry)
	}
}

func TestPutUserRole_SelfModificationForbidden(t *testing.T) {
	t.Parallel()
	ts, db := newTestServer(t)
	ctx := context.Background()
	adminID := seedAdmin(t, ctx, db)

	resp := doJSON(t, ctx, ts, http.MethodPut, "/api/v1/users/"+adminID.String()+"/role", tokenFor(t, adminID), `{"role":"user"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("self-assign status = %d, want 403", resp.StatusCode)
	}

	// The admin binding is untouched.
	binding, err := db.GetUserRole(ctx, adminID)
	if err != nil || binding == nil {
		t.Fatalf("GetUserRole: %v, %v", binding, err)
	}
	if binding.Role != "admin" {
		t.Errorf("binding role = %q, want admin", binding.Role)
	}
}

func TestGetUserRole_NoBindingDefaultsToUser(t *testing.T) {
	t.Parallel()
	ts, db := newTestServer(t)
	ctx := context.Background()
	adminToken := tokenFor(t, seedAdmin(t, ctx, db))

	resp := doJSON(t, ctx, ts, http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/role", adminToken, "")
	var entry struct {
		Role string `json:"role"`
		Rank int    `json:"rank"`
	}
	decodeBody(t, resp, &entry)
	if entry.Role != "user" || entry.Rank != 0 {
		t.Errorf("entry = %+v, want user rank 0", entry)
	}
}
