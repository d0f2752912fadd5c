// ABOUTME: Shared test harness for api package tests — real Postgres, full Handler() stack.
// ABOUTME: Helpers issue session tokens and seed role bindings directly through the store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/access"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/auth"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/config"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/testutil"
)

const testJWTSecret = "test-secret-32-bytes-minimum-aaaa"

// newTestServer builds the full HTTP stack over a fresh test database.
func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		JWTSecret:         testJWTSecret,
		OverrideCacheTTL:  0, // tests observe override writes immediately
		RateLimitEvictTTL: time.Minute,
	}
	svc := access.NewService(db, cfg.OverrideCacheTTL)
	ts := httptest.NewServer(NewServer(db, svc, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

// tokenFor issues a short-lived session token for userID.
func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.IssueSessionToken([]byte(testJWTSecret), userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue session token: %v", err)
	}
	return token
}

// seedAdmin creates a user with the admin role binding and returns its ID.
func seedAdmin(t *testing.T, ctx context.Context, db *store.Store) uuid.UUID {
	t.Helper()
	adminID := uuid.New()
	if err := db.UpsertUserRole(ctx, adminID, "admin"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return adminID
}

// doJSON performs an authenticated JSON request against ts.
func doJSON(t *testing.T, ctx context.Context, ts *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, err := http.NewRequestWithContext(ctx, method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", "session_token="+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeBody decodes resp's JSON body into v and closes it.
func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
