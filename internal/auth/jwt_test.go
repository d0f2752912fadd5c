// ABOUTME: Tests for session token issuance and parsing with required security constraints.
// ABOUTME: Covers algorithm pinning and expiry enforcement.
package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/auth"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret-32-bytes-minimum-aaaa")
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tokenStr, err := auth.IssueSessionToken(secret, userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	claims, err := auth.ParseSessionToken(tokenStr, secret)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret-32-bytes-minimum-aaaa")
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tokenStr, err := auth.IssueSessionToken(secret, userID, -1*time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = auth.ParseSessionToken(tokenStr, secret)
	if err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestSessionTokenRejectsWrongAlgorithm(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret-32-bytes-minimum-aaaa")
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tokenStr, err := auth.IssueSessionToken(secret, userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Replace the header to claim RS256 — WithValidMethods(["HS256"]) must reject this.
	parts := strings.SplitN(tokenStr, ".", 3)
	fakeHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	tampered := fakeHeader + "." + parts[1] + "." + parts[2]

	_, err = auth.ParseSessionToken(tampered, secret)
	if err == nil {
		t.Error("expected error for RS256 algorithm, got nil")
	}
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tokenStr, err := auth.IssueSessionToken([]byte("test-secret-32-bytes-minimum-aaaa"), userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = auth.ParseSessionToken(tokenStr, []byte("test-secret-32-bytes-minimum-bbbb"))
	if err == nil {
		t.Error("expected error for wrong secret, got nil")
	}
}
