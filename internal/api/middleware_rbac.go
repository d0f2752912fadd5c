// ABOUTME: RequireRole and RequireFeature middleware — rank gating and feature gating.
// ABOUTME: The effective role is read from the live binding on every request, fail-closed.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
)

// RequireRole returns a middleware that resolves the authenticated user's
// current role from the database and requires it to rank at least minRole.
// A user with no binding, or with a binding the hierarchy no longer
// recognizes, is treated as the lowest-ranked role. On success the effective
// role is injected as ctxRole.
//
// Must run after RequireAuthenticated.
func (srv *Server) RequireRole(minRole rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role, err := srv.svc.RoleForUser(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "resolve role", "user_id", userID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !srv.svc.MeetsMinimum(role, minRole) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFeature returns a middleware that gates a route on the caller's role
// having access to feature under the current baseline-plus-overrides state.
// Used by the wider dashboard to protect whole screens.
//
// Must run after RequireAuthenticated.
func (srv *Server) RequireFeature(feature rbac.FeatureKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(ctxUserID).(uuid.UUID)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role, err := srv.svc.RoleForUser(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "resolve role", "user_id", userID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !srv.svc.CanAccess(r.Context(), role, feature) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
