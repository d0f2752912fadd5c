// ABOUTME: HTTP server struct, constructor, and handler wiring for the access-control service.
// ABOUTME: Holds the access service, config, and rate limiter used by handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/access"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/config"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// Server holds the dependencies for the HTTP layer.
type Server struct {
	store       *store.Store
	svc         *access.Service
	cfg         *config.Config
	rateLimiter *ipRateLimiter
}

// NewServer creates a Server around the access service.
func NewServer(s *store.Store, svc *access.Service, cfg *config.Config) *Server {
	evictTTL := cfg.RateLimitEvictTTL
	if evictTTL == 0 {
		evictTTL = 15 * time.Minute
	}
	// 10 submissions per minute per IP, burst of 10.
	rl := newIPRateLimiter(rate.Limit(10.0/60), 10, evictTTL)
	return &Server{
		store:       s,
		svc:         svc,
		cfg:         cfg,
		rateLimiter: rl,
	}
}

// Handler builds and returns the http.Handler.
func (srv *Server) Handler() http.Handler {
	var db *pgxpool.Pool
	if srv.store != nil {
		db = srv.store.Pool()
	}
	r := chi.NewRouter()

	// ── Security headers ──────────────────────────────────────────────────────
	// Must be first so they appear on every response including errors.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	})

	// ── Standard chi middleware ───────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// 1 MB global body limit — protect against OOM from large request bodies.
	r.Use(middleware.RequestSize(1 << 20))
	r.Use(middleware.Recoverer)

	// ── Infrastructure endpoints ──────────────────────────────────────────────
	r.Get("/healthz", healthzHandler(db))
	r.Handle("/metrics", promhttp.Handler())

	// ── API v1 sub-router with huma (OpenAPI 3.1) ────────────────────────────
	apiRouter := chi.NewRouter()
	humaConfig := huma.DefaultConfig("Access Control API", "0.1.0")
	humaConfig.Info.Description = "Role hierarchy, feature permissions, and role request workflow API"
	api := humachi.New(apiRouter, humaConfig)
	registerCatalogRoutes(api)

	// ── Authenticated routes (chi, not huma, for role-gating middleware) ─────
	apiRouter.Group(func(r chi.Router) {
		r.Use(srv.RequireAuthenticated())

		r.Get("/access/{feature}", srv.checkAccessHandler)
		r.Get("/me/role", srv.myRoleHandler)

		r.Route("/role-requests", func(r chi.Router) {
			r.With(srv.submitRateLimit()).Post("/", srv.submitRoleRequestHandler)
			r.With(srv.RequireRole(rbac.RoleAdmin)).Get("/", srv.listRoleRequestsHandler)
			r.With(srv.RequireRole(rbac.RoleAdmin)).Post("/{id}/approve", srv.approveRoleRequestHandler)
			r.With(srv.RequireRole(rbac.RoleAdmin)).Post("/{id}/reject", srv.rejectRoleRequestHandler)
		})

		r.Route("/users/{user_id}/role", func(r chi.Router) {
			r.Use(srv.RequireRole(rbac.RoleAdmin))
			r.Get("/", srv.getUserRoleHandler)
			r.Put("/", srv.putUserRoleHandler)
		})

		r.Route("/role-definitions", func(r chi.Router) {
			r.Use(srv.RequireRole(rbac.RoleAdmin))
			r.Get("/", srv.listRoleDefinitionsHandler)
			r.Put("/{role}", srv.putRoleDefinitionHandler)
		})
	})

	r.Mount("/api/v1", apiRouter)

	return r
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writeJSON: encode failed", "error", err)
	}
}

// healthResponse is the JSON body for /healthz.
type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
}

// healthzHandler returns 200 {"status":"ok"} when the DB is reachable,
// or 503 {"status":"degraded","db":"unavailable"} when it is not.
func healthzHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		statusCode := http.StatusOK

		if db == nil {
			resp.Status = "degraded"
			resp.DB = "unavailable"
			statusCode = http.StatusServiceUnavailable
		} else if err := db.Ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "healthz: db ping failed", "error", err)
			resp.Status = "degraded"
			resp.DB = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.ErrorContext(r.Context(), "healthz: failed to encode response", "error", err)
		}
	}
}
