// Package httpapi is the HTTP surface of the central authentication and
// registry service.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"wardops.org/internal/audit"
	"wardops.org/internal/auth"
	"wardops.org/internal/obs"
)

// ReadyProbe checks downstream dependencies for /readyz.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer of the auth service.
type API struct {
	mux        *http.ServeMux
	svc        *auth.Service
	gate       auth.Gate
	recorder   *audit.Recorder
	readyProbe ReadyProbe
	version    string

	// serviceKey guards the internal ingestion surface used by sibling
	// services. Empty means the surface is disabled.
	serviceKey string

	rateBurst  int
	ratePerSec int
}

// Option configures the API.
type Option func(*API)

// WithRateLimit overrides the default per-IP rate limit.
func WithRateLimit(burst, perSecond int) Option {
	return func(a *API) {
		if burst > 0 {
			a.rateBurst = burst
		}
		if perSecond > 0 {
			a.ratePerSec = perSecond
		}
	}
}

// WithServiceKey enables the internal audit ingestion endpoint for sibling
// services presenting the shared key.
func WithServiceKey(key string) Option {
	return func(a *API) {
		a.serviceKey = key
	}
}

func New(svc *auth.Service, gate auth.Gate, recorder *audit.Recorder, rp ReadyProbe, version string, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		svc:        svc,
		gate:       gate,
		recorder:   recorder,
		readyProbe: rp,
		version:    version,
		rateBurst:  20,
		ratePerSec: 10,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("POST /api/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("POST /api/v1/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("POST /api/v1/auth/validate", a.handleValidate)
	a.mux.HandleFunc("POST /api/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("GET /api/v1/auth/me", a.identified(a.handleMe))

	adminOnly := []auth.Role{auth.RoleAdmin}
	a.mux.HandleFunc("GET /api/v1/auth/users", a.gated(adminOnly, a.handleListUsers))
	a.mux.HandleFunc("POST /api/v1/auth/users", a.gated(adminOnly, a.handleCreateUser))
	a.mux.HandleFunc("GET /api/v1/auth/users/{id}", a.gated(adminOnly, a.handleGetUser))
	a.mux.HandleFunc("POST /api/v1/auth/users/{id}", a.gated(adminOnly, a.handleUpdateUser))
	a.mux.HandleFunc("POST /api/v1/auth/users/{id}/lock", a.gated(adminOnly, a.handleLockUser))
	a.mux.HandleFunc("PUT /api/v1/auth/users/{id}/unlock", a.gated(adminOnly, a.handleUnlockUser))
	a.mux.HandleFunc("POST /api/v1/auth/users/{id}/reset-password", a.gated(adminOnly, a.handleResetPassword))
	a.mux.HandleFunc("DELETE /api/v1/auth/users/{id}", a.gated(adminOnly, a.handleDeleteUser))

	a.mux.HandleFunc("GET /api/v1/audit-logs", a.gated(adminOnly, a.handleListAuditLogs))
	a.mux.HandleFunc("POST /api/v1/internal/audit-logs", a.handleIngestAuditLog)

	return a
}

// Handler returns the fully wrapped handler chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "wardops-auth",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := a.readyProbe.Check(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
