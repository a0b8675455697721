// Package feedbackapi is the HTTP surface of the citizen-feedback service.
// Every protected route delegates authorization to the central auth service
// through the remote gate; this service holds no credentials of its own.
package feedbackapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"wardops.org/internal/auth"
	"wardops.org/internal/feedback"
	"wardops.org/internal/httpapi"
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

// API is the HTTP layer of the feedback service.
type API struct {
	mux        *http.ServeMux
	svc        *feedback.Service
	gate       auth.Gate
	readyProbe ReadyProbe
	version    string
}

func New(svc *feedback.Service, gate auth.Gate, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		svc:        svc,
		gate:       gate,
		readyProbe: rp,
		version:    version,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	anyRole := auth.Roles
	reviewers := []auth.Role{auth.RoleAdmin, auth.RoleWardLeader, auth.RoleWardOfficial}
	officials := []auth.Role{auth.RoleWardOfficial}

	a.mux.HandleFunc("POST /api/v1/feedback", a.gated([]auth.Role{auth.RoleCitizen}, a.handleCreate))
	a.mux.HandleFunc("GET /api/v1/feedback", a.gated(reviewers, a.handleList))
	a.mux.HandleFunc("GET /api/v1/feedback/{id}", a.gated(anyRole, a.handleGet))
	a.mux.HandleFunc("POST /api/v1/feedback/{id}/respond", a.gated(officials, a.handleRespond))

	return a
}

// Handler returns the fully wrapped handler chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = httpapi.MaxBodyBytes(h, 1<<20)
	h = httpapi.SecurityHeaders(h)
	h = obs.Instrument(h)
	h = httpapi.LoggingJSON(h)
	h = httpapi.RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "wardops-feedback",
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
