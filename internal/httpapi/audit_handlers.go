package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"wardops.org/internal/audit"
)

const serviceKeyHeader = "X-Service-Key"

type ingestAuditRequest struct {
	UserID      string         `json:"user_id"`
	Action      string         `json:"action"`
	EntityName  string         `json:"entity_name"`
	EntityID    string         `json:"entity_id"`
	BeforeState map[string]any `json:"before_state"`
	AfterState  map[string]any `json:"after_state"`
}

// handleIngestAuditLog accepts audit entries from sibling services holding
// the shared service key. Human callers go through the gated mutation
// endpoints instead.
func (a *API) handleIngestAuditLog(w http.ResponseWriter, r *http.Request) {
	if a.serviceKey == "" {
		writeError(w, r, http.StatusForbidden, "internal ingestion disabled")
		return
	}
	presented := r.Header.Get(serviceKeyHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.serviceKey)) != 1 {
		writeError(w, r, http.StatusUnauthorized, "invalid service key")
		return
	}
	var req ingestAuditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Action == "" {
		writeError(w, r, http.StatusBadRequest, "action is required")
		return
	}
	a.recorder.Record(r.Context(), audit.Entry{
		UserID:      req.UserID,
		Action:      req.Action,
		EntityName:  req.EntityName,
		EntityID:    req.EntityID,
		BeforeState: req.BeforeState,
		AfterState:  req.AfterState,
	})
	writeJSON(w, http.StatusAccepted, map[string]any{"message": "recorded"})
}

func (a *API) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	opts := audit.ListOptions{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 10),
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	entries, total, err := a.recorder.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	totalPages := (total + pageSize - 1) / pageSize
	writeJSON(w, http.StatusOK, map[string]any{
		"logs":        entries,
		"total":       total,
		"page":        opts.Page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
