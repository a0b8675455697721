package feedbackapi

import (
	"net/http"

	"wardops.org/internal/auth"
	"wardops.org/internal/feedback"
)

type createRequest struct {
	ResidentID string `json:"resident_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type respondRequest struct {
	Response string `json:"response"`
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, _ := auth.PrincipalFromContext(r.Context())
	f, err := a.svc.Create(r.Context(), user.ID, req.ResidentID, req.Title, req.Content)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.List(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if items == nil {
		items = []*feedback.Feedback{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"feedbacks": items})
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	f, err := a.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *API) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	f, err := a.svc.Respond(r.Context(), r.PathValue("id"), req.Response)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}
