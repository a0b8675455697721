package httpapi

import (
	"net/http"

	"wardops.org/internal/auth"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	ScopeID  string `json:"scope_id"`
}

type updateUserRequest struct {
	Role    *string `json:"role"`
	ScopeID *string `json:"scope_id"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.svc.ListUsers(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown role")
		return
	}
	user, err := a.svc.CreateUser(r.Context(), auth.CreateUserForm{
		Username: req.Username,
		Password: req.Password,
		Role:     role,
		ScopeID:  req.ScopeID,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.svc.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var upd auth.UserUpdate
	if req.Role != nil {
		role, err := auth.ParseRole(*req.Role)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "unknown role")
			return
		}
		upd.Role = &role
	}
	upd.ScopeID = req.ScopeID

	id := r.PathValue("id")
	if err := a.svc.UpdateUser(r.Context(), id, upd); err != nil {
		handleAuthError(w, r, err)
		return
	}
	user, err := a.svc.GetUser(r.Context(), id)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleLockUser(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Lock(r.Context(), r.PathValue("id")); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "user locked"})
}

func (a *API) handleUnlockUser(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Unlock(r.Context(), r.PathValue("id")); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "user unlocked"})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.svc.ResetPassword(r.Context(), r.PathValue("id"), req.Password); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "password reset"})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "user deleted"})
}
