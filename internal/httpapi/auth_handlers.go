package httpapi

import (
	"net/http"

	"wardops.org/internal/auth"
)

type loginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	User         *auth.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type validateRequest struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

type validateResponse struct {
	ID      string `json:"id"`
	ScopeID string `json:"scope_id"`
	Role    string `json:"role"`
}

// handleLogin accepts an OAuth2-style password form and returns a token
// pair plus the user record (minus the password hash).
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	pair, user, err := a.svc.Login(r.Context(), username, password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		User:         user,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	access, err := a.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accessTokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// handleValidate serves sibling services: it resolves the access token and
// cross-checks the caller-claimed username against the resolved identity.
func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.svc.Validate(r.Context(), req.Username, req.AccessToken)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{
		ID:      user.ID,
		ScopeID: user.ScopeID,
		Role:    user.Role.String(),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractBearer(r.Header.Get(authHeader))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if err := a.svc.Logout(r.Context(), token); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		handleAuthError(w, r, auth.ErrMissingCredentials)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
