package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRemoteTimeout = 5 * time.Second

// RemoteGate implements Gate by delegating verification to the central auth
// service over HTTP. Services that do not own the user table use it; they
// trade a network round trip per check for independence from the credential
// store. The HTTP client is injected by the composition root and always
// carries a timeout; a timed-out or unreachable auth service fails the
// request, it never silently authorizes.
type RemoteGate struct {
	baseURL string
	client  *http.Client
}

var _ Gate = (*RemoteGate)(nil)

// NewRemoteGate constructs a RemoteGate for the auth service at baseURL
// (for example "http://auth:8080/api/v1/auth"). A nil client gets a default
// with a bounded timeout.
func NewRemoteGate(baseURL string, client *http.Client) (*RemoteGate, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("auth: remote gate base URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultRemoteTimeout}
	}
	return &RemoteGate{baseURL: baseURL, client: client}, nil
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

type remoteErrorBody struct {
	Error string `json:"error"`
}

func (g *RemoteGate) Authorize(ctx context.Context, token string, accepted ...Role) (*User, error) {
	user, err := g.Identify(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(accepted) > 0 && !user.Role.In(accepted) {
		return nil, ErrInsufficientPermissions
	}
	return user, nil
}

func (g *RemoteGate) Identify(ctx context.Context, token string) (*User, error) {
	username, ok := ClaimedUsernameFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: caller username not supplied", ErrInvalidInput)
	}

	body, err := json.Marshal(validateRequest{Username: username, AccessToken: token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerPrefix+token)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrAuthServiceUnreachable, g.baseURL)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response", ErrAuthServiceUnreachable)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrAuthServiceUnreachable, resp.StatusCode)
	default:
		return nil, remoteRejection(payload)
	}

	var res validateResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, ErrSchemaMismatch
	}
	if strings.TrimSpace(res.ID) == "" {
		return nil, ErrSchemaMismatch
	}
	role, err := ParseRole(res.Role)
	if err != nil {
		return nil, ErrSchemaMismatch
	}

	// The remote service only validates live, unlocked identities, so
	// active is true by construction.
	return &User{
		ID:       res.ID,
		Username: username,
		Role:     role,
		ScopeID:  res.ScopeID,
		Active:   true,
	}, nil
}

// remoteRejection maps a non-200 validation response onto the local error
// taxonomy. The auth service's error strings are part of its contract.
func remoteRejection(payload []byte) error {
	var body remoteErrorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		msg := strings.ToLower(body.Error)
		switch {
		case strings.Contains(msg, "mismatch"):
			return ErrUsernameMismatch
		case strings.Contains(msg, "expired"):
			return ErrTokenExpired
		case strings.Contains(msg, "locked"):
			return ErrUserInactive
		}
	}
	return ErrInvalidToken
}
