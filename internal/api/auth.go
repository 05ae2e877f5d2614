package api

import (
	"context"
	"net/http"

	"papercast/internal/credentials"
)

// LoginResult is the backend's response to an identity-token exchange.
type LoginResult struct {
	AccessToken string              `json:"access_token"`
	User        credentials.Profile `json:"user"`
}

// Auth exposes the authentication routes.
type Auth struct {
	client *Client
	creds  *credentials.Store
}

// NewAuth builds the auth facade on the shared client and credential store.
func NewAuth(client *Client, creds *credentials.Store) *Auth {
	return &Auth{client: client, creds: creds}
}

// Login exchanges an external Google identity token for a backend session
// and persists the resulting credentials.
func (a *Auth) Login(ctx context.Context, idToken string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"id_token": idToken}
	if err := a.client.doJSON(ctx, http.MethodPost, "/auth/google/login", nil, body, &out); err != nil {
		return LoginResult{}, err
	}
	a.creds.SetToken(out.AccessToken)
	user := out.User
	a.creds.SetUser(&user)
	return out, nil
}

// Logout clears the stored session. Purely local; the backend keeps no
// server-side session to invalidate.
func (a *Auth) Logout() {
	a.creds.Clear()
}
