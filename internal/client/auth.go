// ABOUTME: Session operations against the identity service
// ABOUTME: Login, Logout, FetchProfile and ValidateSession

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Login calls POST /auth/login. Credentials are validated first; no request is
// sent for malformed input. The call is never retried.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := ValidateCredentials(creds); err != nil {
		return nil, err
	}

	var result LoginResult
	err := c.do(ctx, call{
		op:        "login",
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      creds,
		anonymous: true,
	}, &result)
	if err != nil {
		var ae *AuthError
		if errors.As(err, &ae) && ae.Message == http.StatusText(ae.Status) {
			ae.Message = "Login failed"
		}
		return nil, err
	}

	if result.Token == "" {
		return nil, fmt.Errorf("invalid response from backend: missing token")
	}
	if !result.User.Role.Valid() {
		return nil, fmt.Errorf("invalid response from backend: unknown role %q", result.User.Role)
	}
	return &result, nil
}

// Logout calls POST /auth/logout. Callers treat failure as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/logout",
	}, nil)
}

// FetchProfile calls GET /auth/profile
func (c *Client) FetchProfile(ctx context.Context) (*User, error) {
	var user User
	err := c.do(ctx, call{
		op:     "profile",
		method: http.MethodGet,
		path:   "/auth/profile",
	}, &user)
	if err != nil {
		return nil, err
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("invalid response from backend: unknown role %q", user.Role)
	}
	return &user, nil
}

// ValidateSession calls GET /auth/validate. Any failure resolves to false.
func (c *Client) ValidateSession(ctx context.Context) bool {
	err := c.do(ctx, call{
		op:     "validate",
		method: http.MethodGet,
		path:   "/auth/validate",
	}, nil)
	if err != nil {
		slog.Debug("Session validation failed", "error", err)
		return false
	}
	return true
}
