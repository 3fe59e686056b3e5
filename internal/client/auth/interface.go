package auth

import (
	"context"

	"github.com/wkarimi/shulebook/pkg/api"
)

//go:generate go tool moq -out api_mock.go . AuthAPI

// AuthAPI is the slice of the backend surface the session manager
// needs. The concrete implementation is the client API; tests supply
// mocks.
type AuthAPI interface {
	// CSRF obtains an anti-forgery token, required before login.
	CSRF(ctx context.Context) (*api.CSRFResponse, error)

	// Login authenticates with credentials.
	Login(ctx context.Context, req api.LoginRequest, csrfToken string) (*api.LoginResponse, error)

	// Logout notifies the server that the session ends (best effort).
	Logout(ctx context.Context) error

	// User re-validates the session and returns the current user.
	User(ctx context.Context) (*api.User, error)

	// Refresh exchanges the refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
}
