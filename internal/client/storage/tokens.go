package storage

import (
	"context"
)

// TokenPair is the access/refresh credential pair issued by the portal
// backend. Both values are opaque to the client; expiry is discovered
// reactively through a 401 response, never computed locally.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenStorage defines the durable persistence of the current token
// pair. It survives process restarts and carries no network or
// validation logic.
type TokenStorage interface {
	// SaveTokens stores the token pair, replacing any previous one.
	SaveTokens(ctx context.Context, pair *TokenPair) error

	// GetTokens retrieves the stored token pair.
	// Returns ErrTokensNotFound if none is stored.
	GetTokens(ctx context.Context) (*TokenPair, error)

	// DeleteTokens removes the stored token pair (logout). Deleting an
	// already-empty store is not an error.
	DeleteTokens(ctx context.Context) error
}
