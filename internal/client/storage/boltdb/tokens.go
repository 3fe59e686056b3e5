package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/wkarimi/shulebook/internal/client/storage"
)

// tokensKey is the fixed key the current token pair lives under. There
// is never more than one pair per database.
var tokensKey = []byte("tokens")

// SaveTokens stores the token pair, replacing any previous one
func (s *Storage) SaveTokens(ctx context.Context, pair *storage.TokenPair) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		data, err := json.Marshal(pair)
		if err != nil {
			return fmt.Errorf("failed to marshal token pair: %w", err)
		}

		if err := bucket.Put(tokensKey, data); err != nil {
			return fmt.Errorf("failed to save token pair: %w", err)
		}

		return nil
	})
}

// GetTokens retrieves the stored token pair
func (s *Storage) GetTokens(ctx context.Context) (*storage.TokenPair, error) {
	var pair *storage.TokenPair

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		data := bucket.Get(tokensKey)
		if data == nil {
			return storage.ErrTokensNotFound
		}

		pair = &storage.TokenPair{}
		if err := json.Unmarshal(data, pair); err != nil {
			return fmt.Errorf("failed to unmarshal token pair: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return pair, nil
}

// DeleteTokens removes the stored token pair. Deleting when nothing is
// stored is a no-op so the logout cascade stays idempotent.
func (s *Storage) DeleteTokens(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		if err := bucket.Delete(tokensKey); err != nil {
			return fmt.Errorf("failed to delete token pair: %w", err)
		}

		return nil
	})
}
