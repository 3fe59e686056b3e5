package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkarimi/shulebook/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestTokens_SaveAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	pair := &storage.TokenPair{Access: "access-1", Refresh: "refresh-1"}
	require.NoError(t, s.SaveTokens(ctx, pair))

	got, err := s.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.Access)
	assert.Equal(t, "refresh-1", got.Refresh)
}

func TestTokens_GetWithoutSave(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.GetTokens(context.Background())
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)
	assert.Nil(t, got)
}

func TestTokens_SaveReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTokens(ctx, &storage.TokenPair{Access: "old", Refresh: "r"}))
	require.NoError(t, s.SaveTokens(ctx, &storage.TokenPair{Access: "new", Refresh: "r"}))

	got, err := s.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Access)
}

func TestTokens_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTokens(ctx, &storage.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, s.DeleteTokens(ctx))

	_, err := s.GetTokens(ctx)
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)
}

func TestTokens_DeleteIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteTokens(ctx))
	require.NoError(t, s.DeleteTokens(ctx))
}

func TestTokens_SurviveReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveTokens(ctx, &storage.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	got, err := reopened.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", got.Refresh)
}
