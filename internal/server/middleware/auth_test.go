package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkarimi/shulebook/internal/server/handlers"
)

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:          []byte("test-secret"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// claimsProbe records the identity the middleware put into the context
type claimsProbe struct {
	called bool
	userID int64
	hasID  bool
	role   string
}

func (p *claimsProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.userID, p.hasID = handlers.UserIDFromContext(r.Context())
		p.role, _ = handlers.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := handlers.GenerateAccessToken(cfg, 42, "alice", "teacher")
	require.NoError(t, err)

	probe := &claimsProbe{}
	mw := AuthMiddleware(testLogger(), cfg)(probe.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, probe.called)
	assert.True(t, probe.hasID)
	assert.Equal(t, int64(42), probe.userID)
	assert.Equal(t, "teacher", probe.role)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	probe := &claimsProbe{}
	mw := AuthMiddleware(testLogger(), testJWTConfig())(probe.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user/", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, probe.called)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no token after scheme", header: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &claimsProbe{}
			mw := AuthMiddleware(testLogger(), testJWTConfig())(probe.handler())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/user/", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, probe.called)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute
	token, err := handlers.GenerateAccessToken(cfg, 42, "alice", "teacher")
	require.NoError(t, err)

	probe := &claimsProbe{}
	mw := AuthMiddleware(testLogger(), cfg)(probe.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Token is invalid or expired", body["detail"])
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	token, err := handlers.GenerateAccessToken(cfg, 42, "alice", "student")
	require.NoError(t, err)

	t.Run("valid token sets claims", func(t *testing.T) {
		probe := &claimsProbe{}
		mw := OptionalAuthMiddleware(testLogger(), cfg)(probe.handler())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, probe.hasID)
		assert.Equal(t, int64(42), probe.userID)
	})

	t.Run("missing token passes through", func(t *testing.T) {
		probe := &claimsProbe{}
		mw := OptionalAuthMiddleware(testLogger(), cfg)(probe.handler())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout/", nil)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, probe.called)
		assert.False(t, probe.hasID)
	})

	t.Run("invalid token passes through without claims", func(t *testing.T) {
		probe := &claimsProbe{}
		mw := OptionalAuthMiddleware(testLogger(), cfg)(probe.handler())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, probe.called)
		assert.False(t, probe.hasID)
	})
}
