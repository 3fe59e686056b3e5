package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wkarimi/shulebook/internal/server/handlers"
)

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"` + message + `"}`))
}

func claimsContext(ctx context.Context, claims *handlers.CustomClaims) context.Context {
	ctx = context.WithValue(ctx, handlers.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, handlers.UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, handlers.RoleKey, claims.Role)
	return ctx
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	return parts[1], true
}

// AuthMiddleware creates middleware that requires a valid JWT access
// token and puts its claims into the request context.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.Warn("missing or malformed Authorization header")
				unauthorized(w, "Authentication credentials were not provided.")
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				unauthorized(w, "Token is invalid or expired")
				return
			}

			logger.Debug("user authenticated",
				"user_id", claims.UserID,
				"username", claims.Username,
				"role", claims.Role)

			next.ServeHTTP(w, r.WithContext(claimsContext(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware creates middleware that puts claims into the
// context when a valid token is present but lets the request through
// either way. Used for best-effort endpoints like logout.
func OptionalAuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString, ok := bearerToken(r); ok {
				if claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString); err == nil {
					r = r.WithContext(claimsContext(r.Context(), claims))
				} else {
					logger.Debug("ignoring invalid access token", "error", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
