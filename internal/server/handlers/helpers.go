package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wkarimi/shulebook/pkg/api"
)

type contextKey string

const (
	// UserIDKey holds the authenticated user's ID in the request context
	UserIDKey contextKey = "user_id"
	// UsernameKey holds the authenticated username in the request context
	UsernameKey contextKey = "username"
	// RoleKey holds the authenticated user's role in the request context
	RoleKey contextKey = "role"
)

// UserIDFromContext returns the authenticated user ID set by the auth
// middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

// RoleFromContext returns the authenticated role set by the auth
// middleware.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes an error body in the backend's convention: the
// message lives under the "detail" key.
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{Detail: message}, statusCode)
}
