package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wkarimi/shulebook/internal/models"
	"github.com/wkarimi/shulebook/internal/server/storage"
	"github.com/wkarimi/shulebook/internal/validation"
	"github.com/wkarimi/shulebook/pkg/api"
)

// AuthHandler serves the authentication endpoints
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	jwtConfig    JWTConfig
	csrf         *csrfStore
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	logger *slog.Logger,
	userStorage storage.UserStorage,
	tokenStorage storage.TokenStorage,
	jwtConfig JWTConfig,
) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		jwtConfig:    jwtConfig,
		csrf:         newCSRFStore(),
	}
}

func userResponse(user *models.User) api.User {
	return api.User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}
}

// CSRF handles GET /api/auth/csrf/
// Hands out the anti-forgery token required by Login.
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	token := h.csrf.Issue()

	sendJSON(h.logger, w, api.CSRFResponse{CSRFToken: token}, http.StatusOK)
}

// Signup handles POST /api/auth/signup/
// Registers a new portal account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode signup request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	switch req.Role {
	case api.RoleStudent, api.RoleTeacher, api.RoleParent:
	default:
		sendError(h.logger, w, "invalid role", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	userID, err := h.userStorage.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendError(h.logger, w, "username already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("username", req.Username),
		slog.Int64("user_id", userID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "User registered successfully"}, http.StatusCreated)
}

// Login handles POST /api/auth/login/
// Authenticates credentials and returns the user record together with
// an access/refresh token pair. Requires a valid X-CSRFToken header
// obtained from a preceding CSRF call.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	csrfToken := r.Header.Get("X-CSRFToken")
	if !h.csrf.Consume(csrfToken) {
		h.logger.WarnContext(ctx, "login rejected: missing or stale CSRF token")
		sendError(h.logger, w, "CSRF token missing or incorrect", http.StatusForbidden)
		return
	}

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		sendError(h.logger, w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			sendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "login failed: wrong password", slog.String("username", req.Username))
		sendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	refreshToken, expiresAt, err := GenerateRefreshToken(h.jwtConfig)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := h.tokenStorage.SaveRefreshToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("username", req.Username),
		slog.Int64("user_id", user.ID))

	resp := api.LoginResponse{
		User:    userResponse(user),
		Access:  accessToken,
		Refresh: refreshToken,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Refresh handles POST /api/auth/refresh/
// Exchanges a refresh token for a new access token. The refresh token
// itself is not rotated.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Refresh == "" {
		sendError(h.logger, w, "refresh token is required", http.StatusBadRequest)
		return
	}

	storedToken, err := h.tokenStorage.GetRefreshToken(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.WarnContext(ctx, "refresh token not found")
			sendError(h.logger, w, "Token is invalid or expired", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if time.Now().After(storedToken.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.Int64("user_id", storedToken.UserID))
		sendError(h.logger, w, "Token is invalid or expired", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, storedToken.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "access token refreshed", slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.RefreshResponse{Access: accessToken}, http.StatusOK)
}

// Logout handles POST /api/auth/logout/
// Revokes the user's refresh tokens. Clients treat logout as best
// effort, so an invalid or missing token still gets 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if userID, ok := UserIDFromContext(ctx); ok {
		deleted, err := h.tokenStorage.DeleteUserTokens(ctx, userID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to delete user tokens", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.InfoContext(ctx, "user logged out",
			slog.Int64("user_id", userID),
			slog.Int("tokens_deleted", deleted))
	}

	w.WriteHeader(http.StatusNoContent)
}

// User handles GET /api/auth/user/
// Returns the authenticated user record.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found.", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// GetProfile handles GET /api/auth/profile/
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	profile := api.Profile{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Address:   user.Address,
	}

	sendJSON(h.logger, w, profile, http.StatusOK)
}

// UpdateProfile handles PUT /api/auth/profile/
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	var profile api.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode profile request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if profile.Email != "" {
		if err := validation.ValidateEmail(profile.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	err := h.userStorage.UpdateProfile(ctx, userID,
		profile.Email, profile.FirstName, profile.LastName, profile.Phone, profile.Address)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, profile, http.StatusOK)
}
