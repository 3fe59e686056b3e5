package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/internal/client/storage"
	"github.com/wkarimi/shulebook/internal/validation"
	"github.com/wkarimi/shulebook/pkg/api"
)

// Session manager errors
var (
	// ErrNotAuthenticated indicates that no session exists
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRefreshInFlight indicates that a token refresh is already running
	ErrRefreshInFlight = errors.New("token refresh already in flight")
)

// State is the session manager's lifecycle state.
type State int

// Session lifecycle states
const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
	StateLoggingOut
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is a point-in-time snapshot of the authentication state.
// Authenticated is true exactly when User is present.
type Session struct {
	User          *api.User
	Authenticated bool
	Initializing  bool
}

// Manager is the authentication state machine. It owns the token pair
// (sole writer), performs login/logout/session-restore and raises the
// staleness latch in the app state store after auth events. The store
// dependency is one-directional: the manager consumes the store's
// dispatch function, the store knows nothing about the manager.
type Manager struct {
	client   AuthAPI
	tokens   storage.TokenStorage
	dispatch func(state.Action)
	logger   *slog.Logger

	// opMu serializes login, session restore and logout. The token
	// refresh deliberately does not take it: a refresh fires from the
	// transport in the middle of those operations.
	opMu sync.Mutex

	mu         sync.Mutex
	st         State
	user       *api.User
	refreshing bool
	subs       []chan Session
}

// NewManager creates the session manager. dispatch is the app state
// store's write surface, injected here so the dependency stays
// one-directional (composition order, not mutual reference).
func NewManager(client AuthAPI, tokens storage.TokenStorage, dispatch func(state.Action), logger *slog.Logger) *Manager {
	return &Manager{
		client:   client,
		tokens:   tokens,
		dispatch: dispatch,
		logger:   logger,
		st:       StateInitializing,
	}
}

// Start attempts a silent session restore. Without a stored refresh
// token it settles in Unauthenticated without touching the network;
// with one it re-validates the session, and on failure performs the
// full logout cascade.
func (m *Manager) Start(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	pair, err := m.tokens.GetTokens(ctx)
	if err != nil || pair.Refresh == "" {
		if err != nil && !errors.Is(err, storage.ErrTokensNotFound) {
			m.logger.Warn("failed to read stored tokens", "error", err)
		}
		m.setSession(StateUnauthenticated, nil)
		return nil
	}

	if err := m.loadUser(ctx); err != nil {
		m.logger.Warn("session restore failed", "error", err)
		m.logout(ctx)
		return nil
	}

	return nil
}

// Login authenticates with credentials. On success the token pair is
// stored, the session becomes authenticated and the staleness latch is
// raised; on failure the session returns to Unauthenticated and the
// server's error detail is surfaced to the caller.
func (m *Manager) Login(ctx context.Context, username, password string) (*api.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setSession(StateAuthenticating, nil)

	csrf, err := m.client.CSRF(ctx)
	if err != nil {
		m.setSession(StateUnauthenticated, nil)
		return nil, fmt.Errorf("csrf request failed: %w", err)
	}

	resp, err := m.client.Login(ctx, api.LoginRequest{Username: username, Password: password}, csrf.CSRFToken)
	if err != nil {
		m.setSession(StateUnauthenticated, nil)
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.User.ID == 0 {
		m.setSession(StateUnauthenticated, nil)
		return nil, fmt.Errorf("login response missing user id")
	}

	pair := &storage.TokenPair{Access: resp.Access, Refresh: resp.Refresh}
	if err := m.tokens.SaveTokens(ctx, pair); err != nil {
		m.setSession(StateUnauthenticated, nil)
		return nil, fmt.Errorf("failed to save tokens: %w", err)
	}

	user := resp.User
	m.setSession(StateAuthenticated, &user)
	m.dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	m.logger.Info("user logged in", "username", user.Username, "role", user.Role)

	return &user, nil
}

// LoadUser re-validates the session against the backend (used after
// profile edits and on startup). A failure triggers the same cascade as
// logout.
func (m *Manager) LoadUser(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.loadUser(ctx); err != nil {
		m.logger.Warn("session check failed", "error", err)
		m.logout(ctx)
		return err
	}
	return nil
}

// loadUser fetches the user record and, on success, marks the session
// authenticated and raises the staleness latch. Caller holds opMu.
func (m *Manager) loadUser(ctx context.Context) error {
	user, err := m.client.User(ctx)
	if err != nil {
		return err
	}
	if user.ID == 0 {
		return fmt.Errorf("user record missing id")
	}

	m.setSession(StateAuthenticated, user)
	m.dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	return nil
}

// Logout notifies the server (best effort), unconditionally clears the
// stored tokens, transitions to Unauthenticated and resets the app
// state store to its initial shape. The cascade succeeds even when the
// server notification fails.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.logout(ctx)
}

// logout performs the teardown cascade. Caller holds opMu.
func (m *Manager) logout(ctx context.Context) {
	m.setSession(StateLoggingOut, nil)

	if err := m.client.Logout(ctx); err != nil {
		m.logger.Warn("failed to notify server of logout", "error", err)
	}

	m.clearSession(ctx)

	m.logger.Info("user logged out")
}

// RefreshTokens exchanges the stored refresh token for a new access
// token. It implements the transport's TokenRefresher, so it must not
// block on opMu: it fires mid-request, possibly inside a login or
// session restore. Re-entrant calls are rejected; the transport's
// single-flight gate is what serializes concurrent callers.
func (m *Manager) RefreshTokens(ctx context.Context) error {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return ErrRefreshInFlight
	}
	m.refreshing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	pair, err := m.tokens.GetTokens(ctx)
	if err != nil || pair.Refresh == "" {
		m.clearSession(ctx)
		return ErrNotAuthenticated
	}

	resp, err := m.client.Refresh(ctx, pair.Refresh)
	if err != nil {
		// Terminal: a dead refresh token means the session is over.
		m.logger.Warn("token refresh failed", "error", err)
		m.clearSession(ctx)
		return fmt.Errorf("token refresh failed: %w", err)
	}

	newPair := &storage.TokenPair{Access: resp.Access, Refresh: pair.Refresh}
	if err := m.tokens.SaveTokens(ctx, newPair); err != nil {
		m.clearSession(ctx)
		return fmt.Errorf("failed to save refreshed tokens: %w", err)
	}

	m.logger.Debug("access token refreshed")

	return nil
}

// clearSession deletes the stored tokens, transitions the session to
// Unauthenticated and resets the app state cache. Shared by logout and
// the refresh failure cascade.
func (m *Manager) clearSession(ctx context.Context) {
	if err := m.tokens.DeleteTokens(ctx); err != nil {
		m.logger.Warn("failed to delete stored tokens", "error", err)
	}
	m.setSession(StateUnauthenticated, nil)
	m.dispatch(state.ClearAll{})
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionLocked()
}

// Subscribe returns a channel that receives a session snapshot after
// every state change. Delivery is best effort: a subscriber that is not
// draining its channel misses intermediate snapshots, never blocks the
// manager.
func (m *Manager) Subscribe() <-chan Session {
	ch := make(chan Session, 8)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// setSession updates state and user together and notifies subscribers.
func (m *Manager) setSession(st State, user *api.User) {
	m.mu.Lock()
	m.st = st
	m.user = user
	session := m.sessionLocked()
	subs := m.subs
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- session:
		default:
		}
	}
}

// sessionLocked builds a snapshot. Caller holds mu. The invariant that
// Authenticated equals "user is present" holds because setSession only
// stores a user together with StateAuthenticated.
func (m *Manager) sessionLocked() Session {
	var user *api.User
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return Session{
		User:          user,
		Authenticated: m.st == StateAuthenticated,
		Initializing:  m.st == StateInitializing,
	}
}
