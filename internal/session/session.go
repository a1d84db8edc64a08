// Package session is the single source of truth for who is signed in.
// All session mutations flow through Manager; the gateway and the CLI read
// from it but never touch the persisted credentials directly.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/user/eventify/internal/api"
	"github.com/user/eventify/internal/gateway"
	"github.com/user/eventify/internal/types"
)

// invalidTokenMessage is the server's explicit invalidation message. Only
// this message, or a 401 status, is allowed to destroy a cached session;
// anything else is treated as a transient failure.
const invalidTokenMessage = "Invalid or expired token"

// AuthAPI is the slice of the remote API the session manager needs.
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	VerifyToken(ctx context.Context) (*api.VerifyResponse, error)
	RefreshToken(ctx context.Context) (*api.AuthResponse, error)
}

// Result is the outcome of a register or sign-in attempt. Auth failures are
// data, not errors: callers branch on Success and show Message.
type Result struct {
	Success bool
	Message string
}

// Manager owns the authenticated-user state machine: Unknown until the
// startup verification settles, then Anonymous or Authenticated.
type Manager struct {
	store *Store
	api   AuthAPI

	mu         sync.Mutex
	user       *types.UserRecord
	loggingOut bool

	loading  atomic.Int32
	verified atomic.Bool
	sf       singleflight.Group
}

// NewManager creates a session manager over the given credential store and
// auth endpoints.
func NewManager(store *Store, authAPI AuthAPI) *Manager {
	return &Manager{store: store, api: authAPI}
}

// CurrentUser returns the signed-in user, or nil when anonymous.
func (m *Manager) CurrentUser() *types.UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether a session operation is in flight.
func (m *Manager) Loading() bool {
	return m.loading.Load() > 0
}

// Token returns the persisted bearer token, fresh from the store.
func (m *Manager) Token() string {
	return m.store.Token()
}

// beginOp marks a session operation in flight and returns its release.
// Callers defer the release so no exit path, including a panic, leaves the
// loading flag stuck.
func (m *Manager) beginOp() func() {
	m.loading.Add(1)
	return func() { m.loading.Add(-1) }
}

// VerifySession settles the startup Unknown state. It runs the remote
// verification at most once per process; concurrent callers collapse into
// the single in-flight run and later callers return immediately.
func (m *Manager) VerifySession(ctx context.Context) error {
	if m.verified.Load() {
		return nil
	}
	_, err, _ := m.sf.Do("verify", func() (any, error) {
		if m.verified.Swap(true) {
			return nil, nil
		}
		return nil, m.verify(ctx)
	})
	return err
}

func (m *Manager) verify(ctx context.Context) error {
	release := m.beginOp()
	defer release()

	creds, err := m.store.Load()
	if err != nil {
		slog.Warn("reading stored credentials", "error", err)
		return nil
	}
	if creds == nil || creds.Token == "" {
		return nil
	}

	// Adopt the cached user immediately; the server's answer replaces it.
	m.setUser(creds.User)

	resp, err := m.api.VerifyToken(ctx)
	if err != nil {
		var serr *gateway.StatusError
		if errors.As(err, &serr) &&
			(serr.Status == 401 || serr.Message == invalidTokenMessage) {
			m.clearLocal()
			return nil
		}
		// Unreachable server or a 5xx must not sign the user out.
		slog.Warn("token verification failed, keeping cached session", "error", err)
		return nil
	}

	if resp.Valid {
		if resp.User != nil {
			m.setUser(resp.User)
			m.persist(creds.Token, resp.User)
		}
		return nil
	}

	// Explicitly invalid: try a silent refresh before giving up.
	refreshed, err := m.api.RefreshToken(ctx)
	if err == nil && refreshed.User != nil && refreshed.Token != "" {
		m.setUser(refreshed.User)
		m.persist(refreshed.Token, refreshed.User)
		return nil
	}
	if err != nil {
		slog.Debug("token refresh failed", "error", err)
	}
	m.clearLocal()
	return nil
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, username, email, password, photoURL string) Result {
	release := m.beginOp()
	defer release()

	resp, err := m.api.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		PhotoURL: photoURL,
	})
	if err != nil {
		return failure(err, "Failed to register")
	}

	m.adopt(resp)
	return Result{Success: true}
}

// SignIn authenticates with email and password.
func (m *Manager) SignIn(ctx context.Context, email, password string) Result {
	release := m.beginOp()
	defer release()

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return failure(err, "Invalid email or password")
	}

	m.adopt(resp)
	return Result{Success: true}
}

// LogOut tells the server to invalidate the token, best-effort, then clears
// local state unconditionally. It is idempotent and safe to invoke from the
// gateway's auth-failure path, including while a logout is already running.
func (m *Manager) LogOut(ctx context.Context) error {
	release := m.beginOp()
	defer release()

	m.mu.Lock()
	nested := m.loggingOut
	m.loggingOut = true
	m.mu.Unlock()

	if nested {
		// Re-entered via the gateway while the logout POST was in flight;
		// just make sure local state is gone.
		m.clearLocal()
		return nil
	}
	defer func() {
		m.mu.Lock()
		m.loggingOut = false
		m.mu.Unlock()
	}()

	if m.store.Token() != "" {
		if err := m.api.Logout(ctx); err != nil {
			slog.Warn("remote logout failed, clearing local session anyway", "error", err)
		}
	}
	m.clearLocal()
	return nil
}

// adopt installs a fresh user+token pair from a successful auth response.
func (m *Manager) adopt(resp *api.AuthResponse) {
	m.setUser(resp.User)
	if resp.Token != "" {
		m.persist(resp.Token, resp.User)
	}
	m.verified.Store(true)
}

func (m *Manager) setUser(u *types.UserRecord) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

func (m *Manager) persist(token string, user *types.UserRecord) {
	if err := m.store.Save(&types.Credentials{Token: token, User: user}); err != nil {
		slog.Warn("persisting credentials", "error", err)
	}
}

func (m *Manager) clearLocal() {
	m.setUser(nil)
	if err := m.store.Clear(); err != nil {
		slog.Warn("clearing credentials", "error", err)
	}
}

// failure maps an endpoint error to a Result, preferring the server's
// message, then the transport error, then the fallback.
func failure(err error, fallback string) Result {
	var serr *gateway.StatusError
	if errors.As(err, &serr) {
		if serr.Message != "" {
			return Result{Message: serr.Message}
		}
		return Result{Message: fallback}
	}
	return Result{Message: err.Error()}
}
