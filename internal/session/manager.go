package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"taskboard/internal/service"
)

// Manager owns the session lifecycle. It is the only writer of the
// credential and of the persisted token.
type Manager struct {
	auth   service.Authenticator
	store  TokenStore
	cred   *Credential
	logger *log.Logger

	mu      sync.RWMutex
	user    *service.User
	loading bool
}

// NewManager creates a manager in the loading state. Call Init to restore
// a persisted session.
func NewManager(auth service.Authenticator, store TokenStore, cred *Credential, logger *log.Logger) *Manager {
	if cred == nil {
		cred = NewCredential()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		auth:    auth,
		store:   store,
		cred:    cred,
		logger:  logger,
		loading: true,
	}
}

// Init restores the persisted token without contacting the server.
// Loading is cleared whatever the outcome.
func (m *Manager) Init() {
	defer m.setLoading(false)

	tok, err := m.store.Load()
	if err != nil {
		m.logger.Warn("ignoring stored session", "err", err)
		return
	}
	if tok == nil {
		m.logger.Debug("no stored session")
		return
	}
	m.cred.set(tok)
	m.logger.Debug("restored session")
}

// Login exchanges credentials for a session and persists the token.
// On failure nothing changes and an *AuthError is returned.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	res, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.logger.Debug("login failed", "user", username, "err", err)
		return newAuthError("login", ErrLoginFailed, err)
	}
	if res.AccessToken == "" {
		return &AuthError{Op: "login", Message: ErrLoginFailed.Error(), Err: errors.New("empty access token")}
	}

	tok := &oauth2.Token{AccessToken: res.AccessToken, TokenType: "Bearer"}
	if err := m.store.Save(tok); err != nil {
		return fmt.Errorf("login succeeded but session could not be saved: %w", err)
	}

	m.cred.set(tok)
	user := res.User
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	m.logger.Info("logged in", "user", user.Username)
	return nil
}

// Register creates an account and then logs in with the same credentials.
// A login failure after a successful registration is returned as is; the
// account stays created and no session is started.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if err := m.auth.Register(ctx, username, email, password); err != nil {
		m.logger.Debug("registration failed", "user", username, "err", err)
		return newAuthError("register", ErrRegistrationFailed, err)
	}
	m.logger.Info("registered", "user", username)
	return m.Login(ctx, username, password)
}

// Logout clears the session and removes the persisted token. It never fails;
// a token file that cannot be removed is logged.
func (m *Manager) Logout() {
	m.cred.set(nil)
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Remove(); err != nil {
		m.logger.Error("failed to remove stored session", "err", err)
	}
}

// User returns the profile from the last login in this process, or nil.
// A session restored by Init has a token but no profile.
func (m *Manager) User() *service.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	return m.cred.Present()
}

// Loading reports whether Init has not yet finished.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Credential returns the shared ambient credential.
func (m *Manager) Credential() *Credential {
	return m.cred
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
