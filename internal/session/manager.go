// Package session owns the authenticated identity for the console: login,
// silent refresh, logout, and the durable session file that lets a restart
// rehydrate before the first network round-trip completes.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Token endpoints exposed by the backend.
const (
	loginPath   = "/auth/token/"
	refreshPath = "/auth/token/refresh/"
)

// ErrNotAuthenticated is returned by operations that need a live session.
var ErrNotAuthenticated = errors.New("not authenticated")

// State is the guard state the console branches on. Unknown renders a neutral
// spinner, never protected pages and never the login form.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the identity returned by the login endpoint, persisted alongside
// the tokens so `whoami` and the header bar work offline.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
}

// Session is a read-only snapshot of the current authentication state.
// Invariant: Authenticated == (AccessToken != "").
type Session struct {
	AccessToken   string
	User          *User
	Authenticated bool
}

// stored is the on-disk shape of the session file.
type stored struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	User         *User     `json:"user,omitempty"`
}

// Manager is the process-wide session guard. It implements api.TokenSource
// and api.Refresher; the auth endpoints are called over a plain HTTP client
// so a rejected refresh can never recurse through the authed transport.
type Manager struct {
	baseURL string
	file    string
	httpc   *http.Client
	log     *zap.Logger

	mu    sync.Mutex
	state State
	tok   stored
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSessionFile overrides the session file location (tests).
func WithSessionFile(path string) ManagerOption {
	return func(m *Manager) { m.file = path }
}

// WithHTTPClient overrides the HTTP client used for the auth endpoints.
func WithHTTPClient(h *http.Client) ManagerOption {
	return func(m *Manager) { m.httpc = h }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// NewManager loads any persisted session from disk. With a persisted refresh
// credential the state starts Unknown until SilentRefresh settles it; with
// nothing on disk it starts Anonymous.
func NewManager(baseURL string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
		state:   StateAnonymous,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.file == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		m.file = filepath.Join(dir, "tourtra", "session.json")
	}
	if err := m.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// A corrupt session file is discarded, not fatal.
		m.log.Warn("discarding unreadable session file", zap.Error(err))
		_ = os.Remove(m.file)
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.file)
	if err != nil {
		return err
	}
	var tok stored
	if err := json.Unmarshal(data, &tok); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = tok
	if tok.RefreshToken != "" {
		m.state = StateUnknown
	}
	return nil
}

func (m *Manager) persistLocked() error {
	data, err := json.MarshalIndent(m.tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.file), 0o755); err != nil {
		return err
	}
	tmp := m.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, m.file)
}

// AccessToken implements api.TokenSource.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok.AccessToken
}

// State returns the current guard state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var user *User
	if m.tok.User != nil {
		u := *m.tok.User
		user = &u
	}
	return Session{
		AccessToken:   m.tok.AccessToken,
		User:          user,
		Authenticated: m.tok.AccessToken != "",
	}
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

// Login exchanges credentials for a token pair. Failures surface as a single
// flat message; the backend's field-level detail is deliberately not exposed
// at the login prompt.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := m.post(ctx, loginPath, body)
	if err != nil {
		return Session{}, err
	}
	if resp.status != http.StatusOK {
		m.log.Info("login rejected", zap.Int("status", resp.status))
		return Session{}, errors.New("invalid credentials")
	}
	var tok tokenResponse
	if err := json.Unmarshal(resp.body, &tok); err != nil {
		return Session{}, fmt.Errorf("decode login response: %w", err)
	}

	m.mu.Lock()
	m.tok = stored{
		AccessToken:  tok.Access,
		RefreshToken: tok.Refresh,
		User:         tok.User,
	}
	if claims, err := ParseClaims(tok.Access); err == nil {
		m.tok.Expiry = claims.ExpiresAt
		if m.tok.User == nil {
			m.tok.User = claims.User()
		}
	}
	m.state = StateAuthenticated
	err = m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	m.log.Info("login succeeded", zap.String("email", email))
	return m.Snapshot(), nil
}

// Refresh implements api.Refresher: it exchanges the durable refresh
// credential for a fresh access token and persists the result. A rejected
// refresh clears the session entirely.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	refresh := m.tok.RefreshToken
	m.mu.Unlock()
	if refresh == "" {
		return ErrNotAuthenticated
	}

	body, _ := json.Marshal(map[string]string{"refresh": refresh})
	resp, err := m.post(ctx, refreshPath, body)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		m.Logout()
		return fmt.Errorf("refresh rejected (%d)", resp.status)
	}
	var tok tokenResponse
	if err := json.Unmarshal(resp.body, &tok); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok.AccessToken = tok.Access
	if tok.Refresh != "" { // rotated
		m.tok.RefreshToken = tok.Refresh
	}
	if claims, err := ParseClaims(tok.Access); err == nil {
		m.tok.Expiry = claims.ExpiresAt
	}
	m.state = StateAuthenticated
	return m.persistLocked()
}

// SilentRefresh runs once per process start. It settles Unknown into either
// Authenticated or Anonymous and never surfaces a user-visible error.
func (m *Manager) SilentRefresh(ctx context.Context) State {
	m.mu.Lock()
	refresh := m.tok.RefreshToken
	m.mu.Unlock()
	if refresh == "" {
		m.mu.Lock()
		m.state = StateAnonymous
		m.mu.Unlock()
		return StateAnonymous
	}
	if err := m.Refresh(ctx); err != nil {
		m.log.Info("silent refresh failed", zap.Error(err))
		m.Logout()
		return StateAnonymous
	}
	return StateAuthenticated
}

// Logout clears the in-memory session and deletes the persisted file. Safe to
// call in any state.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = stored{}
	m.state = StateAnonymous
	_ = os.Remove(m.file)
}

type rawResponse struct {
	status int
	body   []byte
}

func (m *Manager) post(ctx context.Context, path string, body []byte) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &rawResponse{status: resp.StatusCode, body: data}, nil
}
