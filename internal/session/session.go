// Package session holds the authenticated user and bearer token.
//
// A Session is created once and injected into the API client (as its
// Credentials) and into every view that needs to know who is logged in.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
)

// Messages returned in failed Results when the server gives none.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoginFailed        = "Login failed"
	MsgRegisterFailed     = "Registration failed"
	MsgUserUnavailable    = "Logged in, but the account could not be loaded"
)

const storageTimeout = 5 * time.Second

// API is the part of the API client the session drives.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (model.User, error)
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Result reports the outcome of Login or Register.
type Result struct {
	Message string
	OK      bool
}

// State is a snapshot handed to change listeners.
type State struct {
	User          *model.User
	Authenticated bool
	Loading       bool
}

// Session is the authenticated user plus bearer token.
type Session struct {
	api       API
	tokens    TokenStore
	user      *model.User
	listeners map[int]func(State)
	token     string
	nextID    int
	loading   bool
	mu        sync.RWMutex
}

// New returns a session that is loading until Init runs.
func New(client API, tokens TokenStore) *Session {
	return &Session{
		api:       client,
		tokens:    tokens,
		loading:   true,
		listeners: make(map[int]func(State)),
	}
}

// Init restores the session from the stored token. Any failure to resolve
// the user clears the stored token; nothing is reported to the caller.
func (s *Session) Init(ctx context.Context) {
	defer s.update(func() { s.loading = false })

	token, err := s.tokens.LoadToken(ctx)
	if err != nil {
		slog.Warn("Failed to read stored token", "error", err)
		return
	}
	if token == "" {
		return
	}

	s.update(func() { s.token = token })

	user, err := s.api.CurrentUser(api.WithoutExpiry(ctx))
	if err != nil {
		slog.Debug("Stored token rejected", "error", err)
		s.clear(ctx)
		return
	}
	s.update(func() { s.user = &user })
}

// Login authenticates and loads the current user.
func (s *Session) Login(ctx context.Context, username, password string) Result {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		slog.Debug("Login failed", "username", username, "error", err)
		return Result{Message: loginMessage(err)}
	}

	s.update(func() { s.token = token })
	if err := s.tokens.SaveToken(ctx, token); err != nil {
		slog.Warn("Failed to persist token", "error", err)
	}

	user, err := s.api.CurrentUser(api.WithoutExpiry(ctx))
	if err != nil {
		slog.Warn("Failed to load user after login", "error", err)
		s.clear(ctx)
		return Result{Message: MsgUserUnavailable}
	}

	s.update(func() { s.user = &user })
	slog.Info("Logged in", "username", user.Username)
	return Result{OK: true}
}

// Register creates an account without logging in.
func (s *Session) Register(ctx context.Context, username, email, password string) Result {
	if err := s.api.Register(ctx, username, email, password); err != nil {
		slog.Debug("Registration failed", "username", username, "error", err)
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = MsgRegisterFailed
		}
		return Result{Message: msg}
	}
	return Result{OK: true}
}

// Logout ends the session. Server errors are logged, never returned.
func (s *Session) Logout(ctx context.Context) {
	if s.AccessToken() != "" {
		if err := s.api.Logout(ctx); err != nil {
			slog.Warn("Logout request failed", "error", err)
		}
	}
	s.clear(ctx)
}

// Expire drops the session after the server rejected the token.
func (s *Session) Expire() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	s.clear(ctx)
}

// IsAuthenticated reports whether a user is loaded.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading reports whether Init is still running.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns the logged-in user.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// UserID returns the logged-in user's id, or 0.
func (s *Session) UserID() int {
	u, _ := s.User()
	return u.ID
}

// AccessToken returns the bearer token, or "".
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// OnChange registers fn to run after every change. The returned func removes it.
func (s *Session) OnChange(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) clear(ctx context.Context) {
	s.update(func() {
		s.user = nil
		s.token = ""
	})
	if err := s.tokens.ClearToken(ctx); err != nil {
		slog.Warn("Failed to clear stored token", "error", err)
	}
}

// update applies fn under the lock and then notifies listeners.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	state := s.stateLocked()
	listeners := make([]func(State), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func (s *Session) stateLocked() State {
	st := State{Authenticated: s.user != nil, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func loginMessage(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return MsgInvalidCredentials
	}
	return MsgLoginFailed
}
