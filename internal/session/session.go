// Package session holds the per-browser auth state of the web tier: the token
// triple issued by the REST API, its persistence, and the route guards built
// on top of it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

// State is the auth state of a session.
type State int

const (
	Anonymous State = iota
	Authenticated
	Admin
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "anonymous"
}

// Credentials is the persisted token triple.
type Credentials struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

// Session is the request-scoped view of one browser's auth state. It is
// handed to handlers explicitly rather than read from a global.
type Session struct {
	store Store

	mu       sync.RWMutex
	id       string
	creds    Credentials
	onRotate func(id string)
}

func newSession(id string, store Store, creds *Credentials) *Session {
	s := &Session{id: id, store: store}
	if creds != nil {
		s.creds = *creds
	}
	return s
}

// ID is the session cookie value.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// OnRotate registers fn to learn the new id whenever the session id changes,
// so the cookie can follow it.
func (s *Session) OnRotate(fn func(id string)) {
	s.mu.Lock()
	s.onRotate = fn
	s.mu.Unlock()
}

// User is the signed in user, nil when anonymous.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds.AccessToken == "" {
		return nil
	}
	return s.creds.User
}

// IsAuthenticated holds exactly when an access token is present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken != ""
}

// IsAdmin holds exactly when the signed in user has the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken != "" && s.creds.User != nil && s.creds.User.Role == domain.RoleAdmin
}

// State derives the auth state.
func (s *Session) State() State {
	switch {
	case s.IsAdmin():
		return Admin
	case s.IsAuthenticated():
		return Authenticated
	}
	return Anonymous
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken
}

// Credentials returns a copy of the token triple.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.creds
	if c.User != nil {
		u := *c.User
		c.User = &u
	}
	return c
}

// UpdateTokens stores rotated tokens after a silent refresh.
func (s *Session) UpdateTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	id, creds := s.id, s.creds
	s.mu.Unlock()
	return s.store.Save(ctx, id, &creds)
}

// SetUser replaces the cached user, e.g. after a profile edit.
func (s *Session) SetUser(ctx context.Context, u domain.User) error {
	s.mu.Lock()
	s.creds.User = &u
	id, creds := s.id, s.creds
	s.mu.Unlock()
	if creds.AccessToken == "" {
		return nil
	}
	return s.store.Save(ctx, id, &creds)
}

// Clear drops all credentials locally and in the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.creds = Credentials{}
	id := s.id
	s.mu.Unlock()
	return s.store.Delete(ctx, id)
}

// establish signs the session in under a fresh id. The id a browser held
// while anonymous never carries credentials.
func (s *Session) establish(ctx context.Context, creds Credentials) error {
	next := uuid.NewString()
	if err := s.store.Save(ctx, next, &creds); err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.id
	s.id = next
	s.creds = creds
	notify := s.onRotate
	s.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	if err := s.store.Delete(ctx, prev); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("drop previous session: %w", err)
	}
	return nil
}
