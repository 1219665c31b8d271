// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package session tracks who is signed in. The state is an explicit
// three-way tag: Loading until the first check against the server
// completes, then Authenticated with the user or Anonymous. Consumers
// branch on the tag instead of testing a user pointer for nil.
package session

import (
	"sync"

	"github.com/melograph/melograph/internal/models"
)

// Phase is the authentication tag.
type Phase int

const (
	// Loading means the initial session check has not completed.
	Loading Phase = iota
	// Authenticated means a user is signed in.
	Authenticated
	// Anonymous means the session check completed with no user.
	Anonymous
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is the application session state. Safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	phase        Phase
	user         models.User
	defaultTheme string
}

// New creates a session in the Loading phase.
func New() *Session {
	return &Session{phase: Loading}
}

// Phase returns the current tag.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// User returns the signed-in user. The second return is false unless
// the phase is Authenticated.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.phase == Authenticated
}

// IsAdmin reports whether an admin user is signed in. Loading and
// Anonymous sessions are never admin.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == Authenticated && s.user.IsAdmin()
}

// SetAuthenticated transitions to Authenticated with user.
func (s *Session) SetAuthenticated(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Authenticated
	s.user = user
}

// SetAnonymous transitions to Anonymous, clearing any user.
func (s *Session) SetAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Anonymous
	s.user = models.User{}
}

// SetDefaultTheme records the server-wide default theme from the
// server config endpoint.
func (s *Session) SetDefaultTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultTheme = theme
}

// DefaultTheme returns the server default theme, or empty when the
// server config has not been loaded.
func (s *Session) DefaultTheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultTheme
}
