// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package prefs

import "sync"

// Memory is an in-memory Store. Useful for tests and for sessions that
// should not persist preferences.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{scopes: make(map[string]map[string]string)}
}

func (m *Memory) Get(scope, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.scopes[scope][key]
	return value, ok
}

func (m *Memory) Set(scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.scopes[scope]
	if !ok {
		s = make(map[string]string)
		m.scopes[scope] = s
	}
	s[key] = value
	return nil
}

func (m *Memory) Delete(scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.scopes[scope]; ok {
		delete(s, key)
		if len(s) == 0 {
			delete(m.scopes, scope)
		}
	}
	return nil
}
