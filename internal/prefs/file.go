// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// File is a Store persisted as a single JSON document. Every write
// rewrites the file through a temp-file rename so a crash mid-write
// never leaves a truncated document behind.
type File struct {
	mu     sync.Mutex
	path   string
	scopes map[string]map[string]string
}

// NewFile opens the preference file at path, loading existing contents.
// A missing file starts an empty store; it is created on first write.
func NewFile(path string) (*File, error) {
	f := &File{
		path:   path,
		scopes: make(map[string]map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.scopes); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(scope, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.scopes[scope][key]
	return value, ok
}

func (f *File) Set(scope, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.scopes[scope]
	if !ok {
		s = make(map[string]string)
		f.scopes[scope] = s
	}
	s[key] = value
	return f.flush()
}

func (f *File) Delete(scope, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.scopes[scope]
	if !ok {
		return nil
	}
	if _, ok := s[key]; !ok {
		return nil
	}
	delete(s, key)
	if len(s) == 0 {
		delete(f.scopes, scope)
	}
	return f.flush()
}

// flush must be called with the mutex held.
func (f *File) flush() error {
	data, err := json.MarshalIndent(f.scopes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
