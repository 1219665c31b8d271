// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package query

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the dispatcher waits after the last
// keystroke before running the query.
const DefaultDebounce = 300 * time.Millisecond

// Dispatcher coalesces rapid successive dispatches (typically search
// keystrokes) into one execution of the latest one. Every Dispatch
// supersedes the previous: a pending timer is reset, and a result for
// an earlier dispatch can be detected as stale via its generation.
type Dispatcher struct {
	mu         sync.Mutex
	debounce   time.Duration
	timer      *time.Timer
	generation uint64
}

// NewDispatcher creates a dispatcher. A non-positive debounce falls
// back to DefaultDebounce.
func NewDispatcher(debounce time.Duration) *Dispatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Dispatcher{debounce: debounce}
}

// Dispatch schedules fn to run after the debounce window, replacing
// any not-yet-fired previous dispatch. It returns the generation of
// this dispatch; fn receives the same generation so results can be
// checked against Current before being applied.
func (d *Dispatcher) Dispatch(fn func(generation uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.debounce, func() {
		fn(gen)
	})
	return gen
}

// Current reports whether generation is still the latest dispatch.
// A false result means a newer dispatch superseded it and its outcome
// must not overwrite newer state.
func (d *Dispatcher) Current(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation == d.generation
}

// Cancel stops a pending dispatch and supersedes any in-flight one.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
