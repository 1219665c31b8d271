// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/metrics"
)

// State is the lifecycle position of a cache entry.
type State int

const (
	// StateIdle means the key has never been fetched.
	StateIdle State = iota
	// StatePending means a request is in flight; concurrent fetchers
	// attach to it instead of issuing duplicates.
	StatePending
	// StateResolved means a value is cached.
	StateResolved
	// StateFailed means the last fetch failed and the error is cached.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc performs the network fetch for a key, typically a closure
// over an endpoint binding.
type FetchFunc func(ctx context.Context) (any, error)

// flight is one in-flight request. Its result fields are written
// exactly once, before done is closed; waiters read them afterwards.
// Waiters always receive their flight's own outcome even when a
// superseded response is discarded from the cache.
type flight struct {
	done  chan struct{}
	value any
	err   error
}

// entry is one cached key. All fields are guarded by the cache mutex.
//
// The doubly-linked list threading (prev/next with sentinels) follows
// the LRU layout used for analytics session tracking: O(1) touch and
// eviction instead of scanning the map.
type entry struct {
	key       Key
	canonical string

	state     State
	value     any
	err       error
	stale     bool
	expiresAt time.Time

	// generation increments on every flight dispatch and every
	// invalidation; a landing response is applied only when its
	// generation is still current.
	generation uint64
	flight     *flight

	prev, next *entry
}

// Options configures a Cache.
type Options struct {
	// Capacity bounds the number of entries; least recently used
	// entries are evicted beyond it. Default: 512.
	Capacity int

	// TTL is how long a resolved value stays fresh. A resolved entry
	// past its TTL behaves like a stale one: it is served while a
	// background refetch runs. Default: 5 minutes.
	TTL time.Duration
}

// Cache is the keyed request cache. Safe for concurrent use; consumers
// never mutate entries directly, they issue intents and read snapshots.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	ttl      time.Duration

	// head.next is most recently used, tail.prev least recently used.
	head, tail *entry

	logger zerolog.Logger
}

// New creates a query cache.
func New(opts Options) *Cache {
	if opts.Capacity <= 0 {
		opts.Capacity = 512
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}

	c := &Cache{
		entries:  make(map[string]*entry, opts.Capacity),
		capacity: opts.Capacity,
		ttl:      opts.TTL,
		head:     &entry{},
		tail:     &entry{},
		logger:   logging.With().Str("component", "query").Logger(),
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Fetch returns the cached value for key, or performs fn to produce it.
//
//   - Fresh resolved entry: returned immediately, no network call.
//   - Stale or expired resolved entry: the held value is returned
//     immediately and a single background refetch is started
//     (stale-while-revalidate).
//   - Pending entry: the caller attaches to the in-flight request and
//     receives the same value or failure as its initiator.
//   - Idle or failed entry: a new flight starts. A cached failure is
//     never reused for an explicit Fetch.
//
// ctx cancellation releases the caller but does not abort the shared
// flight; a response for a superseded dispatch is discarded rather than
// allowed to overwrite a newer entry.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.lookup(key)
	c.moveToFront(e)

	switch e.state {
	case StateResolved:
		value := e.value
		if !e.stale && time.Now().Before(e.expiresAt) {
			c.mu.Unlock()
			metrics.QueryCacheHits.Inc()
			return value, nil
		}
		// Serve the held value; refetch in the background unless a
		// flight is already running.
		if e.flight == nil {
			c.startFlight(ctx, e, fn)
		}
		c.mu.Unlock()
		metrics.QueryCacheHits.Inc()
		return value, nil

	case StatePending:
		f := e.flight
		c.mu.Unlock()
		metrics.QueryDeduplicated.Inc()
		return awaitFlight(ctx, f)

	default: // StateIdle, StateFailed
		e.state = StatePending
		e.err = nil
		f := c.startFlight(ctx, e, fn)
		c.mu.Unlock()
		metrics.QueryCacheMisses.Inc()
		return awaitFlight(ctx, f)
	}
}

// Peek returns a snapshot of the entry without fetching.
// The second return is false when the key has never been seen.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key.canonical()]
	if !exists {
		return Snapshot{State: StateIdle}, false
	}
	return Snapshot{State: e.state, Value: e.value, Err: e.err, Stale: e.stale}, true
}

// Snapshot is a point-in-time read of a cache entry.
type Snapshot struct {
	State State
	Value any
	Err   error
	Stale bool
}

// Invalidate marks the entry stale. The held value keeps being served
// until the next Fetch completes a refetch. A response already in
// flight for the key is discarded on landing rather than applied.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key.canonical()]
	if !exists {
		return
	}
	c.invalidateEntry(e)
}

// InvalidatePrefix marks every entry of the operation stale.
func (c *Cache) InvalidatePrefix(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.key.Op == op {
			c.invalidateEntry(e)
		}
	}
}

// invalidateEntry must be called with the mutex held.
func (c *Cache) invalidateEntry(e *entry) {
	e.stale = true
	e.generation++
	if e.state == StatePending {
		// The in-flight response will see a stale generation and be
		// discarded; reset so the next Fetch restarts cleanly.
		e.state = StateIdle
		e.flight = nil
	}
	c.logger.Debug().Str("key", e.canonical).Msg("invalidated")
}

// Update applies fn to the cached value of a resolved entry, replacing
// it with the return value. Used for optimistic reconciliation after
// mutations; no-op when the entry is absent or not resolved.
func (c *Cache) Update(key Key, fn func(value any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key.canonical()]
	if !exists || e.state != StateResolved {
		return
	}
	e.value = fn(e.value)
}

// UpdateOp applies fn to every resolved entry of the operation.
// Returning the input unchanged leaves the entry untouched.
func (c *Cache) UpdateOp(op string, fn func(key Key, value any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.key.Op == op && e.state == StateResolved {
			e.value = fn(e.key, e.value)
		}
	}
}

// Len returns the number of cache entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
	metrics.QueryCacheEntries.Set(0)
}

// lookup returns the entry for key, creating an idle one as needed.
// Must be called with the mutex held.
func (c *Cache) lookup(key Key) *entry {
	ck := key.canonical()
	if e, exists := c.entries[ck]; exists {
		return e
	}

	e := &entry{key: key, canonical: ck, state: StateIdle}
	c.entries[ck] = e
	c.pushFront(e)
	c.evictOverCapacity()
	metrics.QueryCacheEntries.Set(float64(len(c.entries)))
	return e
}

// startFlight launches the network fetch for an entry and returns the
// flight for waiters. Must be called with the mutex held.
//
// The flight runs on a context detached from the initiating caller so
// one canceled consumer cannot poison the shared request.
func (c *Cache) startFlight(ctx context.Context, e *entry, fn FetchFunc) *flight {
	f := &flight{done: make(chan struct{})}
	e.flight = f
	e.generation++
	gen := e.generation

	flightCtx := context.WithoutCancel(ctx)
	ck := e.canonical

	go func() {
		value, err := fn(flightCtx)
		f.value = value
		f.err = err

		c.mu.Lock()
		if cur, exists := c.entries[ck]; exists && cur == e {
			// Release the slot even when the response is discarded,
			// otherwise an invalidated revalidation would block every
			// later refetch of the key.
			if e.flight == f {
				e.flight = nil
			}
			if e.generation == gen {
				if err != nil {
					e.state = StateFailed
					e.err = err
					e.value = nil
				} else {
					e.state = StateResolved
					e.value = value
					e.err = nil
					e.stale = false
					e.expiresAt = time.Now().Add(c.ttl)
				}
			} else {
				c.logger.Debug().Str("key", ck).Msg("discarded superseded response")
			}
		}
		c.mu.Unlock()

		close(f.done)
	}()

	return f
}

// awaitFlight blocks until the flight lands or the caller's context
// ends. Cancellation releases only this caller; the flight continues
// for any other waiters.
func awaitFlight(ctx context.Context, f *flight) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LRU list plumbing; all must be called with the mutex held.

func (c *Cache) pushFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Cache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}

func (c *Cache) moveToFront(e *entry) {
	if c.head.next == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

// evictOverCapacity removes least recently used entries beyond
// capacity, skipping any with a request still in flight.
func (c *Cache) evictOverCapacity() {
	for len(c.entries) > c.capacity {
		victim := c.tail.prev
		for victim != c.head && victim.flight != nil {
			victim = victim.prev
		}
		if victim == c.head {
			return
		}
		c.unlink(victim)
		delete(c.entries, victim.canonical)
		metrics.QueryCacheEvictions.Inc()
		metrics.QueryCacheEntries.Set(float64(len(c.entries)))
	}
}

// FetchAs is the typed wrapper over Cache.Fetch for a binding returning
// T. It fails rather than mixing shapes when a key is reused across
// differently typed operations.
func FetchAs[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s holds %T, not the requested type", key, v)
	}
	return value, nil
}
