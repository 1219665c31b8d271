// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkIntEqual(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func checkStringEqual(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func staticFetch(value any, calls *atomic.Int64) FetchFunc {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestKeyCanonicalOrder(t *testing.T) {
	a := NewKey("top-tracks", map[string]string{"period": "week", "limit": "10"})
	b := NewKey("top-tracks", map[string]string{"limit": "10", "period": "week"})

	checkStringEqual(t, a.canonical(), b.canonical())
	checkStringEqual(t, a.canonical(), "top-tracks|limit=10|period=week")
}

func TestKeyDistinguishesParams(t *testing.T) {
	a := NewKey("listens", map[string]string{"page": "1"})
	b := NewKey("listens", map[string]string{"page": "2"})

	if a.canonical() == b.canonical() {
		t.Fatal("distinct params must produce distinct keys")
	}
}

func TestKeyEscapesDelimitersInParams(t *testing.T) {
	pairs := [][2]Key{
		{
			NewKey("search", map[string]string{"q": "a=b"}),
			NewKey("search", map[string]string{"q=a": "b"}),
		},
		{
			NewKey("search", map[string]string{"q": "a|b=c"}),
			NewKey("search", map[string]string{"q": "a", "b": "c"}),
		},
		{
			NewKey("search", map[string]string{"q": `a\|b`}),
			NewKey("search", map[string]string{"q": `a\`, "b": ""}),
		},
	}

	for _, pair := range pairs {
		if pair[0].canonical() == pair[1].canonical() {
			t.Fatalf("keys %v and %v collide as %q", pair[0], pair[1], pair[0].canonical())
		}
	}
}

func TestFetchCachesResolvedValue(t *testing.T) {
	c := New(Options{})
	key := NewKey("stats", map[string]string{"period": "week"})
	var calls atomic.Int64

	for range 3 {
		v, err := c.Fetch(context.Background(), key, staticFetch("result", &calls))
		checkNoError(t, err)
		checkStringEqual(t, v.(string), "result")
	}

	checkIntEqual(t, int(calls.Load()), 1)
}

func TestFetchDeduplicatesConcurrent(t *testing.T) {
	c := New(Options{})
	key := NewKey("search", map[string]string{"q": "radiohead"})

	var calls atomic.Int64
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const waiters = 8
	results := make(chan string, waiters)
	var wg sync.WaitGroup
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, fn)
			if err != nil {
				t.Error(err)
				return
			}
			results <- v.(string)
		}()
	}

	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StatePending
	})
	close(release)
	wg.Wait()
	close(results)

	checkIntEqual(t, int(calls.Load()), 1)
	for v := range results {
		checkStringEqual(t, v, "shared")
	}
}

func TestFetchCachesFailureForPeekButRetries(t *testing.T) {
	c := New(Options{})
	key := NewKey("stats", nil)

	wantErr := errors.New("upstream down")
	var calls atomic.Int64
	fail := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, wantErr
	}

	_, err := c.Fetch(context.Background(), key, fail)
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}

	snap, ok := c.Peek(key)
	if !ok || snap.State != StateFailed {
		t.Fatalf("got state %v, want failed", snap.State)
	}
	if !errors.Is(snap.Err, wantErr) {
		t.Fatalf("snapshot error %v, want %v", snap.Err, wantErr)
	}

	// An explicit Fetch on a failed entry attempts the network again.
	v, err := c.Fetch(context.Background(), key, staticFetch("recovered", &calls))
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "recovered")
	checkIntEqual(t, int(calls.Load()), 2)
}

func TestInvalidateServesStaleWhileRevalidating(t *testing.T) {
	c := New(Options{})
	key := NewKey("listens", map[string]string{"page": "1"})

	var calls atomic.Int64
	fn := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		return fmt.Sprintf("v%d", n), nil
	}

	v, err := c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	c.Invalidate(key)

	// The stale value is served immediately; the refetch runs behind it.
	v, err = c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StateResolved && !snap.Stale && snap.Value == "v2"
	})

	v, err = c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v2")
	checkIntEqual(t, int(calls.Load()), 2)
}

func TestInvalidatePrefixMarksAllOperationEntries(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int64

	page1 := NewKey("listens", map[string]string{"page": "1"})
	page2 := NewKey("listens", map[string]string{"page": "2"})
	other := NewKey("stats", nil)

	for _, key := range []Key{page1, page2, other} {
		_, err := c.Fetch(context.Background(), key, staticFetch("v", &calls))
		checkNoError(t, err)
	}

	c.InvalidatePrefix("listens")

	for _, tt := range []struct {
		key   Key
		stale bool
	}{
		{page1, true},
		{page2, true},
		{other, false},
	} {
		snap, ok := c.Peek(tt.key)
		if !ok {
			t.Fatalf("%s: missing entry", tt.key)
		}
		if snap.Stale != tt.stale {
			t.Fatalf("%s: stale=%v, want %v", tt.key, snap.Stale, tt.stale)
		}
	}
}

func TestInvalidateDiscardsInFlightResponse(t *testing.T) {
	c := New(Options{})
	key := NewKey("stats", nil)

	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		<-release
		return "before-invalidation", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(context.Background(), key, fn)
	}()

	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StatePending
	})
	c.Invalidate(key)
	close(release)
	<-done

	// The superseded landing must not populate the entry.
	snap, _ := c.Peek(key)
	if snap.State == StateResolved {
		t.Fatalf("superseded response was applied: %v", snap.Value)
	}
}

func TestInvalidateDuringRevalidationAllowsRefetch(t *testing.T) {
	c := New(Options{})
	key := NewKey("listens", map[string]string{"page": "1"})

	var calls atomic.Int64
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		if n == 2 {
			<-release
		}
		return fmt.Sprintf("v%d", n), nil
	}

	v, err := c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	// Start a background revalidation and invalidate the key again
	// while it is still in flight.
	c.Invalidate(key)
	v, err = c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")
	c.Invalidate(key)
	close(release)

	// The superseded landing must release the flight slot so the key
	// can refetch again.
	waitFor(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.entries[key.canonical()].flight == nil
	})
	snap, _ := c.Peek(key)
	if !snap.Stale || snap.Value != "v1" {
		t.Fatalf("discarded landing must leave the stale value: %+v", snap)
	}

	v, err = c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StateResolved && !snap.Stale && snap.Value == "v3"
	})
	checkIntEqual(t, int(calls.Load()), 3)
}

func TestUpdatePatchesResolvedValue(t *testing.T) {
	c := New(Options{})
	key := NewKey("apikeys", nil)
	var calls atomic.Int64

	_, err := c.Fetch(context.Background(), key, staticFetch([]string{"a", "b"}, &calls))
	checkNoError(t, err)

	c.Update(key, func(value any) any {
		return append(value.([]string), "c")
	})

	snap, _ := c.Peek(key)
	checkIntEqual(t, len(snap.Value.([]string)), 3)

	// Update on a missing key is a no-op.
	c.Update(NewKey("absent", nil), func(value any) any {
		t.Fatal("must not run")
		return value
	})
}

func TestUpdateOpPatchesEveryResolvedEntry(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int64

	for _, page := range []string{"1", "2"} {
		key := NewKey("search", map[string]string{"page": page})
		_, err := c.Fetch(context.Background(), key, staticFetch(10, &calls))
		checkNoError(t, err)
	}

	c.UpdateOp("search", func(_ Key, value any) any {
		return value.(int) + 1
	})

	for _, page := range []string{"1", "2"} {
		snap, _ := c.Peek(NewKey("search", map[string]string{"page": page}))
		checkIntEqual(t, snap.Value.(int), 11)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(Options{Capacity: 2})
	var calls atomic.Int64

	first := NewKey("stats", map[string]string{"n": "1"})
	second := NewKey("stats", map[string]string{"n": "2"})
	third := NewKey("stats", map[string]string{"n": "3"})

	for _, key := range []Key{first, second} {
		_, err := c.Fetch(context.Background(), key, staticFetch("v", &calls))
		checkNoError(t, err)
	}

	// Touch first so second becomes the LRU victim.
	_, err := c.Fetch(context.Background(), first, staticFetch("v", &calls))
	checkNoError(t, err)

	_, err = c.Fetch(context.Background(), third, staticFetch("v", &calls))
	checkNoError(t, err)

	checkIntEqual(t, c.Len(), 2)
	if _, ok := c.Peek(second); ok {
		t.Fatal("expected LRU entry to be evicted")
	}
	if _, ok := c.Peek(first); !ok {
		t.Fatal("recently used entry must survive")
	}
}

func TestExpiredEntryRevalidatesInBackground(t *testing.T) {
	c := New(Options{TTL: 5 * time.Millisecond})
	key := NewKey("now-playing", nil)

	var calls atomic.Int64
	fn := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		return fmt.Sprintf("v%d", n), nil
	}

	v, err := c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	time.Sleep(10 * time.Millisecond)

	// Past the TTL the held value is still served, not dropped.
	v, err = c.Fetch(context.Background(), key, fn)
	checkNoError(t, err)
	checkStringEqual(t, v.(string), "v1")

	waitFor(t, func() bool {
		return calls.Load() == 2
	})
}

func TestFetchCancellationReleasesOnlyCaller(t *testing.T) {
	c := New(Options{})
	key := NewKey("search", map[string]string{"q": "slow"})

	release := make(chan struct{})
	var calls atomic.Int64
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "landed", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, key, fn)
		errs <- err
	}()

	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StatePending
	})
	cancel()

	if err := <-errs; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	// The shared flight still lands and populates the cache.
	close(release)
	waitFor(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.State == StateResolved
	})
	checkIntEqual(t, int(calls.Load()), 1)
}

func TestFetchAsTypeMismatch(t *testing.T) {
	c := New(Options{})
	key := NewKey("stats", nil)

	var calls atomic.Int64
	_, err := c.Fetch(context.Background(), key, staticFetch("a string", &calls))
	checkNoError(t, err)

	_, err = FetchAs(context.Background(), c, key, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestFetchAsReturnsTypedValue(t *testing.T) {
	c := New(Options{})
	key := NewKey("stats", nil)

	got, err := FetchAs(context.Background(), c, key, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	checkNoError(t, err)
	checkIntEqual(t, got, 42)
}
