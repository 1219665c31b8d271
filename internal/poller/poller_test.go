// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/melograph/melograph/internal/models"
)

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

func playing(id int64, title string) models.NowPlaying {
	return models.NowPlaying{
		CurrentlyPlaying: true,
		Track:            models.Track{ID: id, Title: title},
	}
}

func TestPollerFiresCallbackOnTrackChange(t *testing.T) {
	var step atomic.Int64
	fetch := func(ctx context.Context) (models.NowPlaying, error) {
		switch step.Load() {
		case 0:
			return playing(1, "Idioteque"), nil
		default:
			return playing(2, "Kid A"), nil
		}
	}

	p := New(fetch, Config{Interval: time.Hour, MinGap: time.Nanosecond})

	var mu sync.Mutex
	var changes []int64
	p.SetOnChange(func(now models.NowPlaying) {
		mu.Lock()
		changes = append(changes, now.Track.ID)
		mu.Unlock()
	})

	ctx := context.Background()
	p.Poll(ctx) // first poll always reports
	p.Poll(ctx) // same track, no callback
	step.Store(1)
	p.Poll(ctx) // track changed

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 || changes[0] != 1 || changes[1] != 2 {
		t.Fatalf("got changes %v, want [1 2]", changes)
	}
}

func TestPollerReportsPlaybackStop(t *testing.T) {
	var stopped atomic.Bool
	fetch := func(ctx context.Context) (models.NowPlaying, error) {
		if stopped.Load() {
			return models.NowPlaying{}, nil
		}
		return playing(1, "Idioteque"), nil
	}

	p := New(fetch, Config{Interval: time.Hour, MinGap: time.Nanosecond})

	var calls atomic.Int64
	p.SetOnChange(func(models.NowPlaying) { calls.Add(1) })

	ctx := context.Background()
	p.Poll(ctx)
	stopped.Store(true)
	p.Poll(ctx)
	p.Poll(ctx) // still idle, no further callback

	if calls.Load() != 2 {
		t.Fatalf("got %d callbacks, want 2", calls.Load())
	}

	now, seen := p.Current()
	if !seen || now.CurrentlyPlaying {
		t.Fatal("expected idle state after playback stopped")
	}
}

func TestPollerBreakerFailsFast(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (models.NowPlaying, error) {
		calls.Add(1)
		return models.NowPlaying{}, errors.New("connection refused")
	}

	p := New(fetch, Config{Interval: time.Hour, MinGap: time.Nanosecond})

	ctx := context.Background()
	for range 10 {
		p.Poll(ctx)
	}

	// The breaker opens after three consecutive failures; the
	// remaining polls are rejected without touching the fetcher.
	if got := calls.Load(); got != 3 {
		t.Fatalf("got %d fetch calls, want 3", got)
	}
	if _, seen := p.Current(); seen {
		t.Fatal("failed polls must not record a state")
	}
}

func TestPollerRateLimiterSkipsBurst(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (models.NowPlaying, error) {
		calls.Add(1)
		return playing(1, "Idioteque"), nil
	}

	p := New(fetch, Config{Interval: time.Hour, MinGap: time.Hour})

	ctx := context.Background()
	for range 5 {
		p.Poll(ctx)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("got %d fetch calls, want 1", got)
	}
}

func TestPollerLoopStops(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (models.NowPlaying, error) {
		calls.Add(1)
		return playing(1, "Idioteque"), nil
	}

	p := New(fetch, Config{Interval: 5 * time.Millisecond, MinGap: time.Nanosecond})
	p.Start(context.Background())
	p.Start(context.Background()) // idempotent

	waitFor(t, func() bool { return calls.Load() >= 2 })
	p.Stop()
	p.Stop() // idempotent

	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != settled {
		t.Fatal("poll loop kept running after Stop")
	}
}
