// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package poller watches the now-playing endpoint. The server exposes
// current playback as plain polled state, so the poller runs a ticker
// loop, rate limits the requests, guards them with a circuit breaker,
// and fires a callback only when the reported track changes.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/models"
)

// Fetcher fetches the current playback state, typically the
// now-playing endpoint binding.
type Fetcher func(ctx context.Context) (models.NowPlaying, error)

// Config configures a Poller.
type Config struct {
	// Interval between polls. Default: 10 seconds.
	Interval time.Duration

	// MinGap is the rate limiter floor between requests, protecting
	// the server when Interval is configured aggressively low.
	// Default: 1 second.
	MinGap time.Duration
}

// Poller polls for playback changes.
type Poller struct {
	fetch   Fetcher
	config  Config
	breaker *gobreaker.CircuitBreaker[models.NowPlaying]
	limiter *rate.Limiter

	mu       sync.RWMutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	last     models.NowPlaying
	seen     bool
	onChange func(models.NowPlaying)
}

// New creates a poller around fetch.
func New(fetch Fetcher, config Config) *Poller {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Second
	}
	if config.MinGap <= 0 {
		config.MinGap = time.Second
	}

	return &Poller{
		fetch:   fetch,
		config:  config,
		breaker: newBreaker(),
		limiter: rate.NewLimiter(rate.Every(config.MinGap), 1),
	}
}

// SetOnChange sets the callback fired when the playing track changes,
// including transitions between playing and idle.
func (p *Poller) SetOnChange(callback func(models.NowPlaying)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = callback
}

// Current returns the most recent playback state. The second return is
// false until the first successful poll.
func (p *Poller) Current() (models.NowPlaying, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.seen
}

// Start begins the polling loop. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	logging.Info().Dur("interval", p.config.Interval).Msg("[poller] starting now-playing poller")

	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop stops the polling loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	logging.Info().Msg("[poller] now-playing poller stopped")
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Poll performs one fetch immediately, outside the ticker cadence.
// Used for a refresh right after a listen is submitted.
func (p *Poller) Poll(ctx context.Context) {
	p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) {
	if !p.limiter.Allow() {
		return
	}

	now, err := p.breaker.Execute(func() (models.NowPlaying, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			// Fail fast while open; the breaker probes on its own
			// schedule, no log line per skipped tick.
			return
		}
		logging.Warn().Err(err).Msg("[poller] now-playing fetch failed")
		return
	}

	p.mu.Lock()
	changed := !p.seen || playbackChanged(p.last, now)
	p.last = now
	p.seen = true
	callback := p.onChange
	p.mu.Unlock()

	if changed && callback != nil {
		callback(now)
	}
}

// playbackChanged reports whether the playing state differs in a way
// the UI cares about: playing flag flips or a different track.
func playbackChanged(prev, cur models.NowPlaying) bool {
	if prev.CurrentlyPlaying != cur.CurrentlyPlaying {
		return true
	}
	if !cur.CurrentlyPlaying {
		return false
	}
	return prev.Track.ID != cur.Track.ID
}
