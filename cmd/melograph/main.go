// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package main is the Melograph command line client.
//
// Melograph talks to a scrobble server's web API and renders listening
// statistics in the terminal: top charts, listen history, activity
// grids, genre breakdowns, yearly wrapped summaries, and the currently
// playing track. Admin commands cover catalogue maintenance (merges,
// aliases, image replacement, deletions) and API key management.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the MELOGRAPH_ prefix
//   - Config file (melograph.yaml, or MELOGRAPH_CONFIG)
//   - Built-in defaults
//
// The only required setting is the server URL:
//
//	export MELOGRAPH_SERVER_URL=https://listens.example.net
//	melograph stats --period week
//
// Mutating commands need a signed-in session; supply credentials via
// MELOGRAPH_SERVER_USERNAME / MELOGRAPH_SERVER_PASSWORD or the config
// file and they are used automatically.
//
// # Metrics
//
// With metrics.enabled, a local listener exposes Prometheus metrics
// for request latency, cache behavior, and the now-playing circuit
// breaker.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/melograph/melograph/internal/api"
	"github.com/melograph/melograph/internal/config"
	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/prefs"
	"github.com/melograph/melograph/internal/query"
	"github.com/melograph/melograph/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Enabled {
		stop := startMetricsListener(cfg.Metrics.Listen)
		defer stop()
	}

	a, err := newApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize client")
	}

	if err := a.run(ctx, command, args); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "melograph: server error: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "melograph: %v\n", err)
		}
		os.Exit(1)
	}
}

// app wires the client stack together for one invocation.
type app struct {
	cfg    *config.Config
	client *api.Client
	cache  *query.Cache
	sess   *session.Session
	prefs  prefs.Store
	stdin  io.Reader
}

func newApp(cfg *config.Config) (*app, error) {
	client, err := api.New(cfg.Server.URL)
	if err != nil {
		return nil, err
	}

	var store prefs.Store
	if cfg.Prefs.Path != "" {
		store, err = prefs.NewFile(cfg.Prefs.Path)
		if err != nil {
			return nil, err
		}
	} else {
		store = prefs.NewMemory()
	}

	return &app{
		cfg: cfg,
		client: client,
		cache: query.New(query.Options{
			Capacity: cfg.Cache.Capacity,
			TTL:      cfg.Cache.TTL,
		}),
		sess:  session.New(),
		prefs: store,
		stdin: os.Stdin,
	}, nil
}

// bootstrap loads the server config and signs in when credentials are
// configured. Commands that only read public stats skip it.
func (a *app) bootstrap(ctx context.Context) error {
	serverCfg, err := a.client.ServerConfig(ctx)
	if err != nil {
		return fmt.Errorf("reach server: %w", err)
	}
	a.sess.SetDefaultTheme(serverCfg.DefaultTheme)

	if a.cfg.Server.Username != "" {
		resp, err := a.client.Login(ctx, a.cfg.Server.Username, a.cfg.Server.Password, a.cfg.Server.Remember)
		if err != nil {
			return fmt.Errorf("login as %s: %w", a.cfg.Server.Username, err)
		}
		resp.Body.Close()
		if apiErr := api.ErrorFromResponse(resp); apiErr != nil {
			return fmt.Errorf("login as %s: %w", a.cfg.Server.Username, apiErr)
		}
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			a.sess.SetAnonymous()
			return nil
		}
		return err
	}
	a.sess.SetAuthenticated(user)
	logging.Debug().Str("username", user.Username).Msg("signed in")
	return nil
}

// requireAdmin runs bootstrap and refuses to continue without an
// admin session.
func (a *app) requireAdmin(ctx context.Context) error {
	if err := a.bootstrap(ctx); err != nil {
		return err
	}
	if !a.sess.IsAdmin() {
		return fmt.Errorf("this command needs an admin account; configure server.username and server.password")
	}
	return nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "stats":
		return a.cmdStats(ctx, args)
	case "listens":
		return a.cmdListens(ctx, args)
	case "top":
		return a.cmdTop(ctx, args)
	case "activity":
		return a.cmdActivity(ctx, args)
	case "genres":
		return a.cmdGenres(ctx, args)
	case "wrapped":
		return a.cmdWrapped(ctx, args)
	case "search":
		return a.cmdSearch(ctx, args)
	case "recommendations":
		return a.cmdRecommendations(ctx, args)
	case "now":
		return a.cmdNow(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx, args)
	case "submit":
		return a.cmdSubmit(ctx, args)
	case "delete-listen":
		return a.cmdDeleteListen(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "merge":
		return a.cmdMerge(ctx, args)
	case "aliases":
		return a.cmdAliases(ctx, args)
	case "apikeys":
		return a.cmdAPIKeys(ctx, args)
	case "replace-image":
		return a.cmdReplaceImage(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: melograph <command> [flags]

Listening:
  stats            listen/track/album/artist counts for a period
  listens          paginated listen history
  top              top tracks, albums or artists
  activity         daily/weekly/monthly listen grid
  genres           genre breakdown by listens or time
  wrapped          yearly summary
  search           search tracks, albums and artists
  recommendations  track suggestions
  now              currently playing track (--watch to poll)

Account:
  login            sign in and verify credentials
  logout           end the server session
  apikeys          list/create/rename/delete submission API keys

Catalogue (admin):
  submit           record a listen for a track id
  delete-listen    remove a listen by track id and timestamp
  delete           delete a track, album or artist
  merge            merge two tracks, albums or artists
  aliases          list/add/delete/set-primary entity aliases
  replace-image    replace an album or artist image

Run 'melograph <command> -h' for command flags.
`)
}
