// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/melograph/melograph/internal/api"
	"github.com/melograph/melograph/internal/models"
	"github.com/melograph/melograph/internal/query"
)

// confirm asks before a destructive command proceeds. Only an explicit
// "y" or "yes" counts as consent; anything else, including EOF on a
// closed stdin, declines. skip bypasses the prompt for --yes runs.
func (a *app) confirm(skip bool, prompt string) bool {
	if skip {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// checkResponse drains a raw mutation response into an error, nil for
// success.
func checkResponse(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if apiErr := api.ErrorFromResponse(resp); apiErr != nil {
		return apiErr
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", a.cfg.Server.Username, "account username")
	password := fs.String("password", a.cfg.Server.Password, "account password")
	remember := fs.Bool("remember", a.cfg.Server.Remember, "request a long-lived session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("usage: melograph login --username <name> --password <password>")
	}

	if err := checkResponse(a.client.Login(ctx, *username, *password, *remember)); err != nil {
		return err
	}
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	a.sess.SetAuthenticated(user)
	fmt.Printf("signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context, args []string) error {
	if err := checkResponse(a.client.Logout(ctx)); err != nil {
		return err
	}
	a.sess.SetAnonymous()
	a.cache.Clear()
	fmt.Println("signed out")
	return nil
}

func (a *app) cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	at := fs.Int64("at", 0, "listen time as unix seconds (default: now)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: melograph submit <track-id> [--at unix]")
	}
	trackID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("bad track id %q", fs.Arg(0))
	}
	ts := time.Now()
	if *at != 0 {
		ts = time.Unix(*at, 0)
	}

	if err := a.bootstrap(ctx); err != nil {
		return err
	}
	if err := checkResponse(a.client.SubmitListen(ctx, trackID, ts)); err != nil {
		return err
	}

	// History and aggregates changed; refetch on next read.
	a.cache.InvalidatePrefix("listens")
	a.cache.InvalidatePrefix("stats")
	a.cache.InvalidatePrefix("listen-activity")

	fmt.Printf("recorded listen of track %d at %d\n", trackID, ts.Unix())
	return nil
}

func (a *app) cmdDeleteListen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-listen", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: melograph delete-listen <track-id> <unix> [--yes]")
	}
	trackID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("bad track id %q", fs.Arg(0))
	}
	unix, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %q", fs.Arg(1))
	}

	if !a.confirm(*yes, fmt.Sprintf("delete listen of track %d at %d?", trackID, unix)) {
		fmt.Println("aborted")
		return nil
	}
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}
	listen := models.Listen{Time: time.Unix(unix, 0), Track: models.Track{ID: trackID}}
	if err := checkResponse(a.client.DeleteListen(ctx, listen)); err != nil {
		return err
	}

	// Drop the listen from held pages immediately, then refetch lazily.
	a.cache.UpdateOp("listens", func(_ query.Key, value any) any {
		if page, ok := value.(models.PaginatedResponse[models.Listen]); ok {
			return query.RemoveListen(page, unix)
		}
		return value
	})
	a.cache.InvalidatePrefix("listens")
	a.cache.InvalidatePrefix("stats")

	fmt.Printf("deleted listen of track %d at %d\n", trackID, unix)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: melograph delete <track|album|artist> <id> [--yes]")
	}
	kind, err := api.ParseItemKind(fs.Arg(0))
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", fs.Arg(1))
	}

	if !a.confirm(*yes, fmt.Sprintf("permanently delete %s %d?", kind, id)) {
		fmt.Println("aborted")
		return nil
	}
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}
	if err := checkResponse(a.client.DeleteItem(ctx, kind, id)); err != nil {
		return err
	}

	a.cache.UpdateOp("search", func(_ query.Key, value any) any {
		res, ok := value.(models.SearchResponse)
		if !ok {
			return value
		}
		switch kind {
		case api.KindTrack:
			return query.DropTrack(res, id)
		case api.KindAlbum:
			return query.DropAlbum(res, id)
		case api.KindArtist:
			return query.DropArtist(res, id)
		}
		return res
	})
	a.cache.InvalidatePrefix("search")
	a.cache.InvalidatePrefix("top-" + string(kind) + "s")
	a.cache.InvalidatePrefix("stats")

	fmt.Printf("deleted %s %d\n", kind, id)
	return nil
}

func (a *app) cmdMerge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	replaceImage := fs.Bool("replace-image", false, "adopt the source entity's image")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("usage: melograph merge <tracks|albums|artists> <from-id> <to-id> [--replace-image] [--yes]")
	}
	what := fs.Arg(0)
	fromID, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("bad from id %q", fs.Arg(1))
	}
	toID, err := strconv.ParseInt(fs.Arg(2), 10, 64)
	if err != nil {
		return fmt.Errorf("bad to id %q", fs.Arg(2))
	}

	if !a.confirm(*yes, fmt.Sprintf("merge %s %d into %d? the source entity is removed", what, fromID, toID)) {
		fmt.Println("aborted")
		return nil
	}
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	switch what {
	case "tracks":
		err = checkResponse(a.client.MergeTracks(ctx, fromID, toID))
	case "albums":
		err = checkResponse(a.client.MergeAlbums(ctx, fromID, toID, *replaceImage))
	case "artists":
		err = checkResponse(a.client.MergeArtists(ctx, fromID, toID, *replaceImage))
	default:
		return fmt.Errorf("unknown merge target %q (want tracks, albums or artists)", what)
	}
	if err != nil {
		return err
	}

	// The absorbed entity is gone everywhere it could appear.
	a.cache.UpdateOp("search", func(_ query.Key, value any) any {
		res, ok := value.(models.SearchResponse)
		if !ok {
			return value
		}
		switch what {
		case "tracks":
			return query.DropTrack(res, fromID)
		case "albums":
			return query.DropAlbum(res, fromID)
		case "artists":
			return query.DropArtist(res, fromID)
		}
		return res
	})
	a.cache.InvalidatePrefix("search")
	a.cache.InvalidatePrefix("top-" + what)
	a.cache.InvalidatePrefix("listens")

	fmt.Printf("merged %s %d into %d\n", what, fromID, toID)
	return nil
}

func (a *app) cmdAliases(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("aliases", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: melograph aliases <artist|album> <id> [add|delete|primary <alias>]")
	}
	kind, err := api.ParseItemKind(fs.Arg(0))
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", fs.Arg(1))
	}

	aliasKey := query.NewKey("aliases", map[string]string{
		"kind": string(kind),
		"id":   strconv.FormatInt(id, 10),
	})

	if fs.NArg() == 2 {
		aliases, err := query.FetchAs(ctx, a.cache, aliasKey,
			func(ctx context.Context) ([]models.Alias, error) {
				return a.client.Aliases(ctx, kind, id)
			})
		if err != nil {
			return err
		}
		renderAliases(aliases)
		return nil
	}

	if fs.NArg() < 4 {
		return fmt.Errorf("usage: melograph aliases %s %d <add|delete|primary> <alias>", kind, id)
	}
	action, alias := fs.Arg(2), fs.Arg(3)

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	switch action {
	case "add":
		if err := checkResponse(a.client.CreateAlias(ctx, kind, id, alias)); err != nil {
			return err
		}
		a.cache.Update(aliasKey, func(value any) any {
			if aliases, ok := value.([]models.Alias); ok {
				return query.AddAlias(aliases, alias, "Manual")
			}
			return value
		})
	case "delete":
		if err := checkResponse(a.client.DeleteAlias(ctx, kind, id, alias)); err != nil {
			return err
		}
		a.cache.Update(aliasKey, func(value any) any {
			if aliases, ok := value.([]models.Alias); ok {
				return query.RemoveAlias(aliases, alias)
			}
			return value
		})
	case "primary":
		if err := checkResponse(a.client.SetPrimaryAlias(ctx, kind, id, alias)); err != nil {
			return err
		}
		a.cache.Update(aliasKey, func(value any) any {
			if aliases, ok := value.([]models.Alias); ok {
				return query.SetPrimaryAlias(aliases, alias)
			}
			return value
		})
	default:
		return fmt.Errorf("unknown alias action %q (want add, delete or primary)", action)
	}

	a.cache.Invalidate(aliasKey)
	fmt.Printf("alias %q: %s applied\n", alias, action)
	return nil
}

func (a *app) cmdAPIKeys(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apikeys", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	keysKey := query.NewKey("apikeys", nil)

	if fs.NArg() == 0 {
		if err := a.bootstrap(ctx); err != nil {
			return err
		}
		keys, err := query.FetchAs(ctx, a.cache, keysKey,
			func(ctx context.Context) ([]models.APIKey, error) {
				return a.client.APIKeys(ctx)
			})
		if err != nil {
			return err
		}
		renderAPIKeys(keys)
		return nil
	}

	if err := a.bootstrap(ctx); err != nil {
		return err
	}

	switch action := fs.Arg(0); action {
	case "create":
		if fs.NArg() < 2 {
			return fmt.Errorf("usage: melograph apikeys create <label>")
		}
		key, err := a.client.CreateAPIKey(ctx, fs.Arg(1))
		if err != nil {
			return err
		}
		a.cache.Update(keysKey, func(value any) any {
			if keys, ok := value.([]models.APIKey); ok {
				return query.AddAPIKey(keys, key)
			}
			return value
		})
		fmt.Printf("created key %d (%s): %s\n", key.ID, key.Label, key.Key)
	case "rename":
		if fs.NArg() < 3 {
			return fmt.Errorf("usage: melograph apikeys rename <id> <label>")
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			return fmt.Errorf("bad key id %q", fs.Arg(1))
		}
		label := fs.Arg(2)
		if err := checkResponse(a.client.UpdateAPIKeyLabel(ctx, id, label)); err != nil {
			return err
		}
		a.cache.Update(keysKey, func(value any) any {
			if keys, ok := value.([]models.APIKey); ok {
				return query.RenameAPIKey(keys, id, label)
			}
			return value
		})
		fmt.Printf("renamed key %d to %q\n", id, label)
	case "delete":
		if fs.NArg() < 2 {
			return fmt.Errorf("usage: melograph apikeys delete <id>")
		}
		id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil {
			return fmt.Errorf("bad key id %q", fs.Arg(1))
		}
		if err := checkResponse(a.client.DeleteAPIKey(ctx, id)); err != nil {
			return err
		}
		a.cache.Update(keysKey, func(value any) any {
			if keys, ok := value.([]models.APIKey); ok {
				return query.RemoveAPIKey(keys, id)
			}
			return value
		})
		fmt.Printf("deleted key %d\n", id)
	default:
		return fmt.Errorf("unknown apikeys action %q (want create, rename or delete)", action)
	}

	a.cache.Invalidate(keysKey)
	return nil
}

func (a *app) cmdReplaceImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replace-image", flag.ContinueOnError)
	fromURL := fs.String("url", "", "image URL for the server to download")
	fromFile := fs.String("file", "", "local image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || (*fromURL == "") == (*fromFile == "") {
		return fmt.Errorf("usage: melograph replace-image <album|artist> <id> (--url <url> | --file <path>)")
	}
	kind, err := api.ParseItemKind(fs.Arg(0))
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", fs.Arg(1))
	}

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	if *fromURL != "" {
		if err := checkResponse(a.client.ReplaceImageFromURL(ctx, kind, id, *fromURL)); err != nil {
			return err
		}
	} else {
		f, err := os.Open(*fromFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := checkResponse(a.client.ReplaceImageFromFile(ctx, kind, id, f.Name(), f)); err != nil {
			return err
		}
	}

	a.cache.InvalidatePrefix("search")
	fmt.Printf("replaced image of %s %d\n", kind, id)
	return nil
}
