// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/melograph/melograph/internal/api"
	"github.com/melograph/melograph/internal/logging"
	"github.com/melograph/melograph/internal/models"
	"github.com/melograph/melograph/internal/poller"
	"github.com/melograph/melograph/internal/query"
)

// periodFlag registers --period with the last value used for this
// command as the default, falling back to all_time.
func (a *app) periodFlag(fs *flag.FlagSet, scope string) *string {
	def := string(api.PeriodAllTime)
	if v, ok := a.prefs.Get(scope, "period"); ok {
		def = v
	}
	return fs.String("period", def, "day, week, month, year or all_time")
}

// rememberPref persists a UI preference; failures are logged, never
// surfaced, a broken pref file must not block the command.
func (a *app) rememberPref(scope, key, value string) {
	if err := a.prefs.Set(scope, key, value); err != nil {
		logging.Debug().Err(err).Str("scope", scope).Str("key", key).Msg("could not persist preference")
	}
}

func itemsOptsKey(op string, opts api.ItemsOpts) query.Key {
	return query.NewKey(op, map[string]string{
		"period": string(opts.Period),
		"limit":  strconv.Itoa(opts.Limit),
		"page":   strconv.Itoa(opts.Page),
		"artist": strconv.FormatInt(opts.ArtistID, 10),
		"album":  strconv.FormatInt(opts.AlbumID, 10),
		"track":  strconv.FormatInt(opts.TrackID, 10),
	})
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	period := a.periodFlag(fs, "stats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := api.ParsePeriod(*period)
	if err != nil {
		return err
	}
	a.rememberPref("stats", "period", string(p))

	stats, err := query.FetchAs(ctx, a.cache, query.NewKey("stats", map[string]string{"period": string(p)}),
		func(ctx context.Context) (models.Stats, error) {
			return a.client.Stats(ctx, p)
		})
	if err != nil {
		return err
	}
	renderStats(stats, p)
	return nil
}

func (a *app) cmdListens(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("listens", flag.ContinueOnError)
	period := a.periodFlag(fs, "listens")
	limit := fs.Int("limit", 20, "items per page")
	page := fs.Int("page", 1, "page number")
	artist := fs.Int64("artist", 0, "filter by artist id")
	album := fs.Int64("album", 0, "filter by album id")
	track := fs.Int64("track", 0, "filter by track id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := api.ParsePeriod(*period)
	if err != nil {
		return err
	}
	a.rememberPref("listens", "period", string(p))

	opts := api.ItemsOpts{
		Period: p, Limit: *limit, Page: *page,
		ArtistID: *artist, AlbumID: *album, TrackID: *track,
	}
	pageRes, err := query.FetchAs(ctx, a.cache, itemsOptsKey("listens", opts),
		func(ctx context.Context) (models.PaginatedResponse[models.Listen], error) {
			return a.client.Listens(ctx, opts)
		})
	if err != nil {
		return err
	}
	renderListens(pageRes)
	return nil
}

func (a *app) cmdTop(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: melograph top <tracks|albums|artists> [flags]")
	}
	what, rest := args[0], args[1:]

	fs := flag.NewFlagSet("top "+what, flag.ContinueOnError)
	period := a.periodFlag(fs, "top-"+what)
	limit := fs.Int("limit", 10, "items per page")
	page := fs.Int("page", 1, "page number")
	artist := fs.Int64("artist", 0, "filter by artist id")
	album := fs.Int64("album", 0, "filter by album id (tracks only)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	p, err := api.ParsePeriod(*period)
	if err != nil {
		return err
	}
	a.rememberPref("top-"+what, "period", string(p))

	opts := api.ItemsOpts{Period: p, Limit: *limit, Page: *page, ArtistID: *artist, AlbumID: *album}

	switch what {
	case "tracks":
		res, err := query.FetchAs(ctx, a.cache, itemsOptsKey("top-tracks", opts),
			func(ctx context.Context) (models.PaginatedResponse[models.Track], error) {
				return a.client.TopTracks(ctx, opts)
			})
		if err != nil {
			return err
		}
		renderTopTracks(res)
	case "albums":
		res, err := query.FetchAs(ctx, a.cache, itemsOptsKey("top-albums", opts),
			func(ctx context.Context) (models.PaginatedResponse[models.Album], error) {
				return a.client.TopAlbums(ctx, opts)
			})
		if err != nil {
			return err
		}
		renderTopAlbums(res)
	case "artists":
		res, err := query.FetchAs(ctx, a.cache, itemsOptsKey("top-artists", opts),
			func(ctx context.Context) (models.PaginatedResponse[models.Artist], error) {
				return a.client.TopArtists(ctx, opts)
			})
		if err != nil {
			return err
		}
		renderTopArtists(res)
	default:
		return fmt.Errorf("unknown chart %q (want tracks, albums or artists)", what)
	}
	return nil
}

func (a *app) cmdActivity(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	stepDef := "day"
	if v, ok := a.prefs.Get("activity", "step"); ok {
		stepDef = v
	}
	rangeDef := 12
	if v, ok := a.prefs.Get("activity", "range"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			rangeDef = n
		}
	}
	step := fs.String("step", stepDef, "bucket size: day, week, month or year")
	rng := fs.Int("range", rangeDef, "number of buckets back from now")
	month := fs.Int("month", 0, "calendar month (1-12) instead of a rolling range")
	year := fs.Int("year", 0, "calendar year instead of a rolling range")
	artist := fs.Int64("artist", 0, "filter by artist id")
	album := fs.Int64("album", 0, "filter by album id")
	track := fs.Int64("track", 0, "filter by track id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := api.ParseStep(*step)
	if err != nil {
		return err
	}
	a.rememberPref("activity", "step", string(st))
	a.rememberPref("activity", "range", strconv.Itoa(*rng))

	opts := api.ActivityOpts{
		Step: st, Range: *rng, Month: *month, Year: *year,
		ArtistID: *artist, AlbumID: *album, TrackID: *track,
	}
	key := query.NewKey("listen-activity", map[string]string{
		"step":   string(opts.Step),
		"range":  strconv.Itoa(opts.Range),
		"month":  strconv.Itoa(opts.Month),
		"year":   strconv.Itoa(opts.Year),
		"artist": strconv.FormatInt(opts.ArtistID, 10),
		"album":  strconv.FormatInt(opts.AlbumID, 10),
		"track":  strconv.FormatInt(opts.TrackID, 10),
	})
	points, err := query.FetchAs(ctx, a.cache, key,
		func(ctx context.Context) ([]models.ActivityPoint, error) {
			return a.client.Activity(ctx, opts)
		})
	if err != nil {
		return err
	}
	renderActivity(points, st)
	return nil
}

func (a *app) cmdGenres(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("genres", flag.ContinueOnError)
	period := a.periodFlag(fs, "genres")
	metric := fs.String("metric", "count", "weight by listen count or time")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := api.ParsePeriod(*period)
	if err != nil {
		return err
	}
	m, err := api.ParseGenreMetric(*metric)
	if err != nil {
		return err
	}
	a.rememberPref("genres", "period", string(p))

	key := query.NewKey("genre-stats", map[string]string{"period": string(p), "metric": string(m)})
	res, err := query.FetchAs(ctx, a.cache, key,
		func(ctx context.Context) (models.GenreStatsResponse, error) {
			return a.client.GenreStats(ctx, p, m)
		})
	if err != nil {
		return err
	}
	renderGenres(res.Stats, m)
	return nil
}

func (a *app) cmdWrapped(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("wrapped", flag.ContinueOnError)
	year := fs.Int("year", time.Now().Year(), "summary year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := query.NewKey("wrapped", map[string]string{"year": strconv.Itoa(*year)})
	wrapped, err := query.FetchAs(ctx, a.cache, key,
		func(ctx context.Context) (models.WrappedStats, error) {
			return a.client.Wrapped(ctx, *year)
		})
	if err != nil {
		return err
	}
	renderWrapped(wrapped)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: melograph search <query>")
	}
	q := fs.Arg(0)

	res, err := query.FetchAs(ctx, a.cache, query.NewKey("search", map[string]string{"q": q}),
		func(ctx context.Context) (models.SearchResponse, error) {
			return a.client.Search(ctx, q)
		})
	if err != nil {
		return err
	}
	renderSearch(res)
	return nil
}

func (a *app) cmdRecommendations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recommendations", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := query.FetchAs(ctx, a.cache, query.NewKey("recommendations", nil),
		func(ctx context.Context) (models.RecommendationsResponse, error) {
			return a.client.Recommendations(ctx)
		})
	if err != nil {
		return err
	}
	renderRecommendations(res.Tracks)
	return nil
}

func (a *app) cmdNow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("now", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep polling and print track changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*watch {
		now, err := a.client.NowPlaying(ctx)
		if err != nil {
			return err
		}
		renderNowPlaying(now)
		return nil
	}

	p := poller.New(a.client.NowPlaying, poller.Config{
		Interval: a.cfg.Poller.Interval,
		MinGap:   a.cfg.Poller.MinGap,
	})
	p.SetOnChange(renderNowPlaying)
	p.Start(ctx)
	defer p.Stop()

	<-ctx.Done()
	return nil
}
