// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/melograph/melograph/internal/api"
	"github.com/melograph/melograph/internal/models"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func artistNames(artists []models.ArtistRef) string {
	names := lo.Map(artists, func(a models.ArtistRef, _ int) string { return a.Name })
	return strings.Join(names, ", ")
}

func pageFooter(current int, hasNext bool, total int64) string {
	next := ""
	if hasNext {
		next = " (more pages available)"
	}
	return fmt.Sprintf("page %d of %d records%s", current, total, next)
}

func renderStats(s models.Stats, period api.Period) {
	w := newTable()
	fmt.Fprintf(w, "period\t%s\n", period)
	fmt.Fprintf(w, "listens\t%d\n", s.ListenCount)
	fmt.Fprintf(w, "tracks\t%d\n", s.TrackCount)
	fmt.Fprintf(w, "albums\t%d\n", s.AlbumCount)
	fmt.Fprintf(w, "artists\t%d\n", s.ArtistCount)
	fmt.Fprintf(w, "minutes\t%d\n", s.MinutesListened)
	w.Flush()
}

func renderListens(page models.PaginatedResponse[models.Listen]) {
	w := newTable()
	fmt.Fprintln(w, "TIME\tTRACK\tARTISTS")
	for _, l := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			l.Time.Local().Format("2006-01-02 15:04"),
			l.Track.Title,
			artistNames(l.Track.Artists))
	}
	w.Flush()
	fmt.Println(pageFooter(page.CurrentPage, page.HasNextPage, page.TotalRecordCount))
}

func renderTopTracks(page models.PaginatedResponse[models.Track]) {
	w := newTable()
	fmt.Fprintln(w, "#\tLISTENS\tTRACK\tARTISTS")
	base := (page.CurrentPage - 1) * page.ItemsPerPage
	for i, t := range page.Items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", base+i+1, t.ListenCount, t.Title, artistNames(t.Artists))
	}
	w.Flush()
	fmt.Println(pageFooter(page.CurrentPage, page.HasNextPage, page.TotalRecordCount))
}

func renderTopAlbums(page models.PaginatedResponse[models.Album]) {
	w := newTable()
	fmt.Fprintln(w, "#\tLISTENS\tALBUM\tARTISTS")
	base := (page.CurrentPage - 1) * page.ItemsPerPage
	for i, al := range page.Items {
		artists := artistNames(al.Artists)
		if al.IsVariousArtists {
			artists = "Various Artists"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", base+i+1, al.ListenCount, al.Title, artists)
	}
	w.Flush()
	fmt.Println(pageFooter(page.CurrentPage, page.HasNextPage, page.TotalRecordCount))
}

func renderTopArtists(page models.PaginatedResponse[models.Artist]) {
	w := newTable()
	fmt.Fprintln(w, "#\tLISTENS\tARTIST")
	base := (page.CurrentPage - 1) * page.ItemsPerPage
	for i, ar := range page.Items {
		fmt.Fprintf(w, "%d\t%d\t%s\n", base+i+1, ar.ListenCount, ar.Name)
	}
	w.Flush()
	fmt.Println(pageFooter(page.CurrentPage, page.HasNextPage, page.TotalRecordCount))
}

func renderActivity(points []models.ActivityPoint, step api.Step) {
	layout := "2006-01-02"
	if step == api.StepMonth || step == api.StepYear {
		layout = "2006-01"
	}
	peak := lo.MaxBy(points, func(a, b models.ActivityPoint) bool {
		return a.Listens > b.Listens
	})

	w := newTable()
	fmt.Fprintln(w, "BUCKET\tLISTENS\t")
	for _, p := range points {
		bar := ""
		if peak.Listens > 0 {
			bar = strings.Repeat("#", int(p.Listens*40/peak.Listens))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.StartTime.Format(layout), p.Listens, bar)
	}
	w.Flush()
}

func renderGenres(stats []models.GenreStat, metric api.GenreMetric) {
	unit := "listens"
	if metric == api.GenreMetricTime {
		unit = "seconds"
	}
	w := newTable()
	fmt.Fprintf(w, "GENRE\t%s\n", strings.ToUpper(unit))
	for _, g := range stats {
		fmt.Fprintf(w, "%s\t%.0f\n", g.Name, g.Value)
	}
	w.Flush()
}

func renderWrapped(wr models.WrappedStats) {
	fmt.Printf("%d in review\n\n", wr.Year)

	w := newTable()
	fmt.Fprintf(w, "listens\t%d\n", wr.TotalListens)
	fmt.Fprintf(w, "hours listened\t%d\n", wr.TotalSecondsListened/3600)
	fmt.Fprintf(w, "unique artists\t%d\n", wr.UniqueArtists)
	fmt.Fprintf(w, "unique tracks\t%d\n", wr.UniqueTracks)
	fmt.Fprintf(w, "unique albums\t%d\n", wr.UniqueAlbums)
	w.Flush()

	if len(wr.TopTracks) > 0 {
		fmt.Println("\ntop tracks:")
		for i, t := range wr.TopTracks {
			fmt.Printf("  %d. %s - %s (%d listens)\n", i+1, t.Title, artistNames(t.Artists), t.ListenCount)
		}
	}
	if len(wr.TopArtists) > 0 {
		fmt.Println("\ntop artists:")
		for i, ar := range wr.TopArtists {
			fmt.Printf("  %d. %s (%d listens)\n", i+1, ar.Name, ar.ListenCount)
		}
	}
	if len(wr.TopAlbums) > 0 {
		fmt.Println("\ntop albums:")
		for i, al := range wr.TopAlbums {
			fmt.Printf("  %d. %s (%d listens)\n", i+1, al.Title, al.ListenCount)
		}
	}
	if streak := wr.MostReplayedTrack; streak != nil {
		fmt.Printf("\nmost replayed: %s, %d times in a row\n", streak.Track.Title, streak.StreakCount)
	}
	if week := wr.BusiestWeek; week != nil {
		fmt.Printf("busiest week: %s with %d listens\n", week.WeekStart, week.ListenCount)
	}
}

func renderSearch(res models.SearchResponse) {
	w := newTable()
	for _, ar := range res.Artists {
		fmt.Fprintf(w, "artist\t%d\t%s\t\n", ar.ID, ar.Name)
	}
	for _, al := range res.Albums {
		fmt.Fprintf(w, "album\t%d\t%s\t%s\n", al.ID, al.Title, artistNames(al.Artists))
	}
	for _, t := range res.Tracks {
		fmt.Fprintf(w, "track\t%d\t%s\t%s\n", t.ID, t.Title, artistNames(t.Artists))
	}
	w.Flush()
	if len(res.Artists)+len(res.Albums)+len(res.Tracks) == 0 {
		fmt.Println("no results")
	}
}

func renderRecommendations(tracks []models.RecommendedTrack) {
	if len(tracks) == 0 {
		fmt.Println("no recommendations yet; keep listening")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "TRACK\tARTISTS\tLAST LISTENED")
	for _, t := range tracks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Title, artistNames(t.Artists), t.LastListenedAt.Local().Format("2006-01-02"))
	}
	w.Flush()
}

func renderNowPlaying(now models.NowPlaying) {
	if !now.CurrentlyPlaying {
		fmt.Printf("[%s] nothing playing\n", time.Now().Format("15:04:05"))
		return
	}
	fmt.Printf("[%s] %s - %s\n", time.Now().Format("15:04:05"), now.Track.Title, artistNames(now.Track.Artists))
}

func renderAliases(aliases []models.Alias) {
	w := newTable()
	fmt.Fprintln(w, "ALIAS\tSOURCE\tPRIMARY")
	for _, a := range aliases {
		primary := ""
		if a.IsPrimary {
			primary = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Alias, a.Source, primary)
	}
	w.Flush()
}

func renderAPIKeys(keys []models.APIKey) {
	if len(keys) == 0 {
		fmt.Println("no API keys")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tLABEL\tKEY\tCREATED")
	for _, k := range keys {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", k.ID, k.Label, k.Key, k.CreatedAt.Local().Format("2006-01-02"))
	}
	w.Flush()
}
