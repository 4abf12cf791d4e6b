package main

import (
	"context"
	"fmt"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/urfave/cli/v3"
)

// Tracks lists the user's saved tracks, walking forward through pages
// with the Pager.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	pages := int(cmd.Int("pages"))
	all := cmd.Bool("all")

	pager := client.SavedTracksPager(limit)

	var saved []api.SavedTrack
	for all || pager.Position() < pages {
		page, err := pager.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch saved tracks: %w", err)
		}
		if page == nil {
			break
		}
		saved = append(saved, page.Items...)
	}

	if cmd.Bool("json") {
		return r.writeJSON(saved, cmd.Bool("pretty"))
	}

	if total, ok := pager.Total(); ok {
		r.writePlainln("Saved tracks (%d of %d):", len(saved), total)
	} else {
		r.writePlainln("Saved tracks (%d):", len(saved))
	}
	for _, s := range saved {
		r.writePlainln("  %s - %s", s.Track.Name, trackArtists(s.Track))
	}
	return nil
}

// Playlists lists the current user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	pager := client.PlaylistsPager(int(cmd.Int("limit")))

	var playlists []api.SimplePlaylist
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch playlists: %w", err)
		}
		if page == nil {
			break
		}
		playlists = append(playlists, page.Items...)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainln("Playlists (%d):", len(playlists))
	for _, p := range playlists {
		r.writePlainln("  %s (%d tracks) - %s", p.Name, p.Tracks.Total, p.Owner.DisplayName)
	}
	return nil
}

// Search searches the catalog for tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	result, err := client.SearchTracks(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Tracks.Items, cmd.Bool("pretty"))
	}

	r.writePlainln("Results for %q:", query)
	for _, t := range result.Tracks.Items {
		r.writePlainln("  %s - %s [%s]", t.Name, trackArtists(t), t.ID)
	}
	return nil
}

func trackArtists(t api.Track) string {
	if len(t.Artists) == 0 {
		return "unknown artist"
	}
	names := t.Artists[0].Name
	for _, a := range t.Artists[1:] {
		names += ", " + a.Name
	}
	return names
}
