package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/Tired-Fox/rataify-sub001/internal/store"
	"github.com/urfave/cli/v3"
)

// Devices lists the user's available playback devices.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch devices: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, cmd.Bool("pretty"))
	}

	if len(devices) == 0 {
		return r.writePlainln("No devices found. Open Spotify on a device first.")
	}

	r.writePlainln("Devices:")
	for _, d := range devices {
		marker := " "
		if d.IsActive {
			marker = "*"
		}
		r.writePlainln("  %s %s (%s) vol %d%%", marker, d.Name, d.Type, d.VolumePercent)
	}
	return nil
}

// Now shows the current playback state and records it to the local
// listening history.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	playback, err := client.CurrentPlayback(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playback state: %w", err)
	}
	if playback == nil {
		return r.writePlainln("Nothing playing.")
	}

	if cmd.Bool("json") {
		return r.writeJSON(playback, cmd.Bool("pretty"))
	}

	state := "paused"
	if playback.IsPlaying {
		state = "playing"
	}
	r.writePlainln("%s - %s [%s on %s]", playback.Item.Name, trackArtists(playback.Item), state, playback.Device.Name)

	if playback.IsPlaying {
		if db, err := r.historyStore(); err == nil {
			play := store.Play{
				TrackID:  playback.Item.ID,
				Title:    playback.Item.Name,
				Artist:   trackArtists(playback.Item),
				Album:    playback.Item.Album.Name,
				PlayedAt: time.Now().UTC(),
			}
			if err := db.RecordPlay(play); err != nil {
				r.logger.Warnf("failed to record play: %v", err)
			}
		}
	}
	return nil
}

// Play resumes playback on the optionally specified device.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	return r.playerControl(ctx, cmd, "play", func(client *api.Client, device string) error {
		return client.Play(ctx, device)
	})
}

// Pause pauses playback on the optionally specified device.
func (r *Runner) Pause(ctx context.Context, cmd *cli.Command) error {
	return r.playerControl(ctx, cmd, "pause", func(client *api.Client, device string) error {
		return client.Pause(ctx, device)
	})
}

// NextTrack skips forward in the player queue.
func (r *Runner) NextTrack(ctx context.Context, cmd *cli.Command) error {
	return r.playerControl(ctx, cmd, "skip", func(client *api.Client, device string) error {
		return client.NextTrack(ctx, device)
	})
}

// PreviousTrack skips backward in the player queue.
func (r *Runner) PreviousTrack(ctx context.Context, cmd *cli.Command) error {
	return r.playerControl(ctx, cmd, "skip back", func(client *api.Client, device string) error {
		return client.PreviousTrack(ctx, device)
	})
}

func (r *Runner) playerControl(ctx context.Context, cmd *cli.Command, action string, fn func(*api.Client, string) error) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	if err := fn(client, cmd.String("device")); err != nil {
		if errors.Is(err, api.ErrNoActiveDevice) {
			r.writePlainln("No active device. Run `rataify player devices` and pass --device.")
			return nil
		}
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	return r.writePlainln("✓ %s", action)
}

// HistorySync pulls the remote recently-played feed into the local store.
func (r *Runner) HistorySync(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	db, err := r.historyStore()
	if err != nil {
		return err
	}

	pager := client.RecentlyPlayedPager(int(cmd.Int("limit")))
	page, err := pager.Next(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch listening history: %w", err)
	}

	count := 0
	if page != nil {
		for _, h := range page.Items {
			playedAt, err := time.Parse(time.RFC3339, h.PlayedAt)
			if err != nil {
				playedAt = time.Now().UTC()
			}
			play := store.Play{
				TrackID:  h.Track.ID,
				Title:    h.Track.Name,
				Artist:   trackArtists(h.Track),
				Album:    h.Track.Album.Name,
				PlayedAt: playedAt,
			}
			if err := db.RecordPlay(play); err != nil {
				r.logger.Warnf("failed to record play: %v", err)
				continue
			}
			count++
		}
	}

	r.logger.Infof("synced %d plays", count)
	return r.writePlainln("✓ Synced %d plays", count)
}

// HistoryList shows the local listening history, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.historyStore()
	if err != nil {
		return err
	}

	plays, err := db.RecentPlays(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(plays, cmd.Bool("pretty"))
	}

	if len(plays) == 0 {
		return r.writePlainln("No plays recorded. Run `rataify history sync` first.")
	}

	r.writePlainln("Listening history (%d):", len(plays))
	for _, p := range plays {
		r.writePlainln("  %s  %s - %s", p.PlayedAt.Local().Format("Jan 02 15:04"), p.Title, p.Artist)
	}
	return nil
}
