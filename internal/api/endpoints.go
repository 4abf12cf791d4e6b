package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Me retrieves the current authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SavedTracksPager returns a Pager over the user's saved tracks.
func (c *Client) SavedTracksPager(limit int) *Pager[Page[SavedTrack]] {
	limit = clampLimit(limit)
	start := fmt.Sprintf("/me/tracks?limit=%d&offset=0", limit)
	return NewPager(c, start, PageLinks[SavedTrack])
}

// SaveTracks adds tracks to the user's library (up to 50 IDs).
func (c *Client) SaveTracks(ctx context.Context, trackIDs ...string) error {
	endpoint, err := idsEndpoint("/me/tracks", trackIDs)
	if err != nil {
		return err
	}
	return c.Put(ctx, endpoint, nil, nil)
}

// RemoveSavedTracks removes tracks from the user's library (up to 50 IDs).
func (c *Client) RemoveSavedTracks(ctx context.Context, trackIDs ...string) error {
	endpoint, err := idsEndpoint("/me/tracks", trackIDs)
	if err != nil {
		return err
	}
	return c.Delete(ctx, endpoint, nil)
}

// PlaylistsPager returns a Pager over the current user's playlists.
func (c *Client) PlaylistsPager(limit int) *Pager[Page[SimplePlaylist]] {
	limit = clampLimit(limit)
	start := fmt.Sprintf("/me/playlists?limit=%d&offset=0", limit)
	return NewPager(c, start, PageLinks[SimplePlaylist])
}

// PlaylistTracksPager returns a Pager over the tracks of a playlist.
func (c *Client) PlaylistTracksPager(playlistID string, limit int) *Pager[Page[PlaylistTrack]] {
	limit = clampLimit(limit)
	start := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=0", url.PathEscape(playlistID), limit)
	return NewPager(c, start, PageLinks[PlaylistTrack])
}

// RecentlyPlayedPager returns a Pager over the user's listening history.
//
// The endpoint paginates with opaque before/after cursors; the extractor
// composes the previous-page link from the cursor, which the Pager
// replays like any other link.
func (c *Client) RecentlyPlayedPager(limit int) *Pager[CursorPage[PlayHistory]] {
	limit = clampLimit(limit)
	start := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)
	return NewPager(c, start, func(p *CursorPage[PlayHistory]) Links {
		links := Links{Next: p.Next}
		if p.Cursors.Before != "" {
			prev := fmt.Sprintf("/me/player/recently-played?before=%s&limit=%d",
				url.QueryEscape(p.Cursors.Before), limit)
			links.Prev = &prev
		}
		return links
	})
}

// SearchTracks searches the catalog for tracks matching the query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (*SearchResult, error) {
	limit = clampLimit(limit)
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var result SearchResult
	if err := c.Get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Devices retrieves the user's available playback devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var response struct {
		Devices []Device `json:"devices"`
	}
	if err := c.Get(ctx, "/me/player/devices", &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// CurrentPlayback retrieves the current playback state. A nil result
// with nil error means nothing is playing (the provider answers 204).
func (c *Client) CurrentPlayback(ctx context.Context) (*Playback, error) {
	var playback Playback
	if err := c.Get(ctx, "/me/player", &playback); err != nil {
		if errors.Is(err, ErrNoContent) {
			return nil, nil
		}
		return nil, err
	}
	return &playback, nil
}

// Play starts or resumes playback, optionally on a specific device.
// A 404 here means no active device, not a missing resource.
func (c *Client) Play(ctx context.Context, deviceID string) error {
	return asDeviceErr(c.Put(ctx, playerEndpoint("/me/player/play", deviceID), nil, nil))
}

// Pause pauses playback, optionally on a specific device.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return asDeviceErr(c.Put(ctx, playerEndpoint("/me/player/pause", deviceID), nil, nil))
}

// NextTrack skips to the next track in the player queue.
func (c *Client) NextTrack(ctx context.Context, deviceID string) error {
	return asDeviceErr(c.Post(ctx, playerEndpoint("/me/player/next", deviceID), nil, nil))
}

// PreviousTrack skips to the previous track in the player queue.
func (c *Client) PreviousTrack(ctx context.Context, deviceID string) error {
	return asDeviceErr(c.Post(ctx, playerEndpoint("/me/player/previous", deviceID), nil, nil))
}

func playerEndpoint(path, deviceID string) string {
	if deviceID == "" {
		return path
	}
	return fmt.Sprintf("%s?device_id=%s", path, url.QueryEscape(deviceID))
}

// asDeviceErr disambiguates the overloaded 404 for player endpoints and
// treats the 204 acknowledgement of a control command as success.
func asDeviceErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoContent):
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNoActiveDevice
	default:
		return err
	}
}

func idsEndpoint(path string, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("no track IDs provided")
	}
	if len(ids) > 50 {
		return "", fmt.Errorf("maximum 50 track IDs allowed")
	}
	return fmt.Sprintf("%s?ids=%s", path, url.QueryEscape(strings.Join(ids, ","))), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}
