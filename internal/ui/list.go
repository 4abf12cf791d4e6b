package ui

import (
	"fmt"
	"strings"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem wraps [api.SavedTrack] to implement [list.Item].
type trackItem struct {
	saved api.SavedTrack
}

func (i trackItem) FilterValue() string { return i.saved.Track.Name }
func (i trackItem) Title() string       { return i.saved.Track.Name }
func (i trackItem) Description() string {
	desc := artistNames(i.saved.Track)
	if i.saved.Track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.saved.Track.Album.Name)
	}
	return desc
}

func artistNames(t api.Track) string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func trackItems(page *api.Page[api.SavedTrack]) []list.Item {
	items := make([]list.Item, 0, len(page.Items))
	for _, saved := range page.Items {
		items = append(items, trackItem{saved: saved})
	}
	return items
}
