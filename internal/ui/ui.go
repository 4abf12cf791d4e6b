package ui

import (
	"context"
	"fmt"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type pageFetchedMsg struct {
	page *api.Page[api.SavedTrack]
	err  error
}

type trackRemovedMsg struct {
	err error
}

// Model is the saved-tracks library browser. It holds the Pager as its
// single owner; every traversal runs as a sequential tea.Cmd, so the
// Pager is never touched concurrently.
type Model struct {
	ctx    context.Context
	client *api.Client
	pager  *api.Pager[api.Page[api.SavedTrack]]

	list   list.Model
	help   help.Model
	keys   keyMap
	err    error
	status string
	width  int
	height int
}

// NewModel creates the library browser over the user's saved tracks.
func NewModel(ctx context.Context, client *api.Client, pageSize int) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved Tracks"
	l.SetShowHelp(false)

	return &Model{
		ctx:    ctx,
		client: client,
		pager:  client.SavedTracksPager(pageSize),
		list:   l,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init fetches the first page of saved tracks.
func (m *Model) Init() tea.Cmd {
	return m.nextPage()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.nextPage):
			return m, m.nextPage()
		case key.Matches(msg, m.keys.prevPage):
			return m, m.prevPage()
		case key.Matches(msg, m.keys.refresh):
			return m, m.refreshPage()
		case key.Matches(msg, m.keys.unsave):
			return m, m.removeSelected()
		}

	case pageFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.page == nil {
			m.status = "no more pages"
			return m, nil
		}
		m.list.SetItems(trackItems(msg.page))
		if total, ok := m.pager.Total(); ok {
			m.status = fmt.Sprintf("page %d • %d tracks total", m.pager.Position(), total)
		} else {
			m.status = fmt.Sprintf("page %d", m.pager.Position())
		}
		return m, nil

	case trackRemovedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		// Redraw the same page with fresh contents after the mutation.
		return m, m.refreshPage()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + m.help.View(m.keys)
	}

	view := m.list.View()
	if m.status != "" {
		view += "\n" + styles.help.Render(m.status)
	}
	return view + "\n" + m.help.View(m.keys)
}

func (m *Model) nextPage() tea.Cmd {
	return func() tea.Msg {
		page, err := m.pager.Next(m.ctx)
		return pageFetchedMsg{page: page, err: err}
	}
}

func (m *Model) prevPage() tea.Cmd {
	return func() tea.Msg {
		page, err := m.pager.Prev(m.ctx)
		return pageFetchedMsg{page: page, err: err}
	}
}

func (m *Model) refreshPage() tea.Cmd {
	return func() tea.Msg {
		page, err := m.pager.Current(m.ctx)
		return pageFetchedMsg{page: page, err: err}
	}
}

func (m *Model) removeSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		err := m.client.RemoveSavedTracks(m.ctx, item.saved.Track.ID)
		return trackRemovedMsg{err: err}
	}
}
