package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/holocron/internal/models"
)

var _ Painter = (*Palette)(nil)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	ConfirmView
)

// FavoritesStore is the slice of [repositories.Store] the browser needs.
type FavoritesStore interface {
	UserFavorites(ctx context.Context, userID int64) ([]*models.FavoriteEntry, error)
	RemoveFavorite(ctx context.Context, kind models.FavoriteKind, id int64) error
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	store    FavoritesStore
	owner    *models.User
	width    int
	height   int
	list     list.Model
	entries  []*models.FavoriteEntry
	selected *models.FavoriteEntry
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a browser over owner's favorites.
func NewModel(ctx context.Context, store FavoritesStore, owner *models.User) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Favorites of %s", owner.FullName())
	l.SetStatusBarItemName("favorite", "favorites")

	return &Model{
		ctx:   ctx,
		view:  ListView,
		store: store,
		owner: owner,
		list:  l,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init loads the owner's favorites.
func (m *Model) Init() tea.Cmd {
	return m.loadFavorites()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFavoritesLoaded:
		data := msg.data.(favoritesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.entries = data.entries
		return m, m.list.SetItems(favoriteItems(data.entries))

	case MsgFavoriteRemoved:
		data := msg.data.(favoriteRemoved)
		m.view = ListView
		m.selected = nil
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to remove %s: %v", data.entry.TargetName, data.err))
			return m, nil
		}

		kept := m.entries[:0]
		for _, e := range m.entries {
			if e.Kind != data.entry.Kind || e.ID != data.entry.ID {
				kept = append(kept, e)
			}
		}
		m.entries = kept
		m.status = styles.ok.Render(fmt.Sprintf("✓ Removed %s", data.entry.TargetName))
		return m, m.list.SetItems(favoriteItems(m.entries))
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.status = ""
		return m, m.loadFavorites()
	case key.Matches(msg, m.keys.enter):
		if entry := m.selectedEntry(); entry != nil {
			m.selected = entry
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if entry := m.selectedEntry(); entry != nil {
			m.selected = entry
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
	case key.Matches(msg, m.keys.remove):
		m.view = ConfirmView
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.removeFavorite(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = DetailView
	}
	return m, nil
}

func (m *Model) selectedEntry() *models.FavoriteEntry {
	if item, ok := m.list.SelectedItem().(favoriteItem); ok {
		return item.entry
	}
	return nil
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.store.UserFavorites(m.ctx, m.owner.ID)
		return favoritesLoadedMsg(entries, err)
	}
}

func (m *Model) removeFavorite(entry *models.FavoriteEntry) tea.Cmd {
	return func() tea.Msg {
		err := m.store.RemoveFavorite(m.ctx, entry.Kind, entry.ID)
		return favoriteRemovedMsg(entry, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.status == "" {
		return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), m.status, helpView)
}

func (m *Model) renderDetail() string {
	e := m.selected
	if e == nil {
		return ""
	}

	badge := styles.On(" "+strings.ToUpper(e.Kind.String())+" ", kindColors[e.Kind.String()])
	title := styles.title.Render(e.TargetName)

	notes := models.Deref(e.Notes)
	if notes == "" {
		notes = styles.help.Render("no notes")
	}

	rows := []string{
		fmt.Sprintf("%s %d", styles.label.Render("Favorite:"), e.ID),
		fmt.Sprintf("%s %d", styles.label.Render("Target:  "), e.TargetID),
		fmt.Sprintf("%s %s", styles.label.Render("Added:   "), e.DateAdded.Local().Format(time.DateTime)),
		fmt.Sprintf("%s %s", styles.label.Render("Notes:   "), notes),
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.remove, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return fmt.Sprintf("%s %s\n%s\n\n%s", badge, title, body, helpView)
}

func (m *Model) renderConfirm() string {
	e := m.selected
	if e == nil {
		return ""
	}

	title := styles.warn.Render(fmt.Sprintf("Remove %s '%s' from favorites?", e.Kind, e.TargetName))
	info := fmt.Sprintf("\nOnly the favorite is removed; the %s stays in the catalog.\n", e.Kind)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
