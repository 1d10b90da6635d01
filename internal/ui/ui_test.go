package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/holocron/internal/models"
)

type fakeStore struct {
	entries   []*models.FavoriteEntry
	loadErr   error
	removeErr error
	removed   []int64
}

func (f *fakeStore) UserFavorites(ctx context.Context, userID int64) ([]*models.FavoriteEntry, error) {
	return f.entries, f.loadErr
}

func (f *fakeStore) RemoveFavorite(ctx context.Context, kind models.FavoriteKind, id int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	return nil
}

func newFakeStore() *fakeStore {
	hero := "hero"
	added := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	return &fakeStore{
		entries: []*models.FavoriteEntry{
			{Favorite: models.Favorite{ID: 1, Kind: models.KindCharacter, TargetID: 1, DateAdded: added, Notes: &hero}, TargetName: "Luke Skywalker"},
			{Favorite: models.Favorite{ID: 1, Kind: models.KindPlanet, TargetID: 3, DateAdded: added.Add(time.Hour)}, TargetName: "Hoth"},
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if msg, ok := cmd().(Msg); ok {
		m.Update(msg)
	}
}

func loadedModel(t *testing.T, store *fakeStore) *Model {
	t.Helper()
	owner := models.NewUser("leia@x.com", "hunter2", "Leia", "Organa")
	owner.ID = 1

	m := NewModel(context.Background(), store, owner)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	run(t, m, m.Init())
	return m
}

func TestModel(t *testing.T) {
	t.Run("loads favorites", func(t *testing.T) {
		m := loadedModel(t, newFakeStore())

		if len(m.list.Items()) != 2 {
			t.Fatalf("expected 2 items, got %d", len(m.list.Items()))
		}
		view := m.View()
		if !strings.Contains(view, "Favorites of Leia Organa") {
			t.Errorf("expected title in view, got:\n%s", view)
		}
		if strings.Contains(view, "hunter2") {
			t.Error("view leaks the password")
		}
	})

	t.Run("load error", func(t *testing.T) {
		store := newFakeStore()
		store.loadErr = errors.New("database is locked")
		m := loadedModel(t, store)

		if !strings.Contains(m.View(), "database is locked") {
			t.Errorf("expected error in view, got:\n%s", m.View())
		}
	})

	t.Run("detail view", func(t *testing.T) {
		m := loadedModel(t, newFakeStore())

		m.Update(keyPress("enter"))
		if m.view != DetailView {
			t.Fatalf("expected detail view, got %d", m.view)
		}
		view := m.View()
		if !strings.Contains(view, "Luke Skywalker") || !strings.Contains(view, "hero") {
			t.Errorf("expected favorite details, got:\n%s", view)
		}

		m.Update(keyPress("esc"))
		if m.view != ListView || m.selected != nil {
			t.Errorf("expected to return to list, got view %d", m.view)
		}
	})

	t.Run("remove with confirmation", func(t *testing.T) {
		store := newFakeStore()
		m := loadedModel(t, store)

		m.Update(keyPress("d"))
		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "Remove character 'Luke Skywalker'") {
			t.Errorf("unexpected confirm view:\n%s", m.View())
		}

		_, cmd := m.Update(keyPress("y"))
		run(t, m, cmd)

		if len(store.removed) != 1 || store.removed[0] != 1 {
			t.Errorf("expected favorite 1 removed, got %v", store.removed)
		}
		if m.view != ListView {
			t.Errorf("expected list view after removal, got %d", m.view)
		}
		if len(m.entries) != 1 || m.entries[0].TargetName != "Hoth" {
			t.Errorf("expected only Hoth to remain, got %+v", m.entries)
		}
		if !strings.Contains(m.View(), "Removed Luke Skywalker") {
			t.Errorf("expected status message, got:\n%s", m.View())
		}
	})

	t.Run("declining keeps the favorite", func(t *testing.T) {
		store := newFakeStore()
		m := loadedModel(t, store)

		m.Update(keyPress("enter"))
		m.Update(keyPress("d"))
		m.Update(keyPress("n"))

		if m.view != DetailView {
			t.Errorf("expected detail view, got %d", m.view)
		}
		if len(store.removed) != 0 {
			t.Errorf("nothing should be removed, got %v", store.removed)
		}
	})

	t.Run("remove failure", func(t *testing.T) {
		store := newFakeStore()
		store.removeErr = errors.New("not found")
		m := loadedModel(t, store)

		m.Update(keyPress("d"))
		_, cmd := m.Update(keyPress("y"))
		run(t, m, cmd)

		if len(m.entries) != 2 {
			t.Errorf("entries should be unchanged, got %d", len(m.entries))
		}
		if !strings.Contains(m.View(), "Failed to remove Luke Skywalker") {
			t.Errorf("expected failure status, got:\n%s", m.View())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := loadedModel(t, newFakeStore())

		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestFavoriteItem(t *testing.T) {
	store := newFakeStore()
	item := favoriteItem{entry: store.entries[0]}

	if item.Title() != "Luke Skywalker" || item.FilterValue() != "Luke Skywalker" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "character • added 2024-05-04 • hero" {
		t.Errorf("unexpected description %q", item.Description())
	}
}
