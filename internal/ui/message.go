package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/holocron/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFavoritesLoaded MsgKind = iota
	MsgFavoriteRemoved
)

type favoritesLoaded struct {
	entries []*models.FavoriteEntry
	err     error
}

type favoriteRemoved struct {
	entry *models.FavoriteEntry
	err   error
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(entries []*models.FavoriteEntry, err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: favoritesLoaded{entries, err}}
}

// favoriteRemovedMsg is the constructor for [MsgFavoriteRemoved]
func favoriteRemovedMsg(entry *models.FavoriteEntry, err error) Msg {
	return Msg{kind: MsgFavoriteRemoved, data: favoriteRemoved{entry, err}}
}
