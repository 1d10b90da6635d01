package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/holocron/internal/models"
)

var _ list.Item = favoriteItem{}

// favoriteItem wraps [models.FavoriteEntry] to implement [list.Item].
type favoriteItem struct {
	entry *models.FavoriteEntry
}

func (i favoriteItem) FilterValue() string { return i.entry.TargetName }
func (i favoriteItem) Title() string       { return i.entry.TargetName }
func (i favoriteItem) Description() string {
	desc := fmt.Sprintf("%s • added %s", i.entry.Kind, i.entry.DateAdded.Format(time.DateOnly))
	if notes := models.Deref(i.entry.Notes); notes != "" {
		desc = fmt.Sprintf("%s • %s", desc, notes)
	}
	return desc
}

func favoriteItems(entries []*models.FavoriteEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = favoriteItem{entry: e}
	}
	return items
}
