// Package ui implements an interactive favorites browser using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow over one user's favorites:
//  1. [ListView] : Browse favorites of every kind, oldest first, with fuzzy filtering
//  2. [DetailView] : Inspect the target, date added and notes of one favorite
//  3. [ConfirmView] : Confirm removal of the selected favorite row
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store calls run inside [tea.Cmd] functions so the event loop never blocks on SQLite.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
