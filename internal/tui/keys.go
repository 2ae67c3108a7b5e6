package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	MoveUp    key.Binding
	MoveDown  key.Binding
	Reserve   key.Binding
	Apply     key.Binding
	Clear     key.Binding
	AutoApply key.Binding
	NewFolder key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Open      key.Binding
	Notes     key.Binding
	Undo      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+↑/K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+↓/J", "move down"),
		),
		Reserve: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle reserved"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter/a", "apply order"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear numbering"),
		),
		AutoApply: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "auto-apply on/off"),
		),
		NewFolder: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2", "R"),
			key.WithHelp("F2/R", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in file browser"),
		),
		Notes: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "notes"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo last apply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// shortHelp is the footer line; kept to the actions people reach for first.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.Reserve, k.Apply, k.Clear, k.Notes, k.Undo, k.Quit}
}
