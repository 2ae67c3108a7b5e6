package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"foldsort/internal/state"
)

// Options carries everything the app needs; the CLI resolves the directory
// and loads state before handing off.
type Options struct {
	Dir       string
	State     *state.State
	StatePath string
}

// Run blocks until the user quits.
func Run(opts Options) error {
	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
