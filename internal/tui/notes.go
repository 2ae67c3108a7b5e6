package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// notesModel is the markdown scratchpad: a textarea for editing and a
// glamour-rendered preview toggled with ctrl+p. Esc hands control back to
// the list; the caller persists the text.
type notesModel struct {
	ta      textarea.Model
	preview bool
	width   int
}

func newNotesModel(text string) notesModel {
	ta := textarea.New()
	ta.Placeholder = "Notes about this folder set (markdown)"
	ta.CharLimit = 0
	ta.SetValue(text)
	return notesModel{ta: ta}
}

func (n *notesModel) focus() tea.Cmd {
	n.preview = false
	return n.ta.Focus()
}

func (n *notesModel) resize(w, h int) {
	n.width = w
	n.ta.SetWidth(w)
	n.ta.SetHeight(h)
}

func (n *notesModel) text() string { return n.ta.Value() }

// update returns done=true when the editor should close.
func (n *notesModel) update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		if n.preview {
			n.preview = false
			return false, n.ta.Focus()
		}
		n.ta.Blur()
		return true, nil
	case "ctrl+p":
		n.preview = !n.preview
		if n.preview {
			n.ta.Blur()
			return false, nil
		}
		return false, n.ta.Focus()
	}
	if n.preview {
		return false, nil
	}
	n.ta, cmd = n.ta.Update(msg)
	return false, cmd
}

func (n *notesModel) view() string {
	if !n.preview {
		return n.ta.View()
	}
	return renderMarkdown(n.ta.Value(), n.width)
}

func renderMarkdown(md string, width int) string {
	if md == "" {
		return statusStyle.Render("(no notes)")
	}
	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	} else if wrap > 100 {
		wrap = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Sprintf("%s\n\n%v", md, err)
	}
	return out
}
