package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const reservedGlyph = "✱"

// folderDelegate renders one folder per row: name, reserved marker, and the
// pending target when the row would be renamed by an apply.
type folderDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newFolderDelegate() folderDelegate {
	return folderDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d folderDelegate) Height() int                             { return 1 }
func (d folderDelegate) Spacing() int                            { return 0 }
func (d folderDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d folderDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	fi, ok := item.(folderItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	line := fi.entry.CurrentName
	if fi.entry.Reserved {
		line += " " + reservedStyle.Render(reservedGlyph)
	}
	if fi.changes() {
		line += pendingStyle.Render(" → " + fi.target)
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
