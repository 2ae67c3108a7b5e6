package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must stay readable on both light and dark terminal backgrounds,
// so every color is an AdaptiveColor and "faint" styling is only applied on
// dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func hasDarkBackground() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if hasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    = ac("240", "243")
	colorAccent   = ac("27", "75")
	colorReserved = ac("130", "179")
	colorError    = ac("124", "203")
	colorOK       = ac("28", "78")

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")

	titleStyle    = lipgloss.NewStyle().Bold(true)
	breadcrumb    = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	statusOK      = lipgloss.NewStyle().Foreground(colorOK)
	statusError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	reservedStyle = lipgloss.NewStyle().Foreground(colorReserved)
	pendingStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted)
)
