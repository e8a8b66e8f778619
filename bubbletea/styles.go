package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t trickle.Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Spinner: lipgloss.NewStyle().Foreground(ansiColor(t.Accent)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
