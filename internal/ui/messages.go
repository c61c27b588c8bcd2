package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent periodically to expire status messages and notice when
// the calendar day rolls over while the screen is open.
type tickMsg time.Time

// tickInterval is how often tickMsg fires.
const tickInterval = 30 * time.Second

// tickCmd returns a command that sends the next tick.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
