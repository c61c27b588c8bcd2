package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap
	help   help.Model
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, keys KeyMap) *HelpOverlay {
	h := help.New()
	h.Styles = styles.HelpStyles()
	h.ShowAll = true
	return &HelpOverlay{
		styles: styles,
		keys:   keys,
		help:   h,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}
	h.help.Width = overlayWidth - 6

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder

	b.WriteString(titleStyle.Render("journey - Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.help.View(h.keys))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Icons"))
	b.WriteString("\n")
	b.WriteString(h.styles.LearnedIcon + " learned   " + h.styles.FreezedIcon + " freezed   " + h.styles.EmptyIcon + " not logged\n")
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Each freezed day uses one freeze from your quota."))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press reset twice to start the same goal over."))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
