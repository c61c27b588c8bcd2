package ui

import (
	"journey/internal/config"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorStreak    lipgloss.Color
	ColorFreeze    lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle     lipgloss.Style
	DateStyle      lipgloss.Style
	PaneStyle      lipgloss.Style
	PaneTitleStyle lipgloss.Style

	// Week strip
	DayLabelStyle    lipgloss.Style
	DaySelectedStyle lipgloss.Style
	DayTodayStyle    lipgloss.Style
	LearnedIcon      string
	FreezedIcon      string
	EmptyIcon        string

	StreakStyle    lipgloss.Style
	FreezeStyle    lipgloss.Style
	CompletedStyle lipgloss.Style
	ActionStyle    lipgloss.Style
	DisabledStyle  lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	if theme == nil {
		theme = &config.ThemeConfig{}
	}
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")

	// Fixed semantic colors (not configurable from theme)
	s.ColorStreak = lipgloss.Color("#F97316")
	s.ColorFreeze = lipgloss.Color("#38BDF8")
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorSuccess = lipgloss.Color("#10B981")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.DayLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.DaySelectedStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.DayTodayStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Underline(true)

	s.LearnedIcon = lipgloss.NewStyle().Foreground(s.ColorStreak).Render("●")
	s.FreezedIcon = lipgloss.NewStyle().Foreground(s.ColorFreeze).Render("❄")
	s.EmptyIcon = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("○")

	s.StreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorStreak).
		Bold(true)

	s.FreezeStyle = lipgloss.NewStyle().
		Foreground(s.ColorFreeze).
		Bold(true)

	s.CompletedStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Bold(true)

	s.ActionStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.DisabledStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted).
		Faint(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)
}

// HelpStyles adapts the palette to the bubbles help component.
func (s *Styles) HelpStyles() help.Styles {
	sep := lipgloss.NewStyle().Foreground(s.ColorMuted)
	return help.Styles{
		Ellipsis:       sep,
		ShortKey:       s.HelpKeyStyle,
		ShortDesc:      s.HelpStyle,
		ShortSeparator: sep,
		FullKey:        s.HelpKeyStyle,
		FullDesc:       s.HelpStyle,
		FullSeparator:  sep,
	}
}
