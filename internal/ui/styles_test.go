package ui

import (
	"testing"

	"journey/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary: "#FF0000", // Red
		Accent:  "#00FF00", // Green
		Muted:   "#0000FF", // Blue
		Text:    "#FFFFFF", // White
	}

	styles := NewStylesFromTheme(theme)

	if styles.ColorPrimary != lipgloss.Color("#FF0000") {
		t.Errorf("ColorPrimary = %v, want #FF0000", styles.ColorPrimary)
	}
	if styles.ColorAccent != lipgloss.Color("#00FF00") {
		t.Errorf("ColorAccent = %v, want #00FF00", styles.ColorAccent)
	}
	if styles.ColorMuted != lipgloss.Color("#0000FF") {
		t.Errorf("ColorMuted = %v, want #0000FF", styles.ColorMuted)
	}
	if styles.ColorText != lipgloss.Color("#FFFFFF") {
		t.Errorf("ColorText = %v, want #FFFFFF", styles.ColorText)
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	for name, theme := range map[string]*config.ThemeConfig{
		"empty theme": {},
		"nil theme":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			styles := NewStylesFromTheme(theme)

			if styles.ColorPrimary != lipgloss.Color("#7C3AED") {
				t.Errorf("ColorPrimary = %v, want default #7C3AED", styles.ColorPrimary)
			}
			if styles.ColorAccent != lipgloss.Color("#10B981") {
				t.Errorf("ColorAccent = %v, want default #10B981", styles.ColorAccent)
			}
			if styles.ColorMuted != lipgloss.Color("#6B7280") {
				t.Errorf("ColorMuted = %v, want default #6B7280", styles.ColorMuted)
			}
		})
	}
}

func TestNewStyles_ComponentStylesInitialized(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{Primary: "#FF0000", Accent: "#00FF00"})

	if styles.TitleStyle.GetBackground() != lipgloss.Color("#FF0000") {
		t.Error("TitleStyle should use Primary color for background")
	}
	if styles.PaneTitleStyle.GetForeground() != lipgloss.Color("#FF0000") {
		t.Error("PaneTitleStyle should use Primary color for foreground")
	}
	if styles.DaySelectedStyle.GetForeground() != lipgloss.Color("#FF0000") {
		t.Error("DaySelectedStyle should use Primary color for foreground")
	}
	if styles.ActionStyle.GetForeground() != lipgloss.Color("#00FF00") {
		t.Error("ActionStyle should use Accent color for foreground")
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Primary = "#123456"

	styles := NewStyles(cfg)

	if styles.ColorPrimary != lipgloss.Color("#123456") {
		t.Errorf("ColorPrimary = %v, want #123456", styles.ColorPrimary)
	}
}

func TestStyles_Icons(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"learned", styles.LearnedIcon, "●"},
		{"freezed", styles.FreezedIcon, "❄"},
		{"empty", styles.EmptyIcon, "○"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !contains(tt.got, tt.want) {
				t.Errorf("%s icon = %q, want it to contain %q", tt.name, tt.got, tt.want)
			}
		})
	}
}
