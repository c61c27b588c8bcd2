// Package ui provides the terminal activity screen for journey.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and user customization.
package ui

import (
	"strings"

	"journey/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpLabel is the key shown in help text: the first configured key.
func helpLabel(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// KeyMap defines the activity screen key bindings.
type KeyMap struct {
	Learned key.Binding
	Freeze  key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(&config.KeysConfig{})
}

// NewKeyMap creates key bindings from config.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}

	learned := parseKeys(cfg.Learned, "l")
	freeze := parseKeys(cfg.Freeze, "f")
	prev := parseKeys(cfg.PrevDay, "h", "left")
	next := parseKeys(cfg.NextDay, "right")
	today := parseKeys(cfg.Today, "t")
	reset := parseKeys(cfg.Reset, "r")
	help := parseKeys(cfg.Help, "?")
	quit := parseKeys(cfg.Quit, "q", "ctrl+c")

	prevLabel := helpLabel(prev)
	if cfg.PrevDay == "" {
		prevLabel = "h/←"
	}
	nextLabel := helpLabel(next)
	if cfg.NextDay == "" {
		nextLabel = "→"
	}

	return KeyMap{
		Learned: key.NewBinding(key.WithKeys(learned...), key.WithHelp(helpLabel(learned), "log learned")),
		Freeze:  key.NewBinding(key.WithKeys(freeze...), key.WithHelp(helpLabel(freeze), "log freezed")),
		PrevDay: key.NewBinding(key.WithKeys(prev...), key.WithHelp(prevLabel, "prev day")),
		NextDay: key.NewBinding(key.WithKeys(next...), key.WithHelp(nextLabel, "next day")),
		Today:   key.NewBinding(key.WithKeys(today...), key.WithHelp(helpLabel(today), "today")),
		Reset:   key.NewBinding(key.WithKeys(reset...), key.WithHelp(helpLabel(reset), "reset goal")),
		Help:    key.NewBinding(key.WithKeys(help...), key.WithHelp(helpLabel(help), "help")),
		Quit:    key.NewBinding(key.WithKeys(quit...), key.WithHelp(helpLabel(quit), "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Learned, k.Freeze, k.PrevDay, k.NextDay, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Learned, k.Freeze, k.Reset},
		{k.PrevDay, k.NextDay, k.Today},
		{k.Help, k.Quit},
	}
}

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
