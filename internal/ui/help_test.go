package ui

import (
	"testing"

	"journey/internal/config"
)

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), DefaultKeyMap())
	help.SetSize(100, 40)

	output := help.View()

	for _, want := range []string{
		"Keyboard Shortcuts",
		"log learned",
		"log freezed",
		"reset goal",
		"prev day",
		"next day",
		"today",
		"quit",
		"Icons",
		"Press ? or Esc to close",
	} {
		if !contains(output, want) {
			t.Errorf("help overlay should contain %q\n%s", want, output)
		}
	}
}

func TestHelpOverlay_ShowsCustomKeys(t *testing.T) {
	setupTest(t)

	keys := NewKeyMap(&config.KeysConfig{Freeze: "z"})
	help := NewHelpOverlay(createTestStyles(), keys)
	help.SetSize(100, 40)

	if !contains(help.View(), "z log freezed") {
		t.Errorf("help overlay should list the configured freeze key\n%s", help.View())
	}
}

func TestHelpOverlay_SmallTerminal(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), DefaultKeyMap())
	help.SetSize(30, 20)

	if output := help.View(); output == "" {
		t.Error("help overlay should render in a small terminal")
	}
}
