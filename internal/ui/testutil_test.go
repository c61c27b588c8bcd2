package ui

import (
	"strings"
	"testing"
	"time"

	"journey/internal/config"
	"journey/internal/goal"
	"journey/internal/storage"
	"journey/internal/streak"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is Sunday 2025-06-15 at noon UTC.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testClock is a settable time source shared by the engine and the app.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

// createTestEngine builds an engine for a one-week goal persisted under a
// temporary directory.
func createTestEngine(t *testing.T, clk *testClock) *streak.Engine {
	t.Helper()
	kv, err := storage.NewFileKV(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	def, err := goal.New("Go", goal.DurationWeek, clk.Now())
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewGoalStore(kv, def.ID, storage.WithStoreLocation(time.UTC))
	return streak.New(def, store, streak.WithClock(clk.Now), streak.WithLocation(time.UTC))
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestApp wires an App to a fresh engine and the shared clock.
func createTestApp(t *testing.T) (*App, *testClock) {
	t.Helper()
	setupTest(t)
	clk := &testClock{t: testNow}
	app := NewApp(createTestEngine(t, clk), createTestStyles(), nil)
	app.now = clk.Now
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return app, clk
}

// keyPress builds a KeyMsg for a single rune or a named key.
func keyPress(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key to app in order.
func press(app *App, keys ...string) {
	for _, k := range keys {
		app.Update(keyPress(k))
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
