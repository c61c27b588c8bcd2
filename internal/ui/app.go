// Package ui provides the terminal activity screen for journey.
// This file contains the App model, which forwards intents to the streak
// engine and renders its view state using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"journey/internal/config"
	"journey/internal/streak"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys   *config.KeysConfig
	Logger *log.Logger
}

// App is the activity screen model.
type App struct {
	engine      *streak.Engine
	styles      *Styles
	keys        KeyMap
	helpKeys    HelpKeyMap
	help        help.Model
	helpOverlay *HelpOverlay
	log         *log.Logger

	showHelp     bool
	confirmReset bool
	lastToday    streak.Day
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	now func() time.Time
}

// NewApp creates the activity screen for engine.
func NewApp(engine *streak.Engine, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keys := NewKeyMap(cfg.Keys)
	h := help.New()
	h.Styles = styles.HelpStyles()

	return &App{
		engine:      engine,
		styles:      styles,
		keys:        keys,
		helpKeys:    DefaultHelpKeyMap(),
		help:        h,
		helpOverlay: NewHelpOverlay(styles, keys),
		log:         logger,
		lastToday:   engine.Today(),
		now:         time.Now,
	}
}

// Init resumes the engine and starts the tick loop.
func (a *App) Init() tea.Cmd {
	a.resume()
	return tickCmd()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.helpOverlay.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.FocusMsg:
		a.resume()
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && a.now().After(a.statusUntil) {
			a.clearStatus()
		}
		if today := a.engine.Today(); today != a.lastToday {
			a.log.Debug("day rolled over", "from", a.lastToday, "to", today)
			// Keep following today if the user was looking at it.
			if a.engine.Selected() == a.lastToday {
				a.engine.SelectDay(today)
			}
			a.resume()
		}
		return a, tickCmd()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.confirmReset {
		a.confirmReset = false
		if key.Matches(msg, a.keys.Reset) {
			a.engine.ResetSameGoal()
			a.SetStatus("Started over: same goal, clean history", false)
			return a, nil
		}
		a.SetStatus("Reset canceled", false)
		if !key.Matches(msg, a.keys.Quit) {
			return a, nil
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true

	case key.Matches(msg, a.keys.Learned):
		if a.engine.MarkLearned() {
			a.SetStatus(fmt.Sprintf("Logged %s as learned", a.selectedLabel()), false)
		} else {
			a.SetStatus("This day is already logged", true)
		}

	case key.Matches(msg, a.keys.Freeze):
		v := a.engine.View()
		switch {
		case v.SelectedStatus != "":
			a.SetStatus("This day is already logged", true)
		case v.RemainingFreezes <= 0:
			a.SetStatus("No freezes left", true)
		case a.engine.MarkFreezed():
			a.SetStatus(fmt.Sprintf("Logged %s as freezed", a.selectedLabel()), false)
		}

	case key.Matches(msg, a.keys.PrevDay):
		a.engine.SelectDay(a.engine.Selected().AddDays(-1))

	case key.Matches(msg, a.keys.NextDay):
		a.engine.SelectDay(a.engine.Selected().AddDays(1))

	case key.Matches(msg, a.keys.Today):
		a.engine.SelectDay(a.engine.Today())

	case key.Matches(msg, a.keys.Reset):
		a.confirmReset = true
		a.SetStatus(fmt.Sprintf("Press %s again to reset your streak and history", a.keys.Reset.Help().Key), true)
	}

	return a, nil
}

func (a *App) resume() {
	a.engine.Resume()
	a.lastToday = a.engine.Today()
}

func (a *App) selectedLabel() string {
	if a.engine.Selected() == a.engine.Today() {
		return "today"
	}
	return a.engine.Selected().Midnight(a.engine.Location()).Format("Mon Jan 2")
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.renderActivity())
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" journey ")
	topic := a.styles.StatValueStyle.Render("Learning " + a.engine.View().Topic)
	date := a.styles.DateStyle.Render(a.engine.Today().Midnight(a.engine.Location()).Format("Mon Jan 2"))

	used := lipgloss.Width(title) + lipgloss.Width(topic) + lipgloss.Width(date) + 2
	spacer := max(2, a.width-used)
	return title + "  " + topic + strings.Repeat(" ", spacer) + date
}

func (a *App) renderActivity() string {
	v := a.engine.View()
	s := a.styles

	var b strings.Builder
	b.WriteString(renderWeekStrip(s, a.engine.Selected(), a.engine.Today(), a.engine.StatusOn, a.engine.Location()))
	b.WriteString("\n\n")

	streakLine := s.StreakStyle.Render(fmt.Sprintf("🔥 %d", v.CurrentStreak)) + " " +
		s.StatLabelStyle.Render(pluralDays(v.CurrentStreak)+" learned")
	freezeLine := s.FreezeStyle.Render(fmt.Sprintf("🧊 %d", v.UsedFreezes)) + " " +
		s.StatLabelStyle.Render(pluralDays(v.UsedFreezes)+" freezed")
	b.WriteString(streakLine + "    " + freezeLine)
	b.WriteString("\n\n")

	if v.HasCompletedGoal {
		b.WriteString(s.CompletedStyle.Render("Well Done!"))
		b.WriteString("\n")
		b.WriteString(s.StatLabelStyle.Render("Goal completed! Start learning again or set a new learning goal."))
		b.WriteString("\n")
		b.WriteString(s.StatLabelStyle.Render(fmt.Sprintf("Press %s twice to keep the same goal and duration.", a.keys.Reset.Help().Key)))
	} else {
		b.WriteString(a.renderActions(v))
	}
	b.WriteString("\n\n")
	b.WriteString(s.StatLabelStyle.Render(fmt.Sprintf("%d out of %d freezes used", v.UsedFreezes, v.AllowedFreezes)))
	b.WriteString("  ")
	b.WriteString(s.StatLabelStyle.Render(fmt.Sprintf("· goal %d days", v.TargetDays)))

	style := s.PaneStyle
	if a.width > 4 {
		style = style.Width(a.width - 2)
	}
	return style.Render(b.String())
}

func (a *App) renderActions(v streak.ViewState) string {
	s := a.styles
	learnedKey := a.keys.Learned.Help().Key
	freezeKey := a.keys.Freeze.Help().Key

	switch {
	case v.IsSelectedDayLearned:
		return s.StreakStyle.Render("Learned " + a.selectedLabel())
	case v.IsSelectedDayFreezed:
		return s.FreezeStyle.Render("Day is freezed")
	}

	learned := s.ActionStyle.Render("["+learnedKey+"]") + " Log as learned"
	freeze := s.ActionStyle.Render("["+freezeKey+"]") + " Log as freezed"
	if v.RemainingFreezes <= 0 {
		freeze = s.DisabledStyle.Render("[" + freezeKey + "] Log as freezed (none left)")
	}
	return learned + "    " + freeze
}

func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}
	return a.help.View(a.keys)
}

func (a *App) renderGoodbye() string {
	v := a.engine.View()
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Learning %s: %d %s in a row\n", v.Topic, v.CurrentStreak, strings.ToLower(pluralDays(v.CurrentStreak))))
	b.WriteString("\n")
	return b.String()
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusErr = false
	a.statusUntil = time.Time{}
}

// Run starts the Bubble Tea program for engine.
func Run(engine *streak.Engine, styles *Styles, cfg *AppConfig) error {
	app := NewApp(engine, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
