// Package streak derives the current streak, freeze usage and goal completion
// from a per-day learning history, and keeps that history persisted.
//
// An Engine is driven from a single goroutine (the UI loop or one CLI
// command); it does no locking of its own.
package streak

import (
	"io"
	"time"

	"journey/internal/goal"

	"github.com/charmbracelet/log"
)

// DefaultStaleAfter is how long after the last recorded day the cached
// streak is considered stale.
const DefaultStaleAfter = 32 * time.Hour

// Store persists one goal's history and scalars. Loads never fail: missing
// or unreadable data comes back empty. Saves are best effort; the engine
// logs a failed save and carries on with its in-memory state.
type Store interface {
	LoadScalars() Scalars
	LoadHistory() History
	SaveScalars(Scalars) error
	SaveHistory(History) error
}

// Engine owns the in-memory history of the active goal.
type Engine struct {
	goal       goal.Definition
	store      Store
	now        func() time.Time
	loc        *time.Location
	staleAfter time.Duration
	log        *log.Logger

	history  History
	scalars  Scalars
	flushed  int // streak value last written to the store
	selected Day
	view     ViewState
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone used to decide where a day starts.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithStaleAfter overrides DefaultStaleAfter. Non-positive values are ignored.
func WithStaleAfter(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.staleAfter = d
		}
	}
}

// WithLogger sets the logger; by default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New loads the goal's history from store and computes the initial view.
// The selected date starts at today.
func New(def goal.Definition, store Store, opts ...Option) *Engine {
	e := &Engine{
		goal:       def,
		store:      store,
		now:        time.Now,
		loc:        time.Local,
		staleAfter: DefaultStaleAfter,
		log:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.scalars = store.LoadScalars()
	e.history = store.LoadHistory()
	if e.history == nil {
		e.history = History{}
	}
	e.flushed = e.scalars.Streak
	e.selected = e.today()

	e.log.Debug("engine loaded", "goal", def.ID, "days", len(e.history), "cached_streak", e.scalars.Streak)

	e.Resume()
	return e
}

// Goal returns the definition the engine tracks.
func (e *Engine) Goal() goal.Definition {
	return e.goal
}

// View returns the current derived state.
func (e *Engine) View() ViewState {
	return e.view
}

// Today returns the current calendar day.
func (e *Engine) Today() Day {
	return e.today()
}

// Location returns the zone days are computed in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Selected returns the day currently selected for display.
func (e *Engine) Selected() Day {
	return e.selected
}

// StatusFor returns the status recorded for the day t falls on.
func (e *Engine) StatusFor(t time.Time) (Status, bool) {
	return e.history.Get(DayOf(t, e.loc))
}

// StatusOn returns the status recorded for d.
func (e *Engine) StatusOn(d Day) (Status, bool) {
	return e.history.Get(d)
}

// Days returns every recorded day in ascending order.
func (e *Engine) Days() []Day {
	return e.history.Days()
}

// RecordLearned marks the day t falls on as learned. It reports false and
// changes nothing when that day already has a status.
func (e *Engine) RecordLearned(t time.Time) bool {
	return e.record(DayOf(t, e.loc), StatusLearned)
}

// RecordFreezed marks the day t falls on as freezed. It reports false and
// changes nothing when that day already has a status or no freezes remain.
func (e *Engine) RecordFreezed(t time.Time) bool {
	return e.record(DayOf(t, e.loc), StatusFreezed)
}

// MarkLearned records the selected day as learned.
func (e *Engine) MarkLearned() bool {
	return e.record(e.selected, StatusLearned)
}

// MarkFreezed records the selected day as freezed.
func (e *Engine) MarkFreezed() bool {
	return e.record(e.selected, StatusFreezed)
}

// SelectDate changes the selected day. History is untouched.
func (e *Engine) SelectDate(t time.Time) {
	e.SelectDay(DayOf(t, e.loc))
}

// SelectDay is SelectDate for an already computed Day.
func (e *Engine) SelectDay(d Day) {
	e.selected = d
	e.recompute()
}

// ResetSameGoal wipes history and scalars but keeps the goal.
func (e *Engine) ResetSameGoal() {
	e.history = History{}
	e.scalars = Scalars{}
	e.saveHistory()
	e.recompute()
	e.saveScalars()
	e.log.Info("goal reset", "goal", e.goal.ID)
}

// Resume runs the staleness check and recomputes. Call it whenever the
// user comes back to the app.
func (e *Engine) Resume() {
	e.checkStale()
	e.recompute()
	if e.scalars.Streak != e.flushed {
		e.saveScalars()
	}
}

func (e *Engine) record(d Day, s Status) bool {
	if existing, ok := e.history[d]; ok {
		e.log.Debug("day already recorded", "day", d, "status", existing)
		return false
	}
	if s == StatusFreezed && e.remainingFreezes() <= 0 {
		e.log.Debug("no freezes left", "day", d, "allowed", e.goal.AllowedFreezes)
		return false
	}

	e.history[d] = s
	e.scalars.LastAction = e.now()
	e.saveHistory()
	e.recompute()
	e.saveScalars()
	return true
}

func (e *Engine) today() Day {
	return DayOf(e.now(), e.loc)
}

func (e *Engine) remainingFreezes() int {
	return max(0, e.goal.AllowedFreezes-e.history.Count(StatusFreezed))
}

// checkStale zeroes the cached streak after a long gap. The next recompute
// overwrites the cache with the value derived from history, so the reset is
// only visible between the two calls.
func (e *Engine) checkStale() {
	if e.scalars.LastAction.IsZero() {
		return
	}
	if elapsed := e.now().Sub(e.scalars.LastAction); elapsed > e.staleAfter {
		e.log.Debug("cached streak is stale", "elapsed", elapsed.Round(time.Minute))
		e.scalars.Streak = 0
	}
}

func (e *Engine) recompute() {
	streak := e.history.StreakEndingAt(e.today())
	e.scalars.Streak = streak

	status, _ := e.history.Get(e.selected)
	e.view = ViewState{
		Topic:                e.goal.TopicDisplay(),
		TargetDays:           e.goal.TargetDays,
		AllowedFreezes:       e.goal.AllowedFreezes,
		SelectedDate:         e.selected.Midnight(e.loc),
		SelectedStatus:       status,
		CurrentStreak:        streak,
		UsedFreezes:          e.history.Count(StatusFreezed),
		RemainingFreezes:     e.remainingFreezes(),
		HasCompletedGoal:     streak >= e.goal.TargetDays,
		IsSelectedDayLearned: status == StatusLearned,
		IsSelectedDayFreezed: status == StatusFreezed,
	}
}

func (e *Engine) saveHistory() {
	if err := e.store.SaveHistory(e.history); err != nil {
		e.log.Error("save history", "goal", e.goal.ID, "err", err)
	}
}

func (e *Engine) saveScalars() {
	if err := e.store.SaveScalars(e.scalars); err != nil {
		e.log.Error("save scalars", "goal", e.goal.ID, "err", err)
		return
	}
	e.flushed = e.scalars.Streak
}
