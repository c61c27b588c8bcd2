// Package goal describes what the user committed to learn: a topic, a
// duration and the targets derived from them.
package goal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Duration is the length of a learning commitment.
type Duration string

const (
	DurationWeek  Duration = "week"
	DurationMonth Duration = "month"
	DurationYear  Duration = "year"
)

// Durations lists every supported duration in display order.
var Durations = []Duration{DurationWeek, DurationMonth, DurationYear}

// ErrUnknownDuration is returned when a duration name cannot be parsed.
var ErrUnknownDuration = errors.New("unknown duration")

// ParseDuration accepts "week", "month" or "year" in any case.
func ParseDuration(s string) (Duration, error) {
	switch Duration(strings.ToLower(strings.TrimSpace(s))) {
	case DurationWeek:
		return DurationWeek, nil
	case DurationMonth:
		return DurationMonth, nil
	case DurationYear:
		return DurationYear, nil
	}
	return "", fmt.Errorf("%w: %q (want week, month or year)", ErrUnknownDuration, s)
}

// Label returns the capitalized name used in prompts.
func (d Duration) Label() string {
	switch d {
	case DurationWeek:
		return "Week"
	case DurationMonth:
		return "Month"
	case DurationYear:
		return "Year"
	}
	return string(d)
}

// Freezes returns the freeze quota granted for the duration.
func (d Duration) Freezes() int {
	switch d {
	case DurationWeek:
		return 2
	case DurationMonth:
		return 8
	case DurationYear:
		return 96
	}
	return 0
}

// TargetDays returns how many learned days complete a goal of duration d
// that starts on start. Month goals use the length of the start month as
// seen from loc.
func TargetDays(d Duration, start time.Time, loc *time.Location) int {
	switch d {
	case DurationWeek:
		return 7
	case DurationMonth:
		if loc == nil {
			loc = time.Local
		}
		y, m, _ := start.In(loc).Date()
		// Day 0 of the next month is the last day of this one.
		return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
	case DurationYear:
		return 365
	}
	return 0
}

// Definition is an immutable learning goal. Change it by building a new one
// with Update; the engine tracking the old definition is discarded.
type Definition struct {
	ID             string
	Topic          string
	Duration       Duration
	StartDate      time.Time
	TargetDays     int
	AllowedFreezes int
}

// New creates a goal starting at now.
func New(topic string, d Duration, now time.Time) (Definition, error) {
	if d.Freezes() == 0 {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownDuration, string(d))
	}
	return Definition{
		ID:             uuid.NewString(),
		Topic:          strings.TrimSpace(topic),
		Duration:       d,
		StartDate:      now,
		TargetDays:     TargetDays(d, now, now.Location()),
		AllowedFreezes: d.Freezes(),
	}, nil
}

// Update replaces topic and duration. The result is a brand new goal with its
// own ID and a start date reset to now, so history recorded against the old
// goal is left behind.
func (g Definition) Update(topic string, d Duration, now time.Time) (Definition, error) {
	return New(topic, d, now)
}

// TopicDisplay is the topic as shown in sentences like "learning swift".
func (g Definition) TopicDisplay() string {
	if g.Topic == "" {
		return "something"
	}
	return strings.ToLower(g.Topic)
}

// Validate checks the invariants a persisted definition must satisfy.
func (g Definition) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("goal id is required")
	}
	if g.TargetDays < 1 {
		return fmt.Errorf("target days must be at least 1, got %d", g.TargetDays)
	}
	if g.AllowedFreezes < 0 {
		return fmt.Errorf("allowed freezes must not be negative, got %d", g.AllowedFreezes)
	}
	return nil
}
