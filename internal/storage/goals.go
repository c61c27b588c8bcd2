package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"journey/internal/goal"
)

// ErrNoActiveGoal is returned by LoadActiveGoal before any goal was saved.
var ErrNoActiveGoal = errors.New("no active goal")

type goalRecord struct {
	ID             string        `json:"id"`
	Topic          string        `json:"topic"`
	Duration       goal.Duration `json:"duration"`
	StartDate      float64       `json:"start_date"` // epoch seconds
	TargetDays     int           `json:"target_days"`
	AllowedFreezes int           `json:"allowed_freezes"`
}

// SaveActiveGoal records def as the goal the app tracks.
func SaveActiveGoal(ctx context.Context, kv KV, def goal.Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}
	rec := goalRecord{
		ID:             def.ID,
		Topic:          def.Topic,
		Duration:       def.Duration,
		StartDate:      float64(def.StartDate.Unix()),
		TargetDays:     def.TargetDays,
		AllowedFreezes: def.AllowedFreezes,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize goal: %w", err)
	}
	return kv.Set(ctx, activeGoalKey, data)
}

// LoadActiveGoal returns the goal saved by SaveActiveGoal. A goal record
// that fails to parse is reported as an error rather than silently dropped:
// without it there is nothing to attach the history to.
func LoadActiveGoal(ctx context.Context, kv KV) (goal.Definition, error) {
	data, ok, err := kv.Get(ctx, activeGoalKey)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return goal.Definition{}, fmt.Errorf("%w: %v", ErrNoActiveGoal, err)
		}
		return goal.Definition{}, err
	}
	if !ok {
		return goal.Definition{}, ErrNoActiveGoal
	}

	var rec goalRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return goal.Definition{}, fmt.Errorf("parse goal: %w", err)
	}
	sec, frac := math.Modf(rec.StartDate)
	def := goal.Definition{
		ID:             rec.ID,
		Topic:          rec.Topic,
		Duration:       rec.Duration,
		StartDate:      time.Unix(int64(sec), int64(frac*1e9)),
		TargetDays:     rec.TargetDays,
		AllowedFreezes: rec.AllowedFreezes,
	}
	if err := def.Validate(); err != nil {
		return goal.Definition{}, fmt.Errorf("stored goal: %w", err)
	}
	return def, nil
}

// PurgeGoal deletes the history and scalars recorded for goalID.
func PurgeGoal(ctx context.Context, kv KV, goalID string) error {
	return kv.Delete(ctx, historyKey(goalID), scalarsKey(goalID))
}
