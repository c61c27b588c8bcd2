// Package storage persists learning goals and their day histories.
//
// Everything goes through KV, a small key/value interface with three
// backends: JSON files (the default), SQLite and Redis. GoalStore adapts a
// KV to the streak engine's Store port for a single goal.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// KV is a byte-oriented key/value store. Keys are slash-separated paths
// such as "goal/<id>/history"; values are JSON documents.
type KV interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// ErrCorrupt marks a stored value that could not be read back.
var ErrCorrupt = errors.New("corrupt value")

const (
	activeGoalKey = "goal/active"
	goalKeyPrefix = "goal/"
)

func historyKey(goalID string) string {
	return goalKeyPrefix + goalID + "/history"
}

func scalarsKey(goalID string) string {
	return goalKeyPrefix + goalID + "/scalars"
}

// SnapshotKeys lists the keys that make up goalID's saved state: the active
// goal record, its history and its scalars.
func SnapshotKeys(goalID string) []string {
	return []string{activeGoalKey, historyKey(goalID), scalarsKey(goalID)}
}

// validateKey rejects keys that could escape a namespace or a directory.
func validateKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("invalid key %q", key)
		}
		for _, r := range seg {
			ok := r == '-' || r == '_' || r == '.' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !ok {
				return fmt.Errorf("invalid key %q: unexpected %q", key, r)
			}
		}
	}
	return nil
}
