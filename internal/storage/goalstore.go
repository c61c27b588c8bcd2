package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"journey/internal/streak"

	"github.com/charmbracelet/log"
)

// defaultOpTimeout bounds every backend call made through GoalStore.
const defaultOpTimeout = 5 * time.Second

// GoalStore implements streak.Store for a single goal. Its history and
// scalars live under "goal/<id>/...", so a replaced goal's data stays where
// it was and never leaks into the new one.
type GoalStore struct {
	kv      KV
	goalID  string
	loc     *time.Location
	log     *log.Logger
	ctx     context.Context
	timeout time.Duration
}

var _ streak.Store = (*GoalStore)(nil)

// GoalStoreOption configures a GoalStore.
type GoalStoreOption func(*GoalStore)

// WithStoreLocation sets the zone used to encode day keys. It must match the
// engine's.
func WithStoreLocation(loc *time.Location) GoalStoreOption {
	return func(s *GoalStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithStoreLogger sets where load and save problems are reported.
func WithStoreLogger(l *log.Logger) GoalStoreOption {
	return func(s *GoalStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStoreContext sets the parent context for backend calls.
func WithStoreContext(ctx context.Context) GoalStoreOption {
	return func(s *GoalStore) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// NewGoalStore returns a store for goalID backed by kv.
func NewGoalStore(kv KV, goalID string, opts ...GoalStoreOption) *GoalStore {
	s := &GoalStore{
		kv:      kv,
		goalID:  goalID,
		loc:     time.Local,
		log:     log.New(io.Discard),
		ctx:     context.Background(),
		timeout: defaultOpTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadHistory implements streak.Store. Missing or unreadable data yields an
// empty history.
func (s *GoalStore) LoadHistory() streak.History {
	data, ok := s.load(historyKey(s.goalID))
	if !ok {
		return streak.History{}
	}
	h, err := streak.DecodeHistory(data, s.loc)
	if err != nil {
		s.log.Warn("ignoring unreadable history", "goal", s.goalID, "err", err)
		return streak.History{}
	}
	return h
}

// LoadScalars implements streak.Store. Missing or unreadable data yields
// zero values.
func (s *GoalStore) LoadScalars() streak.Scalars {
	data, ok := s.load(scalarsKey(s.goalID))
	if !ok {
		return streak.Scalars{}
	}
	sc, err := streak.DecodeScalars(data)
	if err != nil {
		s.log.Warn("ignoring unreadable scalars", "goal", s.goalID, "err", err)
		return streak.Scalars{}
	}
	return sc
}

// SaveHistory implements streak.Store.
func (s *GoalStore) SaveHistory(h streak.History) error {
	data, err := streak.EncodeHistory(h, s.loc)
	if err != nil {
		return err
	}
	return s.save(historyKey(s.goalID), data)
}

// SaveScalars implements streak.Store.
func (s *GoalStore) SaveScalars(sc streak.Scalars) error {
	data, err := streak.EncodeScalars(sc)
	if err != nil {
		return err
	}
	return s.save(scalarsKey(s.goalID), data)
}

func (s *GoalStore) load(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("load failed", "key", key, "err", err)
		return nil, false
	}
	return data, ok
}

func (s *GoalStore) save(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save goal %s: %w", s.goalID, err)
	}
	return nil
}
