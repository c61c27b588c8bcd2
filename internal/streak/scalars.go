package streak

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Scalars are the small values persisted next to the history.
type Scalars struct {
	// Streak caches the last computed streak for quick display. The engine
	// always recomputes it from history.
	Streak int
	// LastAction is when a day was last recorded; zero means never.
	LastAction time.Time
}

type scalarsJSON struct {
	Streak     int     `json:"streak"`
	LastAction float64 `json:"last_action"`
}

// EncodeScalars serializes s with the timestamp as epoch seconds.
func EncodeScalars(s Scalars) ([]byte, error) {
	out := scalarsJSON{Streak: s.Streak}
	if !s.LastAction.IsZero() {
		out.LastAction = float64(s.LastAction.UnixMilli()) / 1000
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode scalars: %w", err)
	}
	return data, nil
}

// DecodeScalars parses a payload written by EncodeScalars. Negative streaks
// and timestamps are clamped to zero, as are timestamps too far out to be real.
func DecodeScalars(data []byte) (Scalars, error) {
	var in scalarsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return Scalars{}, fmt.Errorf("decode scalars: %w", err)
	}

	var s Scalars
	if in.Streak > 0 {
		s.Streak = in.Streak
	}
	if in.LastAction > 0 && in.LastAction < maxKeySeconds {
		s.LastAction = time.UnixMilli(int64(math.Round(in.LastAction * 1000)))
	}
	return s, nil
}
