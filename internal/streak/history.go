package streak

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Status is the recorded outcome for one day. A day without an entry in
// History is unset.
type Status string

const (
	StatusLearned Status = "learned"
	StatusFreezed Status = "freezed"
)

// Valid reports whether s is one of the known status tags.
func (s Status) Valid() bool {
	return s == StatusLearned || s == StatusFreezed
}

// UnmarshalText rejects unknown tags so a payload with foreign values is
// treated as corrupt as a whole.
func (s *Status) UnmarshalText(b []byte) error {
	v := Status(b)
	if !v.Valid() {
		return fmt.Errorf("unknown day status %q", string(b))
	}
	*s = v
	return nil
}

// History maps each recorded day to its status.
type History map[Day]Status

// Get returns the status recorded for d.
func (h History) Get(d Day) (Status, bool) {
	s, ok := h[d]
	return s, ok
}

// Count returns how many days carry status s.
func (h History) Count(s Status) int {
	n := 0
	for _, v := range h {
		if v == s {
			n++
		}
	}
	return n
}

// StreakEndingAt counts consecutive learned days walking back from d.
// Anything other than StatusLearned ends the walk, freezes included.
func (h History) StreakEndingAt(d Day) int {
	n := 0
	for h[d] == StatusLearned {
		n++
		d--
	}
	return n
}

// Days returns the recorded days in ascending order.
func (h History) Days() []Day {
	days := make([]Day, 0, len(h))
	for d := range h {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Clone returns an independent copy.
func (h History) Clone() History {
	out := make(History, len(h))
	for d, s := range h {
		out[d] = s
	}
	return out
}

// EncodeHistory serializes h as a JSON object keyed by each day's local
// midnight in epoch seconds. Keys are emitted sorted, so the output is stable.
func EncodeHistory(h History, loc *time.Location) ([]byte, error) {
	raw := make(map[string]Status, len(h))
	for d, s := range h {
		raw[strconv.FormatInt(d.Midnight(loc).Unix(), 10)] = s
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

// maxKeySeconds bounds accepted keys to roughly +/- 30000 years.
const maxKeySeconds = 1e12

// DecodeHistory parses a payload written by EncodeHistory. Keys may also be
// fractional seconds ("1729987200.0"); each is normalized to the local day
// it falls on. Keys that are not numbers, or absurdly far from the epoch,
// are skipped.
func DecodeHistory(data []byte, loc *time.Location) (History, error) {
	var raw map[string]Status
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	h := make(History, len(raw))
	for k, s := range raw {
		secs, err := strconv.ParseFloat(k, 64)
		if err != nil || math.IsNaN(secs) || math.Abs(secs) > maxKeySeconds {
			continue
		}
		h[DayOf(time.Unix(int64(math.Floor(secs)), 0), loc)] = s
	}
	return h, nil
}
