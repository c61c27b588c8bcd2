package streak

import (
	"fmt"
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60
	dayLayout     = "2006-01-02"
)

// Day identifies a calendar day as the number of days since 1970-01-01.
// It is independent of time zone: the zone only matters when converting
// an instant to a Day (DayOf) or a Day back to its local midnight.
type Day int

// DayOf returns the calendar day that t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DayOf(t, time.UTC), nil
}

// Midnight returns the start of d in loc.
func (d Day) Midnight(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, dd := time.Unix(int64(d)*secondsPerDay, 0).UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

// AddDays returns the day n days after d.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// Weekday reports the day of the week for d.
func (d Day) Weekday() time.Weekday {
	return d.Midnight(time.UTC).Weekday()
}

func (d Day) String() string {
	return d.Midnight(time.UTC).Format(dayLayout)
}
