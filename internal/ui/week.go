package ui

import (
	"fmt"
	"strings"
	"time"

	"journey/internal/streak"
)

const cellWidth = 5

// weekStart returns the Sunday on or before d.
func weekStart(d streak.Day) streak.Day {
	return d.AddDays(-int(d.Weekday()))
}

// statusLookup reports the status recorded for a day.
type statusLookup func(streak.Day) (streak.Status, bool)

// renderWeekStrip draws the week containing selected: weekday initials, day
// numbers (selected in brackets) and one status icon per day.
func renderWeekStrip(s *Styles, selected, today streak.Day, lookup statusLookup, loc *time.Location) string {
	start := weekStart(selected)

	var labels, numbers, icons strings.Builder
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		mid := d.Midnight(loc)

		labels.WriteString(s.DayLabelStyle.Render(center(mid.Format("Mon")[:1], cellWidth)))

		num := fmt.Sprintf("%d", mid.Day())
		switch {
		case d == selected:
			numbers.WriteString(s.DaySelectedStyle.Render(center("["+num+"]", cellWidth)))
		case d == today:
			numbers.WriteString(s.DayTodayStyle.Render(center(num, cellWidth)))
		default:
			numbers.WriteString(center(num, cellWidth))
		}

		icon := s.EmptyIcon
		if status, ok := lookup(d); ok {
			switch status {
			case streak.StatusLearned:
				icon = s.LearnedIcon
			case streak.StatusFreezed:
				icon = s.FreezedIcon
			}
		}
		// Icons are one cell wide; pad around the styled glyph.
		left := (cellWidth - 1) / 2
		icons.WriteString(strings.Repeat(" ", left) + icon + strings.Repeat(" ", cellWidth-1-left))
	}

	month := s.PaneTitleStyle.Render(selected.Midnight(loc).Format("January 2006"))
	return strings.Join([]string{
		month,
		strings.TrimRight(labels.String(), " "),
		strings.TrimRight(numbers.String(), " "),
		strings.TrimRight(icons.String(), " "),
	}, "\n")
}

// center pads s with spaces to width, biased left.
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// pluralDays returns "Day" for one and "Days" otherwise.
func pluralDays(n int) string {
	if n == 1 {
		return "Day"
	}
	return "Days"
}
