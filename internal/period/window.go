// Package period computes calendar month windows used for lease overlap and
// transaction scoping.
package period

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// MonthKeyLayout formats a month as used in cache keys and CLI flags.
const MonthKeyLayout = "2006-01"

// Window is a closed interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the window from the first instant of date's month to
// the last instant of the same month, in date's location.
func MonthWindow(date time.Time) Window {
	n := now.With(date)
	return Window{
		Start: n.BeginningOfMonth(),
		End:   n.EndOfMonth(),
	}
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether [start, end] intersects the window, bounds included.
func (w Window) Overlaps(start, end time.Time) bool {
	return !start.After(w.End) && !end.Before(w.Start)
}

// Key returns the month key of the window.
func (w Window) Key() string {
	return MonthKey(w.Start)
}

// MonthKey formats the month of t as "2006-01".
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonth parses a "2006-01" month key into the first day of that month in UTC.
func ParseMonth(key string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", key, err)
	}
	return t, nil
}

// MonthsOfYear returns the first day of each month of year, in UTC.
func MonthsOfYear(year int) []time.Time {
	months := make([]time.Time, 12)
	for i := range months {
		months[i] = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return months
}
