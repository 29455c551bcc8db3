// Package streak derives consecutive-active-day streaks from a set of
// calendar dates.
//
// Dates are compared as calendar days, never as instants: every date is
// mapped to a day number in UTC, so a one-day step is always exactly one,
// whatever the local clock did that night.
package streak

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the persisted form of a calendar date.
const DateLayout = "2006-01-02"

// day is a count of calendar days since the Unix epoch.
type day int64

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// parseDays parses, deduplicates and sorts dates ascending.
func parseDays(dates []string) ([]day, error) {
	seen := make(map[day]bool, len(dates))
	days := make([]day, 0, len(dates))
	for _, s := range dates {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", s, err)
		}
		d := dayOf(t)
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

// Current returns the length of the run of consecutive active days ending
// at the most recent date. The run only counts if that date is today or
// yesterday relative to now; otherwise the streak is broken and 0 is
// returned.
func Current(dates []string, now time.Time) (int, error) {
	days, err := parseDays(dates)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := dayOf(now)
	latest := days[len(days)-1]
	if latest != today && latest != today-1 {
		return 0, nil
	}

	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i]-days[i-1] != 1 {
			break
		}
		streak++
	}
	return streak, nil
}

// Longest returns the length of the longest run of consecutive active days.
func Longest(dates []string) (int, error) {
	days, err := parseDays(dates)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest, nil
}
