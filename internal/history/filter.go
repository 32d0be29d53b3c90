// ABOUTME: Time-range filtering and display ordering for mood history views.
// ABOUTME: Provides day/week/month windows, newest-first sorting, and per-type summaries.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2389-research/mood/internal/models"
)

// TimeRange selects the trailing window of a history view.
type TimeRange int

const (
	RangeDay TimeRange = iota
	RangeWeek
	RangeMonth
)

// AllRanges lists the selectable ranges in tab order.
var AllRanges = []TimeRange{RangeDay, RangeWeek, RangeMonth}

// ParseTimeRange parses "day", "week" or "month".
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return RangeDay, nil
	case "week":
		return RangeWeek, nil
	case "month":
		return RangeMonth, nil
	}
	return 0, fmt.Errorf("unknown time range %q (expected day, week or month)", s)
}

func (r TimeRange) String() string {
	switch r {
	case RangeDay:
		return "day"
	case RangeWeek:
		return "week"
	case RangeMonth:
		return "month"
	}
	return fmt.Sprintf("TimeRange(%d)", int(r))
}

// Title returns the tab label for the range.
func (r TimeRange) Title() string {
	switch r {
	case RangeDay:
		return "Day"
	case RangeWeek:
		return "Week"
	case RangeMonth:
		return "Month"
	}
	return r.String()
}

// Contains reports whether ts falls inside the range ending at now.
// Day compares calendar dates in now's location; week and month are
// trailing windows with no upper bound.
func (r TimeRange) Contains(ts, now time.Time) bool {
	switch r {
	case RangeDay:
		return sameDay(ts.In(now.Location()), now)
	case RangeWeek:
		return !ts.Before(now.AddDate(0, 0, -7))
	case RangeMonth:
		return !ts.Before(monthsBefore(now, 1))
	}
	return false
}

// Filter returns the entries inside the range, preserving input order.
func Filter(entries []models.MoodEntry, r TimeRange, now time.Time) []models.MoodEntry {
	out := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Timestamp, now) {
			out = append(out, e)
		}
	}
	return out
}

// SortForDisplay returns a new slice ordered most recent first.
func SortForDisplay(entries []models.MoodEntry) []models.MoodEntry {
	out := make([]models.MoodEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// View filters by range and sorts for display.
func View(entries []models.MoodEntry, r TimeRange, now time.Time) []models.MoodEntry {
	return SortForDisplay(Filter(entries, r, now))
}

// EntryAt returns the entry at a visible row of a view. Callers delete the
// returned entry by identity; the index never addresses the store's list.
func EntryAt(view []models.MoodEntry, index int) (models.MoodEntry, bool) {
	if index < 0 || index >= len(view) {
		return models.MoodEntry{}, false
	}
	return view[index], true
}

// Summary aggregates a set of entries for charts and footers.
type Summary struct {
	Total        int
	Counts       map[models.MoodType]int
	AverageScore float64
}

// Summarize counts entries per type and averages their chart scores.
func Summarize(entries []models.MoodEntry) Summary {
	s := Summary{Counts: make(map[models.MoodType]int)}
	var total float64
	for _, e := range entries {
		s.Counts[e.Type]++
		total += e.Type.Score()
	}
	s.Total = len(entries)
	if s.Total > 0 {
		s.AverageScore = total / float64(s.Total)
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// monthsBefore steps back n calendar months, clamping the day to the end of
// the target month (March 31 minus one month is February 28 or 29).
func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
