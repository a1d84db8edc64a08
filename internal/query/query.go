// Package query turns a raw event collection plus filter state into the
// display list. Apply is pure: same inputs, same output, input untouched.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/user/eventify/internal/types"
)

// DateRange names the five relative date windows.
type DateRange int

const (
	RangeNone DateRange = iota
	RangeToday
	RangeCurrentWeek
	RangeLastWeek
	RangeCurrentMonth
	RangeLastMonth
)

var rangeNames = map[DateRange]string{
	RangeNone:         "",
	RangeToday:        "today",
	RangeCurrentWeek:  "current-week",
	RangeLastWeek:     "last-week",
	RangeCurrentMonth: "current-month",
	RangeLastMonth:    "last-month",
}

func (r DateRange) String() string { return rangeNames[r] }

// ParseRange maps a range name to its DateRange.
func ParseRange(s string) (DateRange, error) {
	for r, name := range rangeNames {
		if name == s && name != "" {
			return r, nil
		}
	}
	return RangeNone, fmt.Errorf("unknown date range %q", s)
}

// FilterState holds the active filters. The selected date and the named
// range are mutually exclusive; setting one clears the other.
type FilterState struct {
	searchTitle  string
	selectedDate time.Time
	hasDate      bool
	dateRange    DateRange
}

func (f *FilterState) SetSearch(s string) { f.searchTitle = s }

// SetDate selects a single calendar date and clears any active range.
func (f *FilterState) SetDate(d time.Time) {
	f.selectedDate = d
	f.hasDate = true
	f.dateRange = RangeNone
}

// SetRange selects a named range and clears any selected date.
func (f *FilterState) SetRange(r DateRange) {
	f.dateRange = r
	f.hasDate = false
	f.selectedDate = time.Time{}
}

// Clear resets all filters.
func (f *FilterState) Clear() {
	*f = FilterState{}
}

func (f *FilterState) Search() string { return f.searchTitle }

func (f *FilterState) Date() (time.Time, bool) { return f.selectedDate, f.hasDate }

func (f *FilterState) Range() DateRange { return f.dateRange }

// Window is an inclusive [Start, End] instant interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Ranges holds the five relative windows, computed against a fixed "now".
// Weeks run Monday through Sunday.
type Ranges struct {
	Today        time.Time
	CurrentWeek  Window
	LastWeek     Window
	CurrentMonth Window
	LastMonth    Window
}

// ComputeRanges derives the relative windows from now, in now's location.
func ComputeRanges(now time.Time) Ranges {
	today := startOfDay(now)

	daysToMonday := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		daysToMonday = 6
	}
	weekStart := today.AddDate(0, 0, -daysToMonday)
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	return Ranges{
		Today:        today,
		CurrentWeek:  Window{Start: weekStart, End: endOfDay(weekStart.AddDate(0, 0, 6))},
		LastWeek:     Window{Start: lastWeekStart, End: endOfDay(lastWeekStart.AddDate(0, 0, 6))},
		CurrentMonth: Window{Start: monthStart, End: endOfDay(monthStart.AddDate(0, 1, -1))},
		LastMonth:    Window{Start: lastMonthStart, End: endOfDay(monthStart.AddDate(0, 0, -1))},
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Apply runs the full pipeline: drop malformed records, apply the title
// search, apply the date filter, sort by instant descending. Equal instants
// keep their input order. The input slice is never mutated.
func Apply(events []types.EventRecord, f FilterState, now time.Time) []types.EventRecord {
	type dated struct {
		rec  types.EventRecord
		when time.Time
	}

	kept := make([]dated, 0, len(events))
	for _, e := range events {
		when, ok := e.When()
		if e.Title == "" || !ok {
			continue
		}
		kept = append(kept, dated{rec: e, when: when})
	}

	if search := strings.TrimSpace(f.searchTitle); search != "" {
		needle := strings.ToLower(search)
		filtered := kept[:0]
		for _, d := range kept {
			if strings.Contains(strings.ToLower(d.rec.Title), needle) {
				filtered = append(filtered, d)
			}
		}
		kept = filtered
	}

	ranges := ComputeRanges(now)
	var match func(dated) bool
	switch {
	case f.hasDate:
		match = func(d dated) bool { return sameDate(d.when, f.selectedDate) }
	case f.dateRange == RangeToday:
		match = func(d dated) bool { return sameDate(d.when, ranges.Today) }
	case f.dateRange == RangeCurrentWeek:
		match = func(d dated) bool { return ranges.CurrentWeek.Contains(d.when) }
	case f.dateRange == RangeLastWeek:
		match = func(d dated) bool { return ranges.LastWeek.Contains(d.when) }
	case f.dateRange == RangeCurrentMonth:
		match = func(d dated) bool { return ranges.CurrentMonth.Contains(d.when) }
	case f.dateRange == RangeLastMonth:
		match = func(d dated) bool { return ranges.LastMonth.Contains(d.when) }
	}
	if match != nil {
		filtered := kept[:0]
		for _, d := range kept {
			if match(d) {
				filtered = append(filtered, d)
			}
		}
		kept = filtered
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].when.After(kept[j].when)
	})

	out := make([]types.EventRecord, len(kept))
	for i, d := range kept {
		out[i] = d.rec
	}
	return out
}
