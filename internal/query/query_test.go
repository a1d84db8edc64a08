package query

import (
	"testing"
	"time"

	"github.com/user/eventify/internal/types"
)

// fixedNow is a Wednesday, 2026-09-16 12:00 local time.
var fixedNow = time.Date(2026, time.September, 16, 12, 0, 0, 0, time.Local)

func event(id, title, dateTime string) types.EventRecord {
	return types.EventRecord{
		ID:       types.EventID(id),
		Title:    title,
		DateTime: dateTime,
	}
}

func ids(events []types.EventRecord) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = string(e.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []types.EventRecord, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
}

func TestApplyDropsMalformedRecords(t *testing.T) {
	input := []types.EventRecord{
		event("empty-title", "", "2026-09-16T10:00"),
		event("bad-date", "Gala", "not-a-date"),
		event("no-date", "Gala", ""),
		event("ok", "Gala", "2026-09-16T10:00"),
	}

	got := Apply(input, FilterState{}, fixedNow)
	assertIDs(t, got, "ok")
}

func TestApplyEmptyTitleOnly(t *testing.T) {
	input := []types.EventRecord{event("a", "", "2020-01-01")}
	if got := Apply(input, FilterState{}, fixedNow); len(got) != 0 {
		t.Fatalf("expected empty result, got %d records", len(got))
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	input := []types.EventRecord{
		event("a", "Annual Gala", "2026-09-10T10:00"),
		event("b", "annual Meetup", "2026-09-11T10:00"),
		event("c", "Quarterly Review", "2026-09-12T10:00"),
	}

	var f FilterState
	f.SetSearch("ANNUAL")
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "b", "a")
}

func TestSearchTrimsBlank(t *testing.T) {
	input := []types.EventRecord{event("a", "Gala", "2026-09-10T10:00")}

	var f FilterState
	f.SetSearch("   ")
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "a")
}

func TestDateAndRangeMutuallyExclusive(t *testing.T) {
	var f FilterState

	f.SetRange(RangeToday)
	f.SetDate(time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local))
	if f.Range() != RangeNone {
		t.Error("setting a date should clear the range")
	}
	if _, ok := f.Date(); !ok {
		t.Error("expected selected date to be set")
	}

	f.SetRange(RangeLastWeek)
	if _, ok := f.Date(); ok {
		t.Error("setting a range should clear the selected date")
	}
	if f.Range() != RangeLastWeek {
		t.Errorf("expected RangeLastWeek, got %v", f.Range())
	}
}

func TestSortDescendingAndStable(t *testing.T) {
	input := []types.EventRecord{
		event("older", "A", "2026-09-01T09:00"),
		event("tie-1", "B", "2026-09-10T10:00"),
		event("newest", "C", "2026-09-15T10:00"),
		event("tie-2", "D", "2026-09-10T10:00"),
	}

	got := Apply(input, FilterState{}, fixedNow)
	assertIDs(t, got, "newest", "tie-1", "tie-2", "older")
}

func TestRangeTodayBoundaries(t *testing.T) {
	input := []types.EventRecord{
		event("late-today", "A", "2026-09-16T23:59"),
		event("midnight-tomorrow", "B", "2026-09-17T00:00"),
		event("early-today", "C", "2026-09-16T00:00"),
	}

	var f FilterState
	f.SetRange(RangeToday)
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "late-today", "early-today")
}

func TestSelectedDateMatchesCalendarDateOnly(t *testing.T) {
	input := []types.EventRecord{
		event("match", "A", "2026-09-10T22:15"),
		event("other-day", "B", "2026-09-11T22:15"),
	}

	var f FilterState
	f.SetDate(time.Date(2026, 9, 10, 8, 0, 0, 0, time.Local))
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "match")
}

func TestComputeRangesWeeks(t *testing.T) {
	r := ComputeRanges(fixedNow)

	// 2026-09-16 is a Wednesday; its week runs Mon 14th through Sun 20th.
	if got := r.CurrentWeek.Start.Day(); got != 14 {
		t.Errorf("current week start: expected day 14, got %d", got)
	}
	if got := r.CurrentWeek.End.Day(); got != 20 {
		t.Errorf("current week end: expected day 20, got %d", got)
	}
	if got := r.LastWeek.Start.Day(); got != 7 {
		t.Errorf("last week start: expected day 7, got %d", got)
	}
	if got := r.LastWeek.End.Day(); got != 13 {
		t.Errorf("last week end: expected day 13, got %d", got)
	}
}

func TestComputeRangesSundayBelongsToCurrentWeek(t *testing.T) {
	// 2026-09-20 is a Sunday; its week still starts Monday the 14th.
	sunday := time.Date(2026, time.September, 20, 9, 0, 0, 0, time.Local)
	r := ComputeRanges(sunday)
	if got := r.CurrentWeek.Start.Day(); got != 14 {
		t.Errorf("expected week start day 14, got %d", got)
	}
}

func TestRangeMonths(t *testing.T) {
	input := []types.EventRecord{
		event("this-month", "A", "2026-09-01T00:00"),
		event("end-of-month", "B", "2026-09-30T23:59"),
		event("last-month", "C", "2026-08-31T23:59"),
		event("next-month", "D", "2026-10-01T00:00"),
	}

	var f FilterState
	f.SetRange(RangeCurrentMonth)
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "end-of-month", "this-month")

	f.SetRange(RangeLastMonth)
	got = Apply(input, f, fixedNow)
	assertIDs(t, got, "last-month")
}

func TestRangeLastWeek(t *testing.T) {
	input := []types.EventRecord{
		event("last-week", "A", "2026-09-09T12:00"),
		event("this-week", "B", "2026-09-16T12:00"),
		event("two-weeks-ago", "C", "2026-09-06T12:00"),
	}

	var f FilterState
	f.SetRange(RangeLastWeek)
	got := Apply(input, f, fixedNow)
	assertIDs(t, got, "last-week")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	input := []types.EventRecord{
		event("b", "B", "2026-09-10T10:00"),
		event("a", "A", "2026-09-15T10:00"),
	}

	Apply(input, FilterState{}, fixedNow)

	if input[0].ID != "b" || input[1].ID != "a" {
		t.Error("input slice order changed")
	}
}

func TestApplyIdempotent(t *testing.T) {
	input := []types.EventRecord{
		event("a", "Gala", "2026-09-15T10:00"),
		event("b", "Gala", "2026-09-10T10:00"),
	}

	var f FilterState
	f.SetSearch("gala")
	first := Apply(input, f, fixedNow)
	second := Apply(input, f, fixedNow)
	assertIDs(t, first, "a", "b")
	assertIDs(t, second, "a", "b")
}

func TestParseRange(t *testing.T) {
	for name, want := range map[string]DateRange{
		"today":         RangeToday,
		"current-week":  RangeCurrentWeek,
		"last-week":     RangeLastWeek,
		"current-month": RangeCurrentMonth,
		"last-month":    RangeLastMonth,
	} {
		got, err := ParseRange(name)
		if err != nil {
			t.Errorf("ParseRange(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseRange(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseRange("fortnight"); err == nil {
		t.Error("expected error for unknown range")
	}
}
