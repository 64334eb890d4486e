// Package daterange computes the canonical filter-bar date ranges and maps
// stored ranges back to their display labels.
//
// Preset recognition works by exact millisecond instant equality: a range is
// labeled 本月 only if its boundaries are byte-for-byte the ones Resolve
// would produce for the same "now". Any drift in truncation between
// range-construction time and label-rendering time drops the range through
// to the day-count label. That brittleness is a deliberate property of the
// design, not a bug to paper over.
package daterange

import (
	"fmt"
	"time"
)

type Preset string

const (
	Today        Preset = "today"
	ThisWeek     Preset = "week"
	ThisMonth    Preset = "month"
	LastTwoWeeks Preset = "twoweeks"
	ThisYear     Preset = "year"
	All          Preset = "all"
)

// UnsetLabel is shown when no range constraint is active.
const UnsetLabel = "日期"

var presets = map[Preset]bool{
	Today: true, ThisWeek: true, ThisMonth: true,
	LastTwoWeeks: true, ThisYear: true, All: true,
}

func (p Preset) Valid() bool {
	return presets[p]
}

// Range is an inclusive [Start, End] instant pair. A zero Start or End means
// that side is unbounded; the zero Range is "all" (no constraint).
type Range struct {
	Start time.Time
	End   time.Time
}

// Unbounded reports whether the range constrains nothing.
func (r Range) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls within the range, bounds inclusive.
// A range with either side unbounded matches everything.
func (r Range) Contains(t time.Time) bool {
	if r.Start.IsZero() || r.End.IsZero() {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartOfDay truncates t to 00:00:00.000 in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay ceils t to 23:59:59.999 in its own location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// Resolve computes the concrete boundaries of a preset for the given "now".
// End is always now ceiled to end-of-day; Start depends on the preset.
func Resolve(p Preset, now time.Time) Range {
	end := EndOfDay(now)
	switch p {
	case Today:
		return Range{Start: StartOfDay(now), End: end}
	case ThisWeek:
		return Range{Start: weekStart(now), End: end}
	case ThisMonth:
		return Range{Start: monthStart(now), End: end}
	case LastTwoWeeks:
		return Range{Start: StartOfDay(now.AddDate(0, 0, -13)), End: end}
	case ThisYear:
		return Range{Start: yearStart(now), End: end}
	default:
		return Range{}
	}
}

// NewCustom builds a range from two calendar taps. Out-of-order taps are
// swapped; the start is floored and the end ceiled in UTC-day terms to stay
// aligned with the calendar widget's day keys.
func NewCustom(a, b time.Time) Range {
	if b.Before(a) {
		a, b = b, a
	}
	au, bu := a.UTC(), b.UTC()
	return Range{
		Start: time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(bu.Year(), bu.Month(), bu.Day(), 23, 59, 59, 999000000, time.UTC),
	}
}

// Label classifies a stored range back into its display label, testing the
// presets in priority order and falling back to an inclusive day count.
// "now" must be truncated identically to the one the range was built from
// for a preset to be recognized.
func (r Range) Label(now time.Time) string {
	if r.Start.IsZero() || r.End.IsZero() {
		return UnsetLabel
	}

	end := EndOfDay(now)

	if r.Start.Equal(monthStart(now)) && r.End.Equal(end) {
		return "本月"
	}

	if label, ok := wholeMonthLabel(r, now); ok {
		return label
	}

	if r.Start.Equal(weekStart(now)) && r.End.Equal(end) {
		return "本周"
	}
	if r.Start.Equal(StartOfDay(now)) && r.End.Equal(end) {
		return "今天"
	}
	if r.Start.Equal(StartOfDay(now.AddDate(0, 0, -13))) && r.End.Equal(end) {
		return "近两周"
	}
	if r.Start.Equal(yearStart(now)) && r.End.Equal(end) {
		return "今年"
	}

	days := int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
	return fmt.Sprintf("%d天", days)
}

// wholeMonthLabel recognizes a range spanning exactly one calendar month:
// N月 within the current year, YY年N月 otherwise.
func wholeMonthLabel(r Range, now time.Time) (string, bool) {
	s, e := r.Start, r.End
	if s.Day() != 1 || s.Month() != e.Month() || s.Year() != e.Year() {
		return "", false
	}
	if e.Day() != daysInMonth(e.Year(), e.Month()) {
		return "", false
	}
	if s.Year() == now.Year() {
		return fmt.Sprintf("%d月", int(s.Month())), true
	}
	return fmt.Sprintf("%02d年%d月", s.Year()%100, int(s.Month())), true
}

func weekStart(now time.Time) time.Time {
	// Weeks start on Monday; Sunday reaches back six days.
	back := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		back = 6
	}
	return StartOfDay(now.AddDate(0, 0, -back))
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func yearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
