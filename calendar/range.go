package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("invalid range: end before start")

// =============================================================================
// RANGE - Inclusive span of calendar days
// =============================================================================

// Range is the inclusive span [Start, End].
type Range struct {
	Start Date
	End   Date
}

// NewRange builds a range without validating it. Use Validate before trusting
// caller-supplied bounds.
func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

// Validate returns ErrInvalidRange when End is before Start.
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidRange)
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Contains returns true if d is within [Start, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r Range) Overlaps(o Range) bool {
	return Overlaps(r.Start, r.End, o.Start, o.End)
}

// Len returns the number of calendar days in the range.
func (r Range) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Days returns every day in the range in order.
func (r Range) Days() []Date {
	days := make([]Date, 0, r.Len())
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// Overlaps is the inclusive interval test aStart <= bEnd && aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && aEnd.AfterOrEqual(bStart)
}

// WorkingDays counts the days in r that are neither weekend days nor holidays.
func WorkingDays(r Range, holidays HolidayCalendar) int {
	n := 0
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		if IsWorkday(d, holidays) {
			n++
		}
	}
	return n
}

// =============================================================================
// QUARTERS
// =============================================================================

// QuarterRange returns the days of quarter q (1-4) in year.
func QuarterRange(year, q int) Range {
	first := time.Month((q-1)*3 + 1)
	start := NewDate(year, first, 1)
	end := NewDate(year, first+3, 1).AddDays(-1)
	return Range{Start: start, End: end}
}

// QuarterName returns "Q1".."Q4".
func QuarterName(q int) string {
	return fmt.Sprintf("Q%d", q)
}

// YearRange returns Jan 1 - Dec 31 of year.
func YearRange(year int) Range {
	return Range{Start: StartOfYear(year), End: EndOfYear(year)}
}
