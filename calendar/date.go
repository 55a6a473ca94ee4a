/*
Package calendar provides the date arithmetic the leave engine is built on.

PURPOSE:
  Leave is booked in whole calendar days. This package gives those days a
  concrete type (Date), an inclusive range type (Range), and the working-day
  arithmetic used to charge a range against a balance.

KEY CONCEPTS:
  - Date:            A calendar day with no time-of-day component
  - Range:           Inclusive [Start, End] span of days
  - HolidayCalendar: Lookup of non-working holiday dates
  - Quarter:         Calendar quarter (1-4) used by quarterly accounting

WORKING DAYS:
  A day is a working day when it is not Saturday/Sunday and the holiday
  calendar does not list it.

    r := calendar.NewRange(calendar.NewDate(2025, 6, 2), calendar.NewDate(2025, 6, 8))
    cost := calendar.WorkingDays(r, holidays)

SEE ALSO:
  - range.go: Range, overlap test, quarter helpers
  - leave/balance.go: Consumes WorkingDays for balance accounting
*/
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - A calendar day
// =============================================================================

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	t time.Time
}

// NewDate returns the date for year/month/day. Out-of-range values normalize
// the way time.Date does (e.g. Feb 30 becomes Mar 1/2).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals in tests and seed data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.t.After(o.t) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.t.Before(o.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Quarter returns the calendar quarter (1-4) containing d.
func (d Date) Quarter() int { return (int(d.t.Month())-1)/3 + 1 }

// StartOfDay returns midnight of d in loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string { return d.t.Format(DateLayout) }

// DaysBetween returns to - from in whole calendar days (negative when to is earlier).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// StartOfYear and EndOfYear bound a calendar year.
func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar reports whether a date is a non-working holiday.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// HolidaySet is a HolidayCalendar backed by a set of dates.
type HolidaySet map[Date]struct{}

// NewHolidaySet builds a set from the given dates.
func NewHolidaySet(dates ...Date) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s HolidaySet) IsHoliday(d Date) bool {
	_, ok := s[d]
	return ok
}

// IsWorkday reports whether d is neither a weekend day nor a holiday.
// A nil calendar means no holidays.
func IsWorkday(d Date, holidays HolidayCalendar) bool {
	if d.IsWeekend() {
		return false
	}
	if holidays != nil && holidays.IsHoliday(d) {
		return false
	}
	return true
}
