/*
balance.go - Annual and quarterly balance accounting

PURPOSE:
  Derives a user's balance for a year from the approved requests and the
  organization's public holidays. Nothing here is stored: every call
  recomputes from the source records.

COST:
  A request costs the working days in its range: weekends and public holidays
  (kind "public") are free. Optional holidays are charged.

QUARTER ATTRIBUTION:
  The whole cost of a request lands in the quarter containing its START date.
  A request spanning Mar 30 - Apr 2 is charged entirely to Q1. It is not split.

CARRY-FORWARD (strict Q1 -> Q4 fold):
  carry[Q1] = 0
  remaining[Qn] = max(0, quarterly + carry[Qn] - taken[Qn])
  carry[Qn+1] = min(cap, remaining[Qn])

  With nothing taken all year:
    carry     = [0, 2, 2, 2]
    remaining = [6, 8, 8, 8]

ANNUAL FIGURES:
  remaining = allocated - taken, NOT floored (over-use reports negative).
*/
package leave

import "github.com/warp/leavedesk/calendar"

// =============================================================================
// LEDGER - Derived quarterly accounting
// =============================================================================

// QuarterEntry is one derived row of the quarterly ledger.
type QuarterEntry struct {
	Quarter      int
	Name         string
	Allocated    int
	CarryForward int
	Taken        int
	Remaining    int
}

// Ledger is the annual and quarterly accounting for one user and year.
type Ledger struct {
	Year      int
	Allocated int
	Taken     int
	Remaining int
	Quarters  [4]QuarterEntry
}

// Cost returns the working-day cost of r given the public holiday calendar.
func Cost(r Request, holidays calendar.HolidayCalendar) int {
	return calendar.WorkingDays(r.Range(), holidays)
}

// ComputeLedger folds the approved requests starting in year into the annual
// and quarterly figures. requests should belong to a single user.
func ComputeLedger(p Policy, year int, requests []Request, holidays []PublicHoliday) Ledger {
	cal := PublicCalendar(holidays)

	var takenByQuarter [4]int
	total := 0
	for _, r := range requests {
		if !countsToward(r, year) {
			continue
		}
		c := Cost(r, cal)
		takenByQuarter[r.Start.Quarter()-1] += c
		total += c
	}

	l := Ledger{
		Year:      year,
		Allocated: p.AnnualAllocation,
		Taken:     total,
		Remaining: p.AnnualAllocation - total,
	}

	carry := 0
	for i := 0; i < 4; i++ {
		remaining := p.QuarterlyAllocation + carry - takenByQuarter[i]
		if remaining < 0 {
			remaining = 0
		}
		l.Quarters[i] = QuarterEntry{
			Quarter:      i + 1,
			Name:         calendar.QuarterName(i + 1),
			Allocated:    p.QuarterlyAllocation,
			CarryForward: carry,
			Taken:        takenByQuarter[i],
			Remaining:    remaining,
		}
		carry = min(p.CarryForwardCap, remaining)
	}
	return l
}

func countsToward(r Request, year int) bool {
	return r.Status == StatusApproved && r.Start.Year() == year
}

// =============================================================================
// BALANCE - What the balance widgets show
// =============================================================================

// Balance is the user-facing balance for a year.
type Balance struct {
	Year               int
	Allocated          int
	Taken              int
	Remaining          int
	QuarterlyAvailable int // remaining in the current quarter
	CarriedForward     int // carried into the current quarter
	SickTaken          int
	PlannedTaken       int
	HolidaysAllowed    int
	HolidaysTaken      int
	Pending            int // pending requests starting in the year
	Upcoming           int // active requests starting after today
	Quarters           [4]QuarterEntry
}

// BalanceInput is the snapshot ComputeBalance works from.
type BalanceInput struct {
	Year       int
	Today      calendar.Date
	Requests   []Request       // the user's requests
	Holidays   []PublicHoliday // all organization holidays
	Selections []string        // the user's selected holiday ids
}

// ComputeBalance derives the balance widget figures.
func ComputeBalance(p Policy, in BalanceInput) Balance {
	l := ComputeLedger(p, in.Year, in.Requests, in.Holidays)
	cal := PublicCalendar(in.Holidays)

	b := Balance{
		Year:            in.Year,
		Allocated:       l.Allocated,
		Taken:           l.Taken,
		Remaining:       l.Remaining,
		HolidaysAllowed: p.HolidaySoftCap,
		HolidaysTaken:   countSelectionsInYear(in.Selections, in.Holidays, in.Year),
		Quarters:        l.Quarters,
	}

	q := currentQuarter(in.Year, in.Today)
	b.QuarterlyAvailable = l.Quarters[q-1].Remaining
	b.CarriedForward = l.Quarters[q-1].CarryForward

	for _, r := range in.Requests {
		if r.Start.Year() != in.Year {
			continue
		}
		if r.Status == StatusApproved {
			switch r.Classification {
			case ClassSick:
				b.SickTaken += Cost(r, cal)
			default:
				b.PlannedTaken += Cost(r, cal)
			}
		}
		if r.Status == StatusPending {
			b.Pending++
		}
		if r.Status.Active() && r.Start.After(in.Today) {
			b.Upcoming++
		}
	}
	return b
}

// currentQuarter is the quarter of today for the current year, Q4 for past
// years and Q1 for future years.
func currentQuarter(year int, today calendar.Date) int {
	switch {
	case year < today.Year():
		return 4
	case year > today.Year():
		return 1
	default:
		return today.Quarter()
	}
}

func countSelectionsInYear(selections []string, holidays []PublicHoliday, year int) int {
	byID := make(map[string]PublicHoliday, len(holidays))
	for _, h := range holidays {
		byID[h.ID] = h
	}
	n := 0
	for _, id := range selections {
		if h, ok := byID[id]; ok && h.Date.Year() == year {
			n++
		}
	}
	return n
}

// =============================================================================
// YEARLY SUMMARY
// =============================================================================

// Summary backs the yearly summary view.
type Summary struct {
	Year         int
	TotalTaken   int
	Quarters     []QuarterEntry
	HolidaysUsed int
	HolidaysCap  int
}

// OverHolidayCap reports whether the advisory selection cap is exceeded.
func (s Summary) OverHolidayCap() bool { return s.HolidaysUsed > s.HolidaysCap }

// ComputeSummary derives the yearly summary.
func ComputeSummary(p Policy, in BalanceInput) Summary {
	l := ComputeLedger(p, in.Year, in.Requests, in.Holidays)
	return Summary{
		Year:         in.Year,
		TotalTaken:   l.Taken,
		Quarters:     l.Quarters[:],
		HolidaysUsed: countSelectionsInYear(in.Selections, in.Holidays, in.Year),
		HolidaysCap:  p.HolidaySoftCap,
	}
}
