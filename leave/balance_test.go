package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leavedesk/leave"
)

func remainingByQuarter(l leave.Ledger) []int {
	out := make([]int, 4)
	for i, q := range l.Quarters {
		out[i] = q.Remaining
	}
	return out
}

func carryByQuarter(l leave.Ledger) []int {
	out := make([]int, 4)
	for i, q := range l.Quarters {
		out[i] = q.CarryForward
	}
	return out
}

// =============================================================================
// LEDGER
// =============================================================================

func TestComputeLedger_NoLeaveCarriesCapEachQuarter(t *testing.T) {
	l := leave.ComputeLedger(leave.DefaultPolicy(), 2025, nil, nil)

	assert.Equal(t, []int{0, 2, 2, 2}, carryByQuarter(l))
	assert.Equal(t, []int{6, 8, 8, 8}, remainingByQuarter(l))
	assert.Equal(t, 24, l.Remaining)
	assert.Equal(t, "Q1", l.Quarters[0].Name)
}

func TestComputeLedger_CrossQuarterRequestChargedToStartQuarter(t *testing.T) {
	// GIVEN: Fri Mar 28 - Wed Apr 2, 4 working days
	requests := []leave.Request{req("a", "u1", "2025-03-28", "2025-04-02", leave.StatusApproved)}

	// WHEN
	l := leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, nil)

	// THEN: all four days land in Q1
	assert.Equal(t, 4, l.Quarters[0].Taken)
	assert.Equal(t, 0, l.Quarters[1].Taken)
	assert.Equal(t, []int{2, 8, 8, 8}, remainingByQuarter(l))
	assert.Equal(t, 20, l.Remaining)
}

func TestComputeLedger_OnlyApprovedCount(t *testing.T) {
	requests := []leave.Request{
		req("p", "u1", "2025-01-06", "2025-01-10", leave.StatusPending),
		req("r", "u1", "2025-02-03", "2025-02-07", leave.StatusRejected),
		req("c", "u1", "2025-05-05", "2025-05-09", leave.StatusCancelled),
		req("other-year", "u1", "2024-12-30", "2025-01-03", leave.StatusApproved),
	}

	l := leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, nil)
	assert.Equal(t, 0, l.Taken)
}

func TestComputeLedger_PublicHolidaysFreeOptionalCharged(t *testing.T) {
	// Mon Dec 22 - Fri Dec 26 with Christmas on Thursday
	requests := []leave.Request{req("a", "u1", "2025-12-22", "2025-12-26", leave.StatusApproved)}
	public := []leave.PublicHoliday{{ID: "xmas", Name: "Christmas", Date: day("2025-12-25"), Kind: leave.HolidayPublic}}
	optional := []leave.PublicHoliday{{ID: "xmas", Name: "Christmas", Date: day("2025-12-25"), Kind: leave.HolidayOptional}}

	assert.Equal(t, 4, leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, public).Taken)
	assert.Equal(t, 5, leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, optional).Taken)
}

func TestComputeLedger_OveruseIsNotFlooredAnnually(t *testing.T) {
	// Jan 6 - Feb 14: six full weeks, 30 working days
	requests := []leave.Request{req("a", "u1", "2025-01-06", "2025-02-14", leave.StatusApproved)}

	l := leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, nil)

	assert.Equal(t, 30, l.Taken)
	assert.Equal(t, -6, l.Remaining)
	assert.Equal(t, 0, l.Quarters[0].Remaining)
	assert.Equal(t, 0, l.Quarters[1].CarryForward)
	assert.Equal(t, 6, l.Quarters[1].Remaining)
}

func TestComputeLedger_CarryIsCappedAndNotCumulative(t *testing.T) {
	// Q1 takes 5 of 6: one day carries. Q2 takes nothing: 7 remain but only 2 carry.
	requests := []leave.Request{req("a", "u1", "2025-01-06", "2025-01-10", leave.StatusApproved)}

	l := leave.ComputeLedger(leave.DefaultPolicy(), 2025, requests, nil)

	assert.Equal(t, []int{0, 1, 2, 2}, carryByQuarter(l))
	assert.Equal(t, []int{1, 7, 8, 8}, remainingByQuarter(l))
}

// =============================================================================
// BALANCE
// =============================================================================

func TestComputeBalance_CurrentQuarterFigures(t *testing.T) {
	sick := req("s", "u1", "2025-06-02", "2025-06-02", leave.StatusApproved)
	sick.Classification = leave.ClassSick

	in := leave.BalanceInput{
		Year:  2025,
		Today: day("2025-06-10"),
		Requests: []leave.Request{
			req("q1", "u1", "2025-01-06", "2025-01-10", leave.StatusApproved),
			sick,
			req("p", "u1", "2025-07-07", "2025-07-08", leave.StatusPending),
			req("a", "u1", "2025-08-04", "2025-08-04", leave.StatusApproved),
			req("r", "u1", "2025-09-01", "2025-09-01", leave.StatusRejected),
		},
		Holidays: []leave.PublicHoliday{
			{ID: "h1", Date: day("2025-01-01"), Kind: leave.HolidayPublic},
			{ID: "h2", Date: day("2024-12-25"), Kind: leave.HolidayPublic},
		},
		Selections: []string{"h1", "h2", "missing"},
	}

	b := leave.ComputeBalance(leave.DefaultPolicy(), in)

	assert.Equal(t, 24, b.Allocated)
	assert.Equal(t, 7, b.Taken)
	assert.Equal(t, 17, b.Remaining)
	assert.Equal(t, 1, b.CarriedForward)
	assert.Equal(t, 6, b.QuarterlyAvailable) // 6 + 1 - 1 sick day in June
	assert.Equal(t, 1, b.SickTaken)
	assert.Equal(t, 6, b.PlannedTaken)
	assert.Equal(t, 1, b.Pending)
	assert.Equal(t, 2, b.Upcoming)
	assert.Equal(t, 10, b.HolidaysAllowed)
	assert.Equal(t, 1, b.HolidaysTaken)
}

func TestComputeBalance_PastYearUsesLastQuarter(t *testing.T) {
	b := leave.ComputeBalance(leave.DefaultPolicy(), leave.BalanceInput{Year: 2024, Today: day("2025-06-10")})
	assert.Equal(t, 8, b.QuarterlyAvailable)
	assert.Equal(t, 2, b.CarriedForward)

	b = leave.ComputeBalance(leave.DefaultPolicy(), leave.BalanceInput{Year: 2026, Today: day("2025-06-10")})
	assert.Equal(t, 6, b.QuarterlyAvailable)
	assert.Equal(t, 0, b.CarriedForward)
}

func TestComputeSummary_HolidayCapIsAdvisory(t *testing.T) {
	p := leave.DefaultPolicy()
	p.HolidaySoftCap = 1
	in := leave.BalanceInput{
		Year:  2025,
		Today: day("2025-06-10"),
		Holidays: []leave.PublicHoliday{
			{ID: "h1", Date: day("2025-01-01"), Kind: leave.HolidayOptional},
			{ID: "h2", Date: day("2025-12-25"), Kind: leave.HolidayOptional},
		},
		Selections: []string{"h1", "h2"},
	}

	s := leave.ComputeSummary(p, in)

	assert.Len(t, s.Quarters, 4)
	assert.Equal(t, 2, s.HolidaysUsed)
	assert.True(t, s.OverHolidayCap())
}

// =============================================================================
// RELIABILITY
// =============================================================================

func TestIsLastMinute(t *testing.T) {
	r := req("a", "u1", "2025-06-10", "2025-06-10", leave.StatusPending)

	r.CreatedAt = at("2025-06-09T08:00:00Z")
	assert.True(t, leave.IsLastMinute(r, 24*time.Hour))

	r.CreatedAt = at("2025-06-08T23:00:00Z")
	assert.False(t, leave.IsLastMinute(r, 24*time.Hour))
}

func TestIsLastMinute_IndependentOfCreatedAtZone(t *testing.T) {
	// GIVEN: The same instant expressed in UTC and in UTC-5
	r := req("a", "u1", "2025-06-11", "2025-06-11", leave.StatusPending)
	utc := at("2025-06-10T01:00:00Z")
	local := utc.In(time.FixedZone("EST", -5*60*60))

	// WHEN
	r.CreatedAt = utc
	fromUTC := leave.IsLastMinute(r, 24*time.Hour)
	r.CreatedAt = local
	fromLocal := leave.IsLastMinute(r, 24*time.Hour)

	// THEN: 23 hours before midnight UTC either way
	assert.True(t, fromUTC)
	assert.Equal(t, fromUTC, fromLocal)
}

func TestComputeScore_Penalties(t *testing.T) {
	// GIVEN: one same-day sick leave and one rejected request filed well ahead
	sick := req("s", "u1", "2025-06-10", "2025-06-10", leave.StatusApproved)
	sick.CreatedAt = at("2025-06-10T09:00:00Z")
	rejected := req("r", "u1", "2025-07-01", "2025-07-01", leave.StatusRejected)

	// WHEN
	s := leave.ComputeScore(leave.DefaultPolicy(), "u1", 2025, []leave.Request{sick, rejected}, nil)

	// THEN: 100 - 0.5*30 - 0.5*20
	assert.Equal(t, 2, s.TotalRequests)
	assert.Equal(t, 1, s.LastMinute)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.DaysTaken)
	assert.True(t, s.Value.Equal(decimal.NewFromInt(75)), s.Value.String())
	assert.Equal(t, "C", s.Grade)
}

func TestComputeScore_ExcessDays(t *testing.T) {
	// Jan 6 - Feb 7: 25 working days, five over the reference
	requests := []leave.Request{req("a", "u1", "2025-01-06", "2025-02-07", leave.StatusApproved)}

	s := leave.ComputeScore(leave.DefaultPolicy(), "u1", 2025, requests, nil)

	assert.Equal(t, 25, s.DaysTaken)
	assert.True(t, s.Value.Equal(decimal.NewFromInt(90)), s.Value.String())
	assert.Equal(t, "A", s.Grade)
}

func TestComputeScore_ClampedAtZero(t *testing.T) {
	p := leave.DefaultPolicy()
	p.Reliability.ExcessPerDay = decimal.NewFromInt(50)
	requests := []leave.Request{req("a", "u1", "2025-01-06", "2025-02-07", leave.StatusApproved)}

	s := leave.ComputeScore(p, "u1", 2025, requests, nil)

	assert.True(t, s.Value.IsZero())
	assert.Equal(t, "F", s.Grade)
}

func TestComputeTeamScores_Ordering(t *testing.T) {
	late := req("l", "u2", "2025-06-10", "2025-06-10", leave.StatusApproved)
	late.CreatedAt = at("2025-06-10T08:00:00Z")
	requests := []leave.Request{
		late,
		req("a", "u1", "2025-07-07", "2025-07-07", leave.StatusApproved),
		req("b", "u3", "2025-07-08", "2025-07-08", leave.StatusApproved),
		req("old", "u4", "2024-07-08", "2024-07-08", leave.StatusApproved),
	}

	scores := leave.ComputeTeamScores(leave.DefaultPolicy(), 2025, requests, nil)

	require.Len(t, scores, 3)
	assert.Equal(t, "u1", scores[0].UserID)
	assert.Equal(t, "u3", scores[1].UserID)
	assert.Equal(t, "u2", scores[2].UserID)
}
