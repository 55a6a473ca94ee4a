package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the fixed annual leave policy. It is passed into every
// accounting call instead of being read from package globals.
type Policy struct {
	AnnualAllocation    int // days per year
	QuarterlyAllocation int // days per quarter
	CarryForwardCap     int // max days rolled into the next quarter
	HolidaySoftCap      int // advisory number of holiday selections
	MaxRangeDays        int // longest request, in calendar days

	// Sick fast path: start must be within [SickWindowMin, SickWindowMax]
	// calendar days from today.
	SickWindowMin int
	SickWindowMax int

	// A request created less than this before its start-of-day is last-minute.
	LastMinuteThreshold time.Duration

	Reliability ReliabilityWeights
}

// ReliabilityWeights parameterize the informational reliability score.
type ReliabilityWeights struct {
	LastMinuteWeight decimal.Decimal // points removed at a 100% last-minute ratio
	RejectionWeight  decimal.Decimal // points removed at a 100% rejection ratio
	ReferenceDays    int             // allowance before the excess penalty applies
	ExcessPerDay     decimal.Decimal // points removed per day beyond ReferenceDays
}

// DefaultPolicy returns the organization policy: 24 days/year, 6/quarter,
// carry-forward capped at 2, 10 discretionary holidays.
func DefaultPolicy() Policy {
	return Policy{
		AnnualAllocation:    24,
		QuarterlyAllocation: 6,
		CarryForwardCap:     2,
		HolidaySoftCap:      10,
		MaxRangeDays:        366,
		SickWindowMin:       0,
		SickWindowMax:       1,
		LastMinuteThreshold: 24 * time.Hour,
		Reliability: ReliabilityWeights{
			LastMinuteWeight: decimal.NewFromInt(30),
			RejectionWeight:  decimal.NewFromInt(20),
			ReferenceDays:    20,
			ExcessPerDay:     decimal.NewFromInt(2),
		},
	}
}
