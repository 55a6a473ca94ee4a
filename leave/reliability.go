package leave

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Score is the informational reliability score of one employee. It has no
// effect on lifecycle or balance.
type Score struct {
	UserID          string
	TotalRequests   int
	ApprovedLeaves  int
	LastMinute      int
	Rejected        int
	DaysTaken       int
	LastMinuteRatio decimal.Decimal
	RejectionRatio  decimal.Decimal
	Value           decimal.Decimal // clamped to [0, 100], one decimal place
	Grade           string
}

var hundred = decimal.NewFromInt(100)

// IsLastMinute reports whether r was created less than threshold before the
// start of its first day. Days start at midnight UTC, the zone calendar dates
// are kept in, so the answer does not depend on how CreatedAt was stored.
func IsLastMinute(r Request, threshold time.Duration) bool {
	startOfDay := r.Start.StartOfDay(time.UTC)
	return startOfDay.Sub(r.CreatedAt) < threshold
}

// ComputeScore scores one user's requests for a year. DaysTaken is the
// working-day cost of the approved requests starting in year.
func ComputeScore(p Policy, userID string, year int, requests []Request, holidays []PublicHoliday) Score {
	cal := PublicCalendar(holidays)
	s := Score{UserID: userID}

	for _, r := range requests {
		if r.UserID != userID || r.Start.Year() != year {
			continue
		}
		s.TotalRequests++
		switch r.Status {
		case StatusApproved:
			s.ApprovedLeaves++
			s.DaysTaken += Cost(r, cal)
		case StatusRejected:
			s.Rejected++
		}
		if IsLastMinute(r, p.LastMinuteThreshold) {
			s.LastMinute++
		}
	}

	s.LastMinuteRatio = ratio(s.LastMinute, s.TotalRequests)
	s.RejectionRatio = ratio(s.Rejected, s.TotalRequests)

	w := p.Reliability
	value := hundred.
		Sub(s.LastMinuteRatio.Mul(w.LastMinuteWeight)).
		Sub(s.RejectionRatio.Mul(w.RejectionWeight))
	if excess := s.DaysTaken - w.ReferenceDays; excess > 0 {
		value = value.Sub(w.ExcessPerDay.Mul(decimal.NewFromInt(int64(excess))))
	}
	if value.IsNegative() {
		value = decimal.Zero
	}
	if value.GreaterThan(hundred) {
		value = hundred
	}
	s.Value = value.Round(1)
	s.Grade = Grade(s.Value)
	return s
}

// Grade maps a score to a letter: >=90 A, >=80 B, >=70 C, >=60 D, else F.
func Grade(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return "A"
	case v.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return "B"
	case v.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return "C"
	case v.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return "D"
	}
	return "F"
}

// ComputeTeamScores scores every user that has requests starting in year,
// ordered by score descending then user id.
func ComputeTeamScores(p Policy, year int, requests []Request, holidays []PublicHoliday) []Score {
	users := make(map[string]bool)
	for _, r := range requests {
		if r.Start.Year() == year {
			users[r.UserID] = true
		}
	}

	scores := make([]Score, 0, len(users))
	for u := range users {
		scores = append(scores, ComputeScore(p, u, year, requests, holidays))
	}
	sort.Slice(scores, func(i, j int) bool {
		if !scores[i].Value.Equal(scores[j].Value) {
			return scores[i].Value.GreaterThan(scores[j].Value)
		}
		return scores[i].UserID < scores[j].UserID
	})
	return scores
}

func ratio(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(int64(total)))
}
