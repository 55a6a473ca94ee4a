/*
Package leave implements the leave lifecycle and balance accounting engine.

PURPOSE:
  Decides what a leave request is (sick vs planned), which status it gets,
  whether it collides with the requester's other leave, how much balance
  remains, how quarterly allowance carries forward, and which record wins
  when a calendar day is covered more than once.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request:          One continuous, inclusive date range booked by one user
  - Status:           pending | approved | rejected | cancelled
  - Classification:   sick (auto-approved fast path) | planned
  - PublicHoliday:    Organization-wide holiday (public | optional)
  - HolidaySelection: A user's opt-in to one public holiday

CONTROL FLOW:
  Create/Edit:  Classify ──▶ FindOverlap ──▶ Lifecycle ──▶ Store ──▶ Holiday auto-select
  Read:         Store snapshot ──▶ ComputeLedger / Resolve (pure, never cached)

SEE ALSO:
  - classify.go:  Sick fast-path rule
  - conflict.go:  Overlap detection
  - dedupe.go:    Display-time duplicate resolution
  - balance.go:   Annual and quarterly accounting
  - lifecycle.go: Status transitions
  - service.go:   Orchestration against the Store port
*/
package leave

import (
	"time"

	"github.com/warp/leavedesk/calendar"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Active reports whether a request with this status blocks overlapping requests.
func (s Status) Active() bool {
	return s != StatusRejected && s != StatusCancelled
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// priority orders statuses for duplicate resolution, highest wins.
func (s Status) priority() int {
	switch s {
	case StatusApproved:
		return 4
	case StatusPending:
		return 3
	case StatusRejected:
		return 2
	case StatusCancelled:
		return 1
	}
	return 0
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Classification string

const (
	ClassSick    Classification = "sick"
	ClassPlanned Classification = "planned"
)

// InitialStatus is the status a freshly created or edited request receives.
func (c Classification) InitialStatus() Status {
	if c == ClassSick {
		return StatusApproved
	}
	return StatusPending
}

// =============================================================================
// REQUEST
// =============================================================================

// Request represents one continuous date range requested by one user.
type Request struct {
	ID             string
	UserID         string
	Start          calendar.Date
	End            calendar.Date
	Reason         string
	Classification Classification
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Range returns the inclusive date range of the request.
func (r Request) Range() calendar.Range {
	return calendar.NewRange(r.Start, r.End)
}

// Elapsed reports whether the request's last day is before today.
func (r Request) Elapsed(today calendar.Date) bool {
	return r.End.Before(today)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayKind string

const (
	HolidayPublic   HolidayKind = "public"
	HolidayOptional HolidayKind = "optional"
)

// Valid reports whether k is a known kind.
func (k HolidayKind) Valid() bool {
	return k == HolidayPublic || k == HolidayOptional
}

// PublicHoliday is a named, dated, organization-wide non-working day.
type PublicHoliday struct {
	ID   string
	Name string
	Date calendar.Date
	Kind HolidayKind
}

// HolidaySelection links a user to one PublicHoliday.
type HolidaySelection struct {
	UserID    string
	HolidayID string
}

// PublicCalendar returns the set of dates of holidays of kind public.
// Optional holidays do not reduce working-day cost.
func PublicCalendar(holidays []PublicHoliday) calendar.HolidaySet {
	set := make(calendar.HolidaySet)
	for _, h := range holidays {
		if h.Kind == HolidayPublic {
			set[h.Date] = struct{}{}
		}
	}
	return set
}
