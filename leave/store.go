/*
store.go - Persistence port for leave records and holidays

PURPOSE:
  Defines the interface between the leave engine and its persistence
  collaborator. The engine only reads consistent snapshots through this port
  and writes through it; it holds no state of its own.

KEY INTERFACES:
  LeaveStore:   Leave requests (list/get/create/update/set status/delete)
  HolidayStore: Public holidays and per-user holiday selections
  Store:        Both
  TxStore:      Store that can run a read-check-write sequence atomically

CONSISTENCY:
  Two concurrent creates for the same user can both pass the overlap check
  against a stale snapshot. A store that implements TxStore closes that gap:
  Service runs the check and the write inside WithTx. Stores that do not
  implement it get read-committed semantics only.

IMPLEMENTATIONS:
  - leave/store/memory.go: In-memory for tests/dev
  - store/sqlite/sqlite.go: SQLite

NOT FOUND:
  GetLeave and GetHoliday return (nil, nil) when the record does not exist.

DELETED HOLIDAYS:
  DeleteHoliday leaves a tombstone behind. HolidayDeleted reports it, so the
  calendar seeder does not bring a removed holiday back.
*/
package leave

import (
	"context"
	"time"

	"github.com/warp/leavedesk/calendar"
)

// LeaveFilter narrows ListLeaves. Zero values mean "no filter".
type LeaveFilter struct {
	UserID string          // empty: team scope (all users)
	Year   int             // requests whose start date falls in Year
	Within *calendar.Range // requests whose range intersects Within
	On     *calendar.Date  // requests whose range contains On
	Status Status          // only this status
}

// Matches reports whether r passes the filter. Stores may use it directly.
func (f LeaveFilter) Matches(r Request) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.Year != 0 && r.Start.Year() != f.Year {
		return false
	}
	if f.Within != nil && !r.Range().Overlaps(*f.Within) {
		return false
	}
	if f.On != nil && !r.Range().Contains(*f.On) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// LeaveStore persists leave requests.
type LeaveStore interface {
	ListLeaves(ctx context.Context, filter LeaveFilter) ([]Request, error)
	GetLeave(ctx context.Context, id string) (*Request, error)
	CreateLeave(ctx context.Context, r Request) error
	UpdateLeave(ctx context.Context, r Request) error
	SetLeaveStatus(ctx context.Context, id string, status Status, at time.Time) error
	DeleteLeave(ctx context.Context, id string) error
}

// HolidayStore persists public holidays and selections.
type HolidayStore interface {
	// ListHolidays returns holidays ordered by date; kind "" means all kinds.
	ListHolidays(ctx context.Context, kind HolidayKind) ([]PublicHoliday, error)
	GetHoliday(ctx context.Context, id string) (*PublicHoliday, error)
	SaveHoliday(ctx context.Context, h PublicHoliday) error
	DeleteHoliday(ctx context.Context, id string) error
	// HolidayDeleted reports whether id was deleted at some point.
	HolidayDeleted(ctx context.Context, id string) (bool, error)

	ListHolidaySelections(ctx context.Context, userID string) ([]string, error)
	// UpsertHolidaySelection creates the pair if absent and is a no-op otherwise.
	UpsertHolidaySelection(ctx context.Context, userID, holidayID string) error
	DeleteHolidaySelection(ctx context.Context, userID, holidayID string) error
}

// Store is the full persistence port.
type Store interface {
	LeaveStore
	HolidayStore
}

// TxStore runs fn atomically. If fn returns an error the writes made through
// the Store passed to fn are rolled back.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
