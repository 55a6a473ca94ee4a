/*
lifecycle.go - Leave status state machine

STATES:
  pending, approved, rejected, cancelled

TRANSITIONS:
  ┌──────────────────────────────────────────────────────────────────┐
  │  submit ──▶ pending (planned)  |  approved (sick fast path)      │
  │                                                                  │
  │  pending ──approve──▶ approved          (manager)                │
  │  pending ──reject───▶ rejected          (manager)                │
  │  pending|approved ──cancel──▶ cancelled (requester, not elapsed) │
  │  any but cancelled ──edit──▶ initial status of new class         │
  │  any ──withdraw──▶ (deleted)            (start still in future)  │
  └──────────────────────────────────────────────────────────────────┘

EDIT RESETS STATUS:
  Editing re-runs Classify and resets the status to the new classification's
  initial status. An approved planned leave that is edited goes back to
  pending; an edit that moves a sick-labeled leave into the [today, tomorrow]
  window makes it approved.

IMMUTABILITY:
  Once a request's end date is before today it cannot be cancelled or edited.
  Only requests that have not started yet can be withdrawn (deleted).
*/
package leave

import (
	"time"

	"github.com/warp/leavedesk/calendar"
)

// Action names a lifecycle operation.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionEdit     Action = "edit"
	ActionWithdraw Action = "withdraw"
)

// Event describes a lifecycle transition for the notification collaborator.
// To is empty for a withdrawn (deleted) request; From is empty on submit.
type Event struct {
	LeaveID string
	UserID  string
	From    Status
	To      Status
	Action  Action
	ActorID string
	At      time.Time
}

// Next validates a status-only action (approve, reject, cancel) against r and
// returns the resulting status.
func Next(r Request, action Action, today calendar.Date) (Status, error) {
	switch action {
	case ActionApprove:
		if r.Status != StatusPending {
			return "", &TransitionError{From: r.Status, Action: action}
		}
		return StatusApproved, nil

	case ActionReject:
		if r.Status != StatusPending {
			return "", &TransitionError{From: r.Status, Action: action}
		}
		return StatusRejected, nil

	case ActionCancel:
		if r.Elapsed(today) {
			return "", &ImmutabilityError{LeaveID: r.ID, End: r.End}
		}
		if r.Status != StatusPending && r.Status != StatusApproved {
			return "", &TransitionError{From: r.Status, Action: action}
		}
		return StatusCancelled, nil
	}
	return "", &TransitionError{From: r.Status, Action: action}
}

// Reclassify validates an edit of r to newStart and returns the classification
// and status the edited request receives.
func Reclassify(p Policy, r Request, newStart calendar.Date, sickLabeled bool, today calendar.Date) (Classification, Status, error) {
	if r.Elapsed(today) {
		return "", "", &ImmutabilityError{LeaveID: r.ID, End: r.End}
	}
	if r.Status == StatusCancelled {
		return "", "", &TransitionError{From: r.Status, Action: ActionEdit}
	}
	c := Classify(p, newStart, sickLabeled, today)
	return c, c.InitialStatus(), nil
}

// CanWithdraw returns an ImmutabilityError unless r has not started yet.
func CanWithdraw(r Request, today calendar.Date) error {
	if !r.Start.After(today) {
		return &ImmutabilityError{LeaveID: r.ID, End: r.End}
	}
	return nil
}
