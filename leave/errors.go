/*
errors.go - Error taxonomy for the leave engine

ERROR CATEGORIES:
  1. Validation    - malformed or missing input, nothing persisted
  2. Conflict      - overlapping active leave for the same user
  3. Immutability  - the leave's window has fully elapsed
  4. Not found     - unknown leave or holiday id
  5. Transition    - status change not allowed from the current status

Dependent-write failures (holiday auto-selection) are NOT errors. They are
reported as Warnings on the operation Result; see service.go.

USAGE:
  if errors.Is(err, leave.ErrConflict) { ... }

  var ce *leave.ConflictError
  if errors.As(err, &ce) {
      fmt.Println(ce.Existing.Status)
  }
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/warp/leavedesk/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("overlapping leave exists")
	ErrImmutable         = errors.New("leave window has elapsed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError carries the active request that blocks the new range.
type ConflictError struct {
	Existing Request
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlaps %s leave %s %s",
		e.Existing.Status, e.Existing.ID, e.Existing.Range())
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ImmutabilityError is returned when cancelling or editing elapsed leave.
type ImmutabilityError struct {
	LeaveID string
	End     calendar.Date
}

func (e *ImmutabilityError) Error() string {
	return "past leave cannot be modified"
}

func (e *ImmutabilityError) Unwrap() error { return ErrImmutable }

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "leave", "holiday", "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TransitionError reports an action that is not allowed from a status.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s leave", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the caller's input or
// the current state of the leave, not an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrImmutable) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
