/*
service.go - Leave lifecycle orchestration

PURPOSE:
  Runs each lifecycle operation against the Store port:

    Create:  validate ─▶ Classify ─▶ CheckOverlap ─▶ CreateLeave ─▶ holiday auto-select
    Edit:    validate ─▶ Reclassify ─▶ CheckOverlap(excl. self) ─▶ UpdateLeave ─▶ holiday auto-select
    Approve/Reject/Cancel:  Next ─▶ SetLeaveStatus
    Withdraw:               CanWithdraw ─▶ DeleteLeave

  Every operation returns a Result carrying the transition Event for the
  notification collaborator.

PARTIAL SUCCESS:
  Holiday auto-selection and notification delivery are best-effort. Their
  failures are logged and returned as Result.Warnings; the primary operation
  still succeeds.

READS:
  Balance, Summary, Calendar and the team views are recomputed from a fresh
  snapshot on every call. Nothing is cached.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/leavedesk/calendar"
)

// Notifier receives lifecycle events (email + in-app fan-out lives behind it).
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// =============================================================================
// RESULTS
// =============================================================================

type WarningKind string

const (
	// WarningDependentWrite: a holiday auto-selection could not be written.
	WarningDependentWrite WarningKind = "dependent_write_failure"
	// WarningNotification: the notifier rejected the event.
	WarningNotification WarningKind = "notification_failure"
)

// Warning is a non-fatal problem encountered after the primary write succeeded.
type Warning struct {
	Kind      WarningKind
	HolidayID string
	Message   string
	Err       error
}

// Result is the outcome of a lifecycle operation.
type Result struct {
	Request  Request
	Event    Event
	Warnings []Warning
}

// LeaveInput is the caller-supplied part of a create or edit.
type LeaveInput struct {
	UserID string
	Start  calendar.Date
	End    calendar.Date
	Reason string
	// Sick marks the request as sick-labeled. A reason starting with "sick"
	// is treated the same way.
	Sick bool
}

func (in LeaveInput) sickLabeled() bool {
	return in.Sick || IsSickLabel(in.Reason)
}

func (in LeaveInput) validate(p Policy, requireUser bool) error {
	if requireUser && strings.TrimSpace(in.UserID) == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if in.Start.IsZero() {
		return &ValidationError{Field: "start_date", Message: "required"}
	}
	if in.End.IsZero() {
		return &ValidationError{Field: "end_date", Message: "required"}
	}
	if in.End.Before(in.Start) {
		return &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	if p.MaxRangeDays > 0 && calendar.NewRange(in.Start, in.End).Len() > p.MaxRangeDays {
		return &ValidationError{Field: "end_date", Message: fmt.Sprintf("range must not exceed %d days", p.MaxRangeDays)}
	}
	if strings.TrimSpace(in.Reason) == "" {
		return &ValidationError{Field: "reason", Message: "required"}
	}
	return nil
}

// =============================================================================
// SERVICE
// =============================================================================

// Service orchestrates the leave lifecycle. Now and NewID may be replaced in
// tests; Notifier is optional.
type Service struct {
	Store    Store
	Policy   Policy
	Notifier Notifier
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

// NewService returns a Service with the default policy, wall clock and
// random UUID ids.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Store:  store,
		Policy: DefaultPolicy(),
		Logger: logger,
		Now:    time.Now,
		NewID:  func() string { return uuid.NewString() },
	}
}

func (s *Service) today() calendar.Date { return calendar.DateOf(s.Now()) }

// atomically runs fn inside a store transaction when the store supports it.
func (s *Service) atomically(ctx context.Context, fn func(Store) error) error {
	if ts, ok := s.Store.(TxStore); ok {
		return ts.WithTx(ctx, fn)
	}
	return fn(s.Store)
}

// Get returns a leave by id.
func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	return getLeave(ctx, s.Store, id)
}

func getLeave(ctx context.Context, st Store, id string) (*Request, error) {
	r, err := st.GetLeave(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave: %w", err)
	}
	if r == nil {
		return nil, &NotFoundError{Kind: "leave", ID: id}
	}
	return r, nil
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// Create submits a new leave request.
func (s *Service) Create(ctx context.Context, in LeaveInput) (*Result, error) {
	if err := in.validate(s.Policy, true); err != nil {
		return nil, err
	}

	now := s.Now()
	class := Classify(s.Policy, in.Start, in.sickLabeled(), calendar.DateOf(now))
	req := Request{
		ID:             s.NewID(),
		UserID:         in.UserID,
		Start:          in.Start,
		End:            in.End,
		Reason:         strings.TrimSpace(in.Reason),
		Classification: class,
		Status:         class.InitialStatus(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.atomically(ctx, func(st Store) error {
		existing, err := st.ListLeaves(ctx, LeaveFilter{UserID: req.UserID})
		if err != nil {
			return fmt.Errorf("failed to list leaves: %w", err)
		}
		if err := CheckOverlap(req.Start, req.End, existing, ""); err != nil {
			return err
		}
		if err := st.CreateLeave(ctx, req); err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("leave created",
		"leave_id", req.ID, "user_id", req.UserID,
		"classification", req.Classification, "status", req.Status)

	res := &Result{
		Request: req,
		Event: Event{
			LeaveID: req.ID,
			UserID:  req.UserID,
			To:      req.Status,
			Action:  ActionSubmit,
			ActorID: req.UserID,
			At:      now,
		},
	}
	res.Warnings = append(res.Warnings, s.autoSelectHolidays(ctx, req)...)
	res.Warnings = append(res.Warnings, s.notify(ctx, res.Event)...)
	return res, nil
}

// Edit changes the dates and reason of a leave. Classification is recomputed
// and the status reset to the new classification's initial status.
func (s *Service) Edit(ctx context.Context, id, actorID string, in LeaveInput) (*Result, error) {
	if err := in.validate(s.Policy, false); err != nil {
		return nil, err
	}

	now := s.Now()
	today := calendar.DateOf(now)
	var before, after Request

	err := s.atomically(ctx, func(st Store) error {
		current, err := getLeave(ctx, st, id)
		if err != nil {
			return err
		}
		class, status, err := Reclassify(s.Policy, *current, in.Start, in.sickLabeled(), today)
		if err != nil {
			return err
		}

		existing, err := st.ListLeaves(ctx, LeaveFilter{UserID: current.UserID})
		if err != nil {
			return fmt.Errorf("failed to list leaves: %w", err)
		}
		if err := CheckOverlap(in.Start, in.End, existing, current.ID); err != nil {
			return err
		}

		before = *current
		after = *current
		after.Start = in.Start
		after.End = in.End
		after.Reason = strings.TrimSpace(in.Reason)
		after.Classification = class
		after.Status = status
		after.UpdatedAt = now
		if err := st.UpdateLeave(ctx, after); err != nil {
			return fmt.Errorf("failed to update leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("leave edited",
		"leave_id", after.ID, "user_id", after.UserID,
		"from", before.Status, "to", after.Status)

	res := &Result{
		Request: after,
		Event: Event{
			LeaveID: after.ID,
			UserID:  after.UserID,
			From:    before.Status,
			To:      after.Status,
			Action:  ActionEdit,
			ActorID: actorID,
			At:      now,
		},
	}
	res.Warnings = append(res.Warnings, s.autoSelectHolidays(ctx, after)...)
	res.Warnings = append(res.Warnings, s.notify(ctx, res.Event)...)
	return res, nil
}

// Approve moves a pending leave to approved.
func (s *Service) Approve(ctx context.Context, id, approverID string) (*Result, error) {
	return s.transition(ctx, id, approverID, ActionApprove)
}

// Reject moves a pending leave to rejected.
func (s *Service) Reject(ctx context.Context, id, approverID string) (*Result, error) {
	return s.transition(ctx, id, approverID, ActionReject)
}

// Cancel moves a pending or approved leave to cancelled. Elapsed leave
// cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id, actorID string) (*Result, error) {
	return s.transition(ctx, id, actorID, ActionCancel)
}

func (s *Service) transition(ctx context.Context, id, actorID string, action Action) (*Result, error) {
	now := s.Now()
	var before, after Request

	err := s.atomically(ctx, func(st Store) error {
		current, err := getLeave(ctx, st, id)
		if err != nil {
			return err
		}
		next, err := Next(*current, action, calendar.DateOf(now))
		if err != nil {
			return err
		}
		if err := st.SetLeaveStatus(ctx, id, next, now); err != nil {
			return fmt.Errorf("failed to set leave status: %w", err)
		}
		before = *current
		after = *current
		after.Status = next
		after.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("leave status changed",
		"leave_id", id, "action", action, "from", before.Status, "to", after.Status, "actor_id", actorID)

	res := &Result{
		Request: after,
		Event: Event{
			LeaveID: id,
			UserID:  after.UserID,
			From:    before.Status,
			To:      after.Status,
			Action:  action,
			ActorID: actorID,
			At:      now,
		},
	}
	res.Warnings = s.notify(ctx, res.Event)
	return res, nil
}

// Withdraw physically deletes a leave that has not started yet.
func (s *Service) Withdraw(ctx context.Context, id, actorID string) (*Result, error) {
	now := s.Now()
	var removed Request

	err := s.atomically(ctx, func(st Store) error {
		current, err := getLeave(ctx, st, id)
		if err != nil {
			return err
		}
		if err := CanWithdraw(*current, calendar.DateOf(now)); err != nil {
			return err
		}
		if err := st.DeleteLeave(ctx, id); err != nil {
			return fmt.Errorf("failed to delete leave: %w", err)
		}
		removed = *current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("leave withdrawn", "leave_id", id, "user_id", removed.UserID, "actor_id", actorID)

	res := &Result{
		Request: removed,
		Event: Event{
			LeaveID: id,
			UserID:  removed.UserID,
			From:    removed.Status,
			Action:  ActionWithdraw,
			ActorID: actorID,
			At:      now,
		},
	}
	res.Warnings = s.notify(ctx, res.Event)
	return res, nil
}

// autoSelectHolidays ensures a selection exists for every holiday inside the
// request's range. Failures never fail the parent operation.
func (s *Service) autoSelectHolidays(ctx context.Context, r Request) []Warning {
	holidays, err := s.Store.ListHolidays(ctx, "")
	if err != nil {
		s.Logger.Warn("holiday auto-selection skipped", "leave_id", r.ID, "user_id", r.UserID, "err", err)
		return []Warning{{Kind: WarningDependentWrite, Message: "could not load holidays", Err: err}}
	}

	var warnings []Warning
	rng := r.Range()
	for _, h := range holidays {
		if !rng.Contains(h.Date) {
			continue
		}
		if err := s.Store.UpsertHolidaySelection(ctx, r.UserID, h.ID); err != nil {
			s.Logger.Warn("holiday auto-selection failed",
				"leave_id", r.ID, "user_id", r.UserID, "holiday_id", h.ID, "err", err)
			warnings = append(warnings, Warning{
				Kind:      WarningDependentWrite,
				HolidayID: h.ID,
				Message:   "could not select holiday " + h.Name,
				Err:       err,
			})
		}
	}
	return warnings
}

func (s *Service) notify(ctx context.Context, e Event) []Warning {
	if s.Notifier == nil {
		return nil
	}
	if err := s.Notifier.Notify(ctx, e); err != nil {
		s.Logger.Warn("leave notification failed", "leave_id", e.LeaveID, "action", e.Action, "err", err)
		return []Warning{{Kind: WarningNotification, Message: "notification not delivered", Err: err}}
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// Leaves lists a user's leaves starting in year (0: all years), newest first.
func (s *Service) Leaves(ctx context.Context, userID string, year int) ([]Request, error) {
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{UserID: userID, Year: year})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Start.After(rs[j].Start) })
	return rs, nil
}

func (s *Service) balanceInput(ctx context.Context, userID string, year int) (BalanceInput, error) {
	requests, err := s.Store.ListLeaves(ctx, LeaveFilter{UserID: userID, Year: year})
	if err != nil {
		return BalanceInput{}, fmt.Errorf("failed to list leaves: %w", err)
	}
	holidays, err := s.Store.ListHolidays(ctx, "")
	if err != nil {
		return BalanceInput{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	selections, err := s.Store.ListHolidaySelections(ctx, userID)
	if err != nil {
		return BalanceInput{}, fmt.Errorf("failed to list holiday selections: %w", err)
	}
	return BalanceInput{
		Year:       year,
		Today:      s.today(),
		Requests:   requests,
		Holidays:   holidays,
		Selections: selections,
	}, nil
}

// Balance computes the balance widget figures for userID in year.
func (s *Service) Balance(ctx context.Context, userID string, year int) (Balance, error) {
	in, err := s.balanceInput(ctx, userID, year)
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(s.Policy, in), nil
}

// Summary computes the yearly summary for userID in year.
func (s *Service) Summary(ctx context.Context, userID string, year int) (Summary, error) {
	in, err := s.balanceInput(ctx, userID, year)
	if err != nil {
		return Summary{}, err
	}
	return ComputeSummary(s.Policy, in), nil
}

// Calendar returns the de-duplicated leave set for one user's calendar. A
// request spanning New Year shows in both years.
func (s *Service) Calendar(ctx context.Context, userID string, year int) ([]Request, error) {
	within := calendar.YearRange(year)
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{UserID: userID, Within: &within})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	out := Resolve(rs).Requests
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// TeamCalendar returns the de-duplicated leave set of every user that
// intersects year.
func (s *Service) TeamCalendar(ctx context.Context, year int) ([]Request, error) {
	within := calendar.YearRange(year)
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{Within: &within})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return ResolveByUser(rs), nil
}

// OnLeave returns the approved leaves covering date.
func (s *Service) OnLeave(ctx context.Context, date calendar.Date) ([]Request, error) {
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{On: &date, Status: StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return ResolveByUser(rs), nil
}

// PendingApprovals returns all pending leaves, oldest first.
func (s *Service) PendingApprovals(ctx context.Context) ([]Request, error) {
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{Status: StatusPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].CreatedAt.Before(rs[j].CreatedAt) })
	return rs, nil
}

// TeamReliability scores every user with leave starting in year.
func (s *Service) TeamReliability(ctx context.Context, year int) ([]Score, error) {
	rs, err := s.Store.ListLeaves(ctx, LeaveFilter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	holidays, err := s.Store.ListHolidays(ctx, HolidayPublic)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return ComputeTeamScores(s.Policy, year, rs, holidays), nil
}
