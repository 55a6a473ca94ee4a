// Package notify turns leave lifecycle events into in-app notifications and
// emails.
//
// Routing: approve and reject go to the requester. Every other action goes
// to management (all managers except the actor, plus the management mailbox
// when one is configured). In-app rows are the record of delivery; email is
// best-effort and only logged on failure.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/warp/leavedesk/leave"
)

// Recipient is a user that can receive notifications.
type Recipient struct {
	ID    string
	Name  string
	Email string
}

// Notification is one in-app inbox row.
type Notification struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	LeaveID   string       `json:"leave_id"`
	Action    leave.Action `json:"action"`
	Message   string       `json:"message"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"created_at"`
}

// Directory resolves recipients.
type Directory interface {
	// Recipient returns (nil, nil) for unknown users.
	Recipient(ctx context.Context, userID string) (*Recipient, error)
	Managers(ctx context.Context) ([]Recipient, error)
}

// Inbox stores in-app notifications.
type Inbox interface {
	AddNotification(ctx context.Context, n Notification) error
}

// Dispatcher implements leave.Notifier.
type Dispatcher struct {
	Inbox     Inbox
	Directory Directory
	Mailer    Mailer
	// From is the sender address of outgoing mail.
	From string
	// ManagementEmail additionally receives every management notification.
	ManagementEmail string
	Logger          *slog.Logger
	Now             func() time.Time
	NewID           func() string
}

var _ leave.Notifier = (*Dispatcher)(nil)

// NewDispatcher returns a Dispatcher. A nil mailer disables email.
func NewDispatcher(inbox Inbox, dir Directory, mailer Mailer, logger *slog.Logger) *Dispatcher {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Inbox:     inbox,
		Directory: dir,
		Mailer:    mailer,
		From:      "no-reply@leavedesk.local",
		Logger:    logger,
		Now:       time.Now,
		NewID:     func() string { return uuid.NewString() },
	}
}

// ToRequester reports whether an action is addressed to the requester rather
// than management.
func ToRequester(a leave.Action) bool {
	return a == leave.ActionApprove || a == leave.ActionReject
}

// Notify delivers e. Only in-app write failures are returned.
func (d *Dispatcher) Notify(ctx context.Context, e leave.Event) error {
	recipients, err := d.recipients(ctx, e)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients: %w", err)
	}

	subject, body := Subject(e), Message(e)
	now := d.Now()

	var errs []error
	for _, r := range recipients {
		n := Notification{
			ID:        d.NewID(),
			UserID:    r.ID,
			LeaveID:   e.LeaveID,
			Action:    e.Action,
			Message:   body,
			CreatedAt: now,
		}
		if err := d.Inbox.AddNotification(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		d.send(ctx, r.Email, subject, body)
	}

	if !ToRequester(e.Action) && d.ManagementEmail != "" {
		d.send(ctx, d.ManagementEmail, subject, body)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) recipients(ctx context.Context, e leave.Event) ([]Recipient, error) {
	if ToRequester(e.Action) {
		r, err := d.Directory.Recipient(ctx, e.UserID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			// Unknown to the directory: in-app only.
			r = &Recipient{ID: e.UserID}
		}
		return []Recipient{*r}, nil
	}

	managers, err := d.Directory.Managers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Recipient, 0, len(managers))
	for _, m := range managers {
		if m.ID != e.ActorID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := d.Mailer.Send(ctx, d.From, to, subject, body); err != nil {
		d.Logger.Warn("notification email send failed", "to", to, "err", err)
	}
}

// Subject is the email subject line for e.
func Subject(e leave.Event) string {
	switch e.Action {
	case leave.ActionSubmit:
		return "New leave request"
	case leave.ActionEdit:
		return "Leave request changed"
	case leave.ActionApprove:
		return "Leave request approved"
	case leave.ActionReject:
		return "Leave request rejected"
	case leave.ActionCancel:
		return "Leave request cancelled"
	case leave.ActionWithdraw:
		return "Leave request withdrawn"
	}
	return "Leave request update"
}

// Message is the notification body for e.
func Message(e leave.Event) string {
	switch {
	case e.From == "":
		return fmt.Sprintf("Leave %s for %s was submitted (%s).", e.LeaveID, e.UserID, e.To)
	case e.To == "":
		return fmt.Sprintf("Leave %s for %s was withdrawn (was %s).", e.LeaveID, e.UserID, e.From)
	}
	return fmt.Sprintf("Leave %s for %s: %s -> %s by %s.", e.LeaveID, e.UserID, e.From, e.To, e.ActorID)
}
