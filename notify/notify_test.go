package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leavedesk/leave"
)

type fakeInbox struct {
	rows []Notification
	err  error
}

func (f *fakeInbox) AddNotification(_ context.Context, n Notification) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, n)
	return nil
}

type fakeDirectory struct {
	users    map[string]Recipient
	managers []Recipient
}

func (f *fakeDirectory) Recipient(_ context.Context, id string) (*Recipient, error) {
	r, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeDirectory) Managers(context.Context) ([]Recipient, error) {
	return f.managers, nil
}

type sentMail struct{ to, subject string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, _, to, subject, _ string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return f.err
}

func newTestDispatcher() (*Dispatcher, *fakeInbox, *fakeMailer) {
	inbox := &fakeInbox{}
	mailer := &fakeMailer{}
	dir := &fakeDirectory{
		users: map[string]Recipient{
			"emp": {ID: "emp", Name: "Emp", Email: "emp@example.com"},
		},
		managers: []Recipient{
			{ID: "m1", Name: "M1", Email: "m1@example.com"},
			{ID: "m2", Name: "M2"},
		},
	}
	d := NewDispatcher(inbox, dir, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.Now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	n := 0
	d.NewID = func() string {
		n++
		return "n" + string(rune('0'+n))
	}
	return d, inbox, mailer
}

func TestDispatcher_ApprovalGoesToRequester(t *testing.T) {
	d, inbox, mailer := newTestDispatcher()

	err := d.Notify(context.Background(), leave.Event{
		LeaveID: "l1", UserID: "emp", From: leave.StatusPending, To: leave.StatusApproved,
		Action: leave.ActionApprove, ActorID: "m1",
	})

	require.NoError(t, err)
	require.Len(t, inbox.rows, 1)
	assert.Equal(t, "emp", inbox.rows[0].UserID)
	assert.Equal(t, leave.ActionApprove, inbox.rows[0].Action)
	assert.Equal(t, []sentMail{{to: "emp@example.com", subject: "Leave request approved"}}, mailer.sent)
}

func TestDispatcher_SubmitGoesToManagement(t *testing.T) {
	d, inbox, mailer := newTestDispatcher()
	d.ManagementEmail = "hr@example.com"

	err := d.Notify(context.Background(), leave.Event{
		LeaveID: "l1", UserID: "emp", To: leave.StatusPending, Action: leave.ActionSubmit, ActorID: "emp",
	})

	require.NoError(t, err)
	require.Len(t, inbox.rows, 2)
	assert.Equal(t, "m1", inbox.rows[0].UserID)
	assert.Equal(t, "m2", inbox.rows[1].UserID)
	// m2 has no email address
	assert.Equal(t, []sentMail{
		{to: "m1@example.com", subject: "New leave request"},
		{to: "hr@example.com", subject: "New leave request"},
	}, mailer.sent)
}

func TestDispatcher_ActorIsNotNotified(t *testing.T) {
	d, inbox, _ := newTestDispatcher()

	require.NoError(t, d.Notify(context.Background(), leave.Event{
		LeaveID: "l1", UserID: "m1", To: leave.StatusPending, Action: leave.ActionSubmit, ActorID: "m1",
	}))

	require.Len(t, inbox.rows, 1)
	assert.Equal(t, "m2", inbox.rows[0].UserID)
}

func TestDispatcher_EmailFailureIsSwallowed(t *testing.T) {
	d, inbox, mailer := newTestDispatcher()
	mailer.err = errors.New("connection refused")

	err := d.Notify(context.Background(), leave.Event{
		LeaveID: "l1", UserID: "emp", From: leave.StatusPending, To: leave.StatusRejected, Action: leave.ActionReject,
	})

	assert.NoError(t, err)
	assert.Len(t, inbox.rows, 1)
}

func TestDispatcher_InboxFailureIsReturned(t *testing.T) {
	d, inbox, _ := newTestDispatcher()
	inbox.err = errors.New("disk full")

	err := d.Notify(context.Background(), leave.Event{LeaveID: "l1", UserID: "emp", Action: leave.ActionApprove})

	assert.Error(t, err)
}

func TestDispatcher_UnknownRequesterGetsInAppOnly(t *testing.T) {
	d, inbox, mailer := newTestDispatcher()

	require.NoError(t, d.Notify(context.Background(), leave.Event{LeaveID: "l1", UserID: "ghost", Action: leave.ActionApprove}))

	require.Len(t, inbox.rows, 1)
	assert.Equal(t, "ghost", inbox.rows[0].UserID)
	assert.Empty(t, mailer.sent)
}

func TestMessage(t *testing.T) {
	assert.Contains(t, Message(leave.Event{LeaveID: "l1", UserID: "u", To: leave.StatusPending}), "submitted")
	assert.Contains(t, Message(leave.Event{LeaveID: "l1", UserID: "u", From: leave.StatusApproved}), "withdrawn")
	msg := Message(leave.Event{LeaveID: "l1", UserID: "u", From: leave.StatusPending, To: leave.StatusApproved, ActorID: "m"})
	assert.True(t, strings.Contains(msg, "pending -> approved"), msg)
}

func TestNewMailer_NoHostIsNoop(t *testing.T) {
	m := NewMailer(SMTPConfig{})
	assert.IsType(t, NoopMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), "a", "b", "c", "d"))
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@x", "to@x", "Hi", "body"))
	assert.True(t, strings.HasPrefix(msg, "From: from@x\r\nTo: to@x\r\nSubject: Hi\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nbody"))
}
