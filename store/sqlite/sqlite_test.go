package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/notify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLeave(id, user, start, end string, status leave.Status) leave.Request {
	created := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)
	return leave.Request{
		ID:             id,
		UserID:         user,
		Start:          calendar.MustParseDate(start),
		End:            calendar.MustParseDate(end),
		Reason:         "trip",
		Classification: leave.ClassPlanned,
		Status:         status,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestStore_LeaveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := sampleLeave("a", "u1", "2025-07-07", "2025-07-11", leave.StatusPending)

	require.NoError(t, s.CreateLeave(ctx, want))

	got, err := s.GetLeave(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Start, got.Start)
	assert.Equal(t, want.End, got.End)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, leave.ClassPlanned, got.Classification)

	missing, err := s.GetLeave(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_LeaveUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := sampleLeave("a", "u1", "2025-07-07", "2025-07-11", leave.StatusPending)
	require.NoError(t, s.CreateLeave(ctx, r))

	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLeaveStatus(ctx, "a", leave.StatusApproved, at))

	r.Start = calendar.MustParseDate("2025-07-08")
	r.Status = leave.StatusPending
	r.Reason = "moved"
	require.NoError(t, s.UpdateLeave(ctx, r))

	got, err := s.GetLeave(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "moved", got.Reason)
	assert.Equal(t, leave.StatusPending, got.Status)
	assert.Equal(t, "2025-07-08", got.Start.String())

	assert.ErrorIs(t, s.SetLeaveStatus(ctx, "nope", leave.StatusApproved, at), leave.ErrNotFound)
	assert.ErrorIs(t, s.UpdateLeave(ctx, sampleLeave("nope", "u1", "2025-07-07", "2025-07-07", leave.StatusPending)), leave.ErrNotFound)

	require.NoError(t, s.DeleteLeave(ctx, "a"))
	got, err = s.GetLeave(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListLeavesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateLeave(ctx, sampleLeave("b", "u1", "2025-07-07", "2025-07-11", leave.StatusApproved)))
	require.NoError(t, s.CreateLeave(ctx, sampleLeave("a", "u1", "2025-03-03", "2025-03-04", leave.StatusPending)))
	require.NoError(t, s.CreateLeave(ctx, sampleLeave("c", "u2", "2025-07-10", "2025-07-10", leave.StatusApproved)))
	require.NoError(t, s.CreateLeave(ctx, sampleLeave("d", "u2", "2024-12-30", "2025-01-02", leave.StatusApproved)))

	tests := []struct {
		name   string
		filter leave.LeaveFilter
		want   []string
	}{
		{"all", leave.LeaveFilter{}, []string{"d", "a", "b", "c"}},
		{"user", leave.LeaveFilter{UserID: "u1"}, []string{"a", "b"}},
		{"year by start", leave.LeaveFilter{Year: 2024}, []string{"d"}},
		{"status", leave.LeaveFilter{Status: leave.StatusPending}, []string{"a"}},
		{"on date", leave.LeaveFilter{On: datePtr("2025-07-10")}, []string{"b", "c"}},
		{"on boundary", leave.LeaveFilter{On: datePtr("2025-01-02")}, []string{"d"}},
		{"within year", leave.LeaveFilter{Within: rangePtr(calendar.YearRange(2025))}, []string{"d", "a", "b", "c"}},
		{"within previous year", leave.LeaveFilter{Within: rangePtr(calendar.YearRange(2024))}, []string{"d"}},
		{"within and user", leave.LeaveFilter{UserID: "u1", Within: rangePtr(calendar.YearRange(2024))}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := s.ListLeaves(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, len(rs))
			for i, r := range rs {
				got[i] = r.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func datePtr(s string) *calendar.Date {
	d := calendar.MustParseDate(s)
	return &d
}

func rangePtr(r calendar.Range) *calendar.Range {
	return &r
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(st leave.Store) error {
		if err := st.CreateLeave(ctx, sampleLeave("a", "u1", "2025-07-07", "2025-07-11", leave.StatusPending)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	got, err := s.GetLeave(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.WithTx(ctx, func(st leave.Store) error {
		return st.CreateLeave(ctx, sampleLeave("a", "u1", "2025-07-07", "2025-07-11", leave.StatusPending))
	}))
	got, err = s.GetLeave(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStore_HolidaysAndSelections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	xmas := leave.PublicHoliday{ID: "x", Name: "Christmas", Date: calendar.MustParseDate("2025-12-25"), Kind: leave.HolidayPublic}
	ny := leave.PublicHoliday{ID: "n", Name: "New Year", Date: calendar.MustParseDate("2025-01-01"), Kind: leave.HolidayOptional}
	require.NoError(t, s.SaveHoliday(ctx, xmas))
	require.NoError(t, s.SaveHoliday(ctx, ny))

	all, err := s.ListHolidays(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []leave.PublicHoliday{ny, xmas}, all)

	public, err := s.ListHolidays(ctx, leave.HolidayPublic)
	require.NoError(t, err)
	assert.Equal(t, []leave.PublicHoliday{xmas}, public)

	xmas.Name = "Christmas Day"
	require.NoError(t, s.SaveHoliday(ctx, xmas))
	got, err := s.GetHoliday(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Christmas Day", got.Name)

	require.NoError(t, s.UpsertHolidaySelection(ctx, "u1", "x"))
	require.NoError(t, s.UpsertHolidaySelection(ctx, "u1", "x"))
	require.NoError(t, s.UpsertHolidaySelection(ctx, "u1", "n"))
	sel, err := s.ListHolidaySelections(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "x"}, sel)

	require.NoError(t, s.DeleteHolidaySelection(ctx, "u1", "x"))
	require.NoError(t, s.DeleteHoliday(ctx, "x"))
	sel, err = s.ListHolidaySelections(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, sel)

	gone, err := s.GetHoliday(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err := s.HolidayDeleted(ctx, "x")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.HolidayDeleted(ctx, "n")
	require.NoError(t, err)
	assert.False(t, deleted)

	// A second delete keeps the tombstone
	require.NoError(t, s.DeleteHoliday(ctx, "x"))
}

func TestStore_UsersAndRecipients(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveUser(ctx, User{ID: "u1", Name: "Zoe", Email: "zoe@example.com"}))
	require.NoError(t, s.SaveUser(ctx, User{ID: "m1", Name: "Ada", Email: "ada@example.com", Role: RoleManager}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ada", users[0].Name)
	assert.Equal(t, RoleEmployee, users[1].Role)

	r, err := s.Recipient(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &notify.Recipient{ID: "u1", Name: "Zoe", Email: "zoe@example.com"}, r)

	r, err = s.Recipient(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, r)

	managers, err := s.Managers(ctx)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "m1", managers[0].ID)
}

func TestStore_Notifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddNotification(ctx, notify.Notification{ID: "n1", UserID: "u1", LeaveID: "l1", Action: leave.ActionApprove, Message: "first", CreatedAt: base}))
	require.NoError(t, s.AddNotification(ctx, notify.Notification{ID: "n2", UserID: "u1", LeaveID: "l2", Action: leave.ActionReject, Message: "second", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.AddNotification(ctx, notify.Notification{ID: "n3", UserID: "u2", Action: leave.ActionSubmit, Message: "other", CreatedAt: base}))

	list, err := s.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	assert.Equal(t, leave.ActionReject, list[0].Action)
	assert.False(t, list[0].Read)

	require.NoError(t, s.MarkNotificationRead(ctx, "u1", "n1"))
	assert.ErrorIs(t, s.MarkNotificationRead(ctx, "u1", "n3"), leave.ErrNotFound)

	list, err = s.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, list[1].Read)
}

func TestStore_NotificationsOrderWithinSecond(t *testing.T) {
	// GIVEN: Two notifications in the same second, one on a whole second
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddNotification(ctx, notify.Notification{ID: "b", UserID: "u1", Action: leave.ActionSubmit, Message: "whole", CreatedAt: base}))
	require.NoError(t, s.AddNotification(ctx, notify.Notification{ID: "a", UserID: "u1", Action: leave.ActionApprove, Message: "half", CreatedAt: base.Add(500 * time.Millisecond)}))

	// WHEN
	list, err := s.ListNotifications(ctx, "u1")

	// THEN: Newest first, timestamps preserved
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.True(t, base.Equal(list[1].CreatedAt))
}

func TestStore_CorruptTimestampIsReported(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, action, message, created_at) VALUES ('n', 'u1', 'submit', 'x', 'yesterday')")
	require.NoError(t, err)

	_, err = s.ListNotifications(ctx, "u1")
	assert.ErrorContains(t, err, "invalid timestamp")
}

func TestStore_ConcurrentCreatesAllowOneOverlap(t *testing.T) {
	// GIVEN: Many submissions of the same range for one user at once
	s := newTestStore(t)
	ctx := context.Background()
	svc := leave.NewService(s, nil)
	svc.Now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup

	// WHEN
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, leave.LeaveInput{
				UserID: "u1",
				Start:  calendar.MustParseDate("2025-07-07"),
				End:    calendar.MustParseDate("2025-07-11"),
				Reason: "trip",
			})
		}(i)
	}
	wg.Wait()

	// THEN: Exactly one is stored, the rest conflict
	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, leave.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	rs, err := s.ListLeaves(ctx, leave.LeaveFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestStore_ServiceIntegration(t *testing.T) {
	// GIVEN: the service running against SQLite
	s := newTestStore(t)
	ctx := context.Background()
	svc := leave.NewService(s, nil)
	svc.Now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, s.SaveHoliday(ctx, leave.PublicHoliday{ID: "h", Name: "Mid", Date: calendar.MustParseDate("2025-07-09"), Kind: leave.HolidayPublic}))

	// WHEN
	res, err := svc.Create(ctx, leave.LeaveInput{UserID: "u1", Start: calendar.MustParseDate("2025-07-07"), End: calendar.MustParseDate("2025-07-11"), Reason: "trip"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, leave.LeaveInput{UserID: "u1", Start: calendar.MustParseDate("2025-07-11"), End: calendar.MustParseDate("2025-07-11"), Reason: "again"})

	// THEN
	assert.ErrorIs(t, err, leave.ErrConflict)
	_, err = svc.Approve(ctx, res.Request.ID, "m1")
	require.NoError(t, err)

	b, err := svc.Balance(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Taken) // Jul 9 is a public holiday
	assert.Equal(t, 1, b.HolidaysTaken)
}
