/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the leave persistence port (leave.Store, leave.TxStore), the
  user directory and the in-app notification inbox using SQLite.

INTERFACES IMPLEMENTED:
  leave.Store:     Leave requests, public holidays, holiday selections
  leave.TxStore:   Atomic read-check-write for Create/Edit
  notify.Directory: Recipient lookup for notifications
  notify.Inbox:     In-app notification rows

KEY TABLES:
  users:              Directory (id, name, email, role)
  leave_requests:     One row per request; status transitions update in place
  public_holidays:    Organization calendar (public | optional)
  holiday_selections: (user_id, holiday_id) pairs, unique
  deleted_holidays:   Tombstones of deleted holiday ids
  notifications:      In-app inbox

DATES:
  Calendar dates are stored as TEXT "2006-01-02", so lexical order is date
  order and the year filter is a prefix match. Timestamps are UTC with a
  fixed nine-digit fraction (timeLayout), so they also sort as text.

CONCURRENCY:
  The pool is limited to one connection. SQLite serializes writers anyway,
  and ":memory:" databases are per-connection. WithTx holds that connection
  for the whole callback, so fn must only use the Store it is given.

USAGE:
  store, err := sqlite.New("./data/leavedesk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store, logger)

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/notify"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo holds every query. Store runs it against the pool, WithTx against a tx.
type repo struct {
	q querier
}

// Store implements all storage interfaces using SQLite.
type Store struct {
	repo
	db *sql.DB
}

var (
	_ leave.TxStore    = (*Store)(nil)
	_ notify.Directory = (*Store)(nil)
	_ notify.Inbox     = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{repo: repo{q: db}, db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'employee',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		classification TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Overlap checks and per-user views (hot path)
	CREATE INDEX IF NOT EXISTS idx_leave_requests_user_start
		ON leave_requests(user_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);

	CREATE TABLE IF NOT EXISTS public_holidays (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'public'
	);

	CREATE INDEX IF NOT EXISTS idx_public_holidays_date
		ON public_holidays(date);

	CREATE TABLE IF NOT EXISTS deleted_holidays (
		id TEXT PRIMARY KEY,
		deleted_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holiday_selections (
		user_id TEXT NOT NULL,
		holiday_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, holiday_id)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		leave_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications(user_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONAL STORE (leave.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&repo{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// =============================================================================
// LEAVE REQUESTS (leave.LeaveStore interface)
// =============================================================================

const leaveColumns = `id, user_id, start_date, end_date, reason, classification, status, created_at, updated_at`

// ListLeaves returns the requests matching f ordered by start date.
func (r *repo) ListLeaves(ctx context.Context, f leave.LeaveFilter) ([]leave.Request, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Year != 0 {
		where = append(where, "substr(start_date, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", f.Year))
	}
	if f.Within != nil {
		where = append(where, "start_date <= ? AND end_date >= ?")
		args = append(args, f.Within.End.String(), f.Within.Start.String())
	}
	if f.On != nil {
		where = append(where, "start_date <= ? AND end_date >= ?")
		args = append(args, f.On.String(), f.On.String())
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	query := "SELECT " + leaveColumns + " FROM leave_requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date ASC, id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var out []leave.Request
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// GetLeave retrieves a request by ID. Returns (nil, nil) when absent.
func (r *repo) GetLeave(ctx context.Context, id string) (*leave.Request, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+leaveColumns+" FROM leave_requests WHERE id = ?", id)
	req, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateLeave inserts a new request.
func (r *repo) CreateLeave(ctx context.Context, req leave.Request) error {
	query := `
		INSERT INTO leave_requests (` + leaveColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.q.ExecContext(ctx, query,
		req.ID, req.UserID,
		req.Start.String(), req.End.String(),
		req.Reason, string(req.Classification), string(req.Status),
		formatTime(req.CreatedAt), formatTime(req.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave: %w", err)
	}
	return nil
}

// UpdateLeave replaces the mutable fields of an existing request.
func (r *repo) UpdateLeave(ctx context.Context, req leave.Request) error {
	query := `
		UPDATE leave_requests
		SET start_date = ?, end_date = ?, reason = ?, classification = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.q.ExecContext(ctx, query,
		req.Start.String(), req.End.String(), req.Reason,
		string(req.Classification), string(req.Status),
		formatTime(req.UpdatedAt), req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave: %w", err)
	}
	return expectOne(res, "leave", req.ID)
}

// SetLeaveStatus changes only the status of a request.
func (r *repo) SetLeaveStatus(ctx context.Context, id string, status leave.Status, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE leave_requests SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set leave status: %w", err)
	}
	return expectOne(res, "leave", id)
}

// DeleteLeave removes a request.
func (r *repo) DeleteLeave(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (leave.Request, error) {
	var (
		req                  leave.Request
		start, end           string
		class, status        string
		createdAt, updatedAt string
	)
	err := row.Scan(&req.ID, &req.UserID, &start, &end, &req.Reason,
		&class, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return req, err
	}
	if err != nil {
		return req, fmt.Errorf("failed to scan leave: %w", err)
	}

	if req.Start, err = calendar.ParseDate(start); err != nil {
		return req, fmt.Errorf("leave %s: %w", req.ID, err)
	}
	if req.End, err = calendar.ParseDate(end); err != nil {
		return req, fmt.Errorf("leave %s: %w", req.ID, err)
	}
	req.Classification = leave.Classification(class)
	req.Status = leave.Status(status)
	if req.CreatedAt, err = parseTime(createdAt); err != nil {
		return req, fmt.Errorf("leave %s: %w", req.ID, err)
	}
	if req.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return req, fmt.Errorf("leave %s: %w", req.ID, err)
	}
	return req, nil
}

// =============================================================================
// HOLIDAYS (leave.HolidayStore interface)
// =============================================================================

// ListHolidays returns holidays of kind ("" for all) ordered by date.
func (r *repo) ListHolidays(ctx context.Context, kind leave.HolidayKind) ([]leave.PublicHoliday, error) {
	query := "SELECT id, name, date, kind FROM public_holidays"
	var args []any
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var out []leave.PublicHoliday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetHoliday retrieves a holiday by ID. Returns (nil, nil) when absent.
func (r *repo) GetHoliday(ctx context.Context, id string) (*leave.PublicHoliday, error) {
	row := r.q.QueryRowContext(ctx, "SELECT id, name, date, kind FROM public_holidays WHERE id = ?", id)
	h, err := scanHoliday(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SaveHoliday inserts or replaces a holiday.
func (r *repo) SaveHoliday(ctx context.Context, h leave.PublicHoliday) error {
	query := `
		INSERT INTO public_holidays (id, name, date, kind)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			kind = excluded.kind
	`
	_, err := r.q.ExecContext(ctx, query, h.ID, h.Name, h.Date.String(), string(h.Kind))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes a holiday and records a tombstone for it.
func (r *repo) DeleteHoliday(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM public_holidays WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	_, err := r.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO deleted_holidays (id, deleted_at) VALUES (?, ?)",
		id, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to record deleted holiday: %w", err)
	}
	return nil
}

// HolidayDeleted reports whether a holiday with id was ever deleted.
func (r *repo) HolidayDeleted(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM deleted_holidays WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check deleted holiday: %w", err)
	}
	return n > 0, nil
}

func scanHoliday(row rowScanner) (leave.PublicHoliday, error) {
	var (
		h          leave.PublicHoliday
		date, kind string
	)
	err := row.Scan(&h.ID, &h.Name, &date, &kind)
	if err == sql.ErrNoRows {
		return h, err
	}
	if err != nil {
		return h, fmt.Errorf("failed to scan holiday: %w", err)
	}
	if h.Date, err = calendar.ParseDate(date); err != nil {
		return h, fmt.Errorf("holiday %s: %w", h.ID, err)
	}
	h.Kind = leave.HolidayKind(kind)
	return h, nil
}

// ListHolidaySelections returns the holiday ids selected by userID.
func (r *repo) ListHolidaySelections(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT holiday_id FROM holiday_selections WHERE user_id = ? ORDER BY holiday_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query holiday selections: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertHolidaySelection records a selection; existing pairs are left alone.
func (r *repo) UpsertHolidaySelection(ctx context.Context, userID, holidayID string) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO holiday_selections (user_id, holiday_id, created_at) VALUES (?, ?, ?)",
		userID, holidayID, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday selection: %w", err)
	}
	return nil
}

// DeleteHolidaySelection removes a selection.
func (r *repo) DeleteHolidaySelection(ctx context.Context, userID, holidayID string) error {
	_, err := r.q.ExecContext(ctx,
		"DELETE FROM holiday_selections WHERE user_id = ? AND holiday_id = ?",
		userID, holidayID,
	)
	return err
}

// =============================================================================
// USERS
// =============================================================================

// Roles recognized by the API.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

// User represents a directory entry.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

// SaveUser inserts or updates a user.
func (s *Store) SaveUser(ctx context.Context, u User) error {
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	query := `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Role, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, role, created_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	return s.queryUsers(ctx, "SELECT id, name, email, role, created_at FROM users ORDER BY name, id")
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &createdAt); err != nil {
			return nil, err
		}
		createdAtTime, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		u.CreatedAt = createdAtTime
		users = append(users, u)
	}
	return users, rows.Err()
}

// Recipient resolves a user for notification delivery.
func (s *Store) Recipient(ctx context.Context, userID string) (*notify.Recipient, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return &notify.Recipient{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// Managers returns every user with the manager role.
func (s *Store) Managers(ctx context.Context) ([]notify.Recipient, error) {
	users, err := s.queryUsers(ctx,
		"SELECT id, name, email, role, created_at FROM users WHERE role = ? ORDER BY name, id",
		RoleManager,
	)
	if err != nil {
		return nil, err
	}
	out := make([]notify.Recipient, 0, len(users))
	for _, u := range users {
		out = append(out, notify.Recipient{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

// =============================================================================
// NOTIFICATIONS (notify.Inbox interface)
// =============================================================================

// AddNotification stores an in-app notification.
func (s *Store) AddNotification(ctx context.Context, n notify.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, leave_id, action, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.LeaveID, string(n.Action), n.Message, n.Read, formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// ListNotifications returns userID's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]notify.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, leave_id, action, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	out := []notify.Notification{}
	for rows.Next() {
		var (
			n         notify.Notification
			action    string
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.LeaveID, &action, &n.Message, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.Action = leave.Action(action)
		createdAtTime, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		n.CreatedAt = createdAtTime
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags one of userID's notifications as read.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return expectOne(res, "notification", id)
}

// Helper functions

// timeLayout keeps a fixed-width fraction. RFC3339Nano trims trailing
// zeros, which breaks lexical ordering within a second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts timeLayout and any other RFC3339 precision.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &leave.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}
