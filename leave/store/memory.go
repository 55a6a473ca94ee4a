// Package store provides in-memory leave.Store implementations.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/warp/leavedesk/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex
	state
}

type state struct {
	leaves     map[string]leave.Request
	holidays   map[string]leave.PublicHoliday
	selections map[string]map[string]bool // user -> holiday ids
	tombstones map[string]bool            // deleted holiday ids
}

var _ leave.TxStore = (*Memory)(nil)

// ErrDuplicateID is returned when creating a leave whose id already exists.
var ErrDuplicateID = errors.New("duplicate leave id")

func NewMemory() *Memory {
	return &Memory{state: newState()}
}

func newState() state {
	return state{
		leaves:     make(map[string]leave.Request),
		holidays:   make(map[string]leave.PublicHoliday),
		selections: make(map[string]map[string]bool),
		tombstones: make(map[string]bool),
	}
}

func (m *Memory) ListLeaves(ctx context.Context, f leave.LeaveFilter) ([]leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListLeaves(ctx, f)
}

func (m *Memory) GetLeave(ctx context.Context, id string) (*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetLeave(ctx, id)
}

func (m *Memory) CreateLeave(ctx context.Context, r leave.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.CreateLeave(ctx, r)
}

func (m *Memory) UpdateLeave(ctx context.Context, r leave.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UpdateLeave(ctx, r)
}

func (m *Memory) SetLeaveStatus(ctx context.Context, id string, status leave.Status, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SetLeaveStatus(ctx, id, status, at)
}

func (m *Memory) DeleteLeave(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteLeave(ctx, id)
}

func (m *Memory) ListHolidays(ctx context.Context, kind leave.HolidayKind) ([]leave.PublicHoliday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListHolidays(ctx, kind)
}

func (m *Memory) GetHoliday(ctx context.Context, id string) (*leave.PublicHoliday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetHoliday(ctx, id)
}

func (m *Memory) SaveHoliday(ctx context.Context, h leave.PublicHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SaveHoliday(ctx, h)
}

func (m *Memory) DeleteHoliday(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteHoliday(ctx, id)
}

func (m *Memory) ListHolidaySelections(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListHolidaySelections(ctx, userID)
}

func (m *Memory) UpsertHolidaySelection(ctx context.Context, userID, holidayID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UpsertHolidaySelection(ctx, userID, holidayID)
}

func (m *Memory) DeleteHolidaySelection(ctx context.Context, userID, holidayID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteHolidaySelection(ctx, userID, holidayID)
}

func (m *Memory) HolidayDeleted(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.HolidayDeleted(ctx, id)
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(&m.state); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// =============================================================================
// UNLOCKED STATE - callers hold the lock
// =============================================================================

func (s *state) clone() state {
	c := newState()
	for k, v := range s.leaves {
		c.leaves[k] = v
	}
	for k, v := range s.holidays {
		c.holidays[k] = v
	}
	for k := range s.tombstones {
		c.tombstones[k] = true
	}
	for u, set := range s.selections {
		c.selections[u] = make(map[string]bool, len(set))
		for h := range set {
			c.selections[u][h] = true
		}
	}
	return c
}

func (s *state) ListLeaves(_ context.Context, f leave.LeaveFilter) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range s.leaves {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *state) GetLeave(_ context.Context, id string) (*leave.Request, error) {
	r, ok := s.leaves[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *state) CreateLeave(_ context.Context, r leave.Request) error {
	if _, exists := s.leaves[r.ID]; exists {
		return ErrDuplicateID
	}
	s.leaves[r.ID] = r
	return nil
}

func (s *state) UpdateLeave(_ context.Context, r leave.Request) error {
	if _, ok := s.leaves[r.ID]; !ok {
		return &leave.NotFoundError{Kind: "leave", ID: r.ID}
	}
	s.leaves[r.ID] = r
	return nil
}

func (s *state) SetLeaveStatus(_ context.Context, id string, status leave.Status, at time.Time) error {
	r, ok := s.leaves[id]
	if !ok {
		return &leave.NotFoundError{Kind: "leave", ID: id}
	}
	r.Status = status
	r.UpdatedAt = at
	s.leaves[id] = r
	return nil
}

func (s *state) DeleteLeave(_ context.Context, id string) error {
	delete(s.leaves, id)
	return nil
}

func (s *state) ListHolidays(_ context.Context, kind leave.HolidayKind) ([]leave.PublicHoliday, error) {
	var out []leave.PublicHoliday
	for _, h := range s.holidays {
		if kind == "" || h.Kind == kind {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *state) GetHoliday(_ context.Context, id string) (*leave.PublicHoliday, error) {
	h, ok := s.holidays[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *state) SaveHoliday(_ context.Context, h leave.PublicHoliday) error {
	s.holidays[h.ID] = h
	return nil
}

func (s *state) DeleteHoliday(_ context.Context, id string) error {
	delete(s.holidays, id)
	s.tombstones[id] = true
	return nil
}

func (s *state) HolidayDeleted(_ context.Context, id string) (bool, error) {
	return s.tombstones[id], nil
}

func (s *state) ListHolidaySelections(_ context.Context, userID string) ([]string, error) {
	out := make([]string, 0, len(s.selections[userID]))
	for id := range s.selections[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *state) UpsertHolidaySelection(_ context.Context, userID, holidayID string) error {
	if s.selections[userID] == nil {
		s.selections[userID] = make(map[string]bool)
	}
	s.selections[userID][holidayID] = true
	return nil
}

func (s *state) DeleteHolidaySelection(_ context.Context, userID, holidayID string) error {
	delete(s.selections[userID], holidayID)
	return nil
}
