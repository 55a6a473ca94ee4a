package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/warp/leavedesk/calendar"
)

// HolidayInput is the management-supplied part of a public holiday.
type HolidayInput struct {
	Name string
	Date calendar.Date
	Kind HolidayKind // defaults to public
}

func (in *HolidayInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "required"}
	}
	if in.Kind == "" {
		in.Kind = HolidayPublic
	}
	if !in.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "must be public or optional"}
	}
	return nil
}

// Holidays lists holidays of kind ("" for all) ordered by date.
func (s *Service) Holidays(ctx context.Context, kind HolidayKind) ([]PublicHoliday, error) {
	hs, err := s.Store.ListHolidays(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return hs, nil
}

// CreateHoliday adds a public holiday.
func (s *Service) CreateHoliday(ctx context.Context, in HolidayInput) (PublicHoliday, error) {
	if err := in.normalize(); err != nil {
		return PublicHoliday{}, err
	}
	h := PublicHoliday{ID: s.NewID(), Name: in.Name, Date: in.Date, Kind: in.Kind}
	if err := s.Store.SaveHoliday(ctx, h); err != nil {
		return PublicHoliday{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}

// UpdateHoliday replaces the name, date and kind of an existing holiday.
func (s *Service) UpdateHoliday(ctx context.Context, id string, in HolidayInput) (PublicHoliday, error) {
	if err := in.normalize(); err != nil {
		return PublicHoliday{}, err
	}
	if _, err := s.getHoliday(ctx, id); err != nil {
		return PublicHoliday{}, err
	}
	h := PublicHoliday{ID: id, Name: in.Name, Date: in.Date, Kind: in.Kind}
	if err := s.Store.SaveHoliday(ctx, h); err != nil {
		return PublicHoliday{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}

// DeleteHoliday removes a holiday. Existing selections are left in place.
func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	if _, err := s.getHoliday(ctx, id); err != nil {
		return err
	}
	if err := s.Store.DeleteHoliday(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func (s *Service) getHoliday(ctx context.Context, id string) (*PublicHoliday, error) {
	h, err := s.Store.GetHoliday(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load holiday: %w", err)
	}
	if h == nil {
		return nil, &NotFoundError{Kind: "holiday", ID: id}
	}
	return h, nil
}

// =============================================================================
// SELECTIONS
// =============================================================================

// SelectionResult reports the state after a toggle. OverCap is advisory only.
type SelectionResult struct {
	HolidayID string
	Selected  bool
	Count     int // selections in the holiday's year
	Cap       int
	OverCap   bool
}

// HolidaySelections returns the holidays userID has selected, ordered by date.
func (s *Service) HolidaySelections(ctx context.Context, userID string) ([]PublicHoliday, error) {
	ids, err := s.Store.ListHolidaySelections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday selections: %w", err)
	}
	holidays, err := s.Store.ListHolidays(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	out := make([]PublicHoliday, 0, len(ids))
	for _, h := range holidays {
		if selected[h.ID] {
			out = append(out, h)
		}
	}
	return out, nil
}

// ToggleHolidaySelection selects the holiday if unselected and unselects it
// otherwise. Exceeding the soft cap is reported, never rejected.
func (s *Service) ToggleHolidaySelection(ctx context.Context, userID, holidayID string) (SelectionResult, error) {
	if strings.TrimSpace(userID) == "" {
		return SelectionResult{}, &ValidationError{Field: "user_id", Message: "required"}
	}
	h, err := s.getHoliday(ctx, holidayID)
	if err != nil {
		return SelectionResult{}, err
	}

	ids, err := s.Store.ListHolidaySelections(ctx, userID)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to list holiday selections: %w", err)
	}
	selected := false
	for _, id := range ids {
		if id == holidayID {
			selected = true
			break
		}
	}

	if selected {
		err = s.Store.DeleteHolidaySelection(ctx, userID, holidayID)
	} else {
		err = s.Store.UpsertHolidaySelection(ctx, userID, holidayID)
	}
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to toggle holiday selection: %w", err)
	}

	ids, err = s.Store.ListHolidaySelections(ctx, userID)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to list holiday selections: %w", err)
	}
	holidays, err := s.Store.ListHolidays(ctx, "")
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	count := countSelectionsInYear(ids, holidays, h.Date.Year())

	res := SelectionResult{
		HolidayID: holidayID,
		Selected:  !selected,
		Count:     count,
		Cap:       s.Policy.HolidaySoftCap,
		OverCap:   count > s.Policy.HolidaySoftCap,
	}
	if res.OverCap {
		s.Logger.Warn("holiday selections over soft cap", "user_id", userID, "count", count, "cap", res.Cap)
	}
	return res, nil
}
