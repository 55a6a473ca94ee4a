/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the leave engine's model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  Calendar dates are "YYYY-MM-DD". Timestamps are RFC3339.

VALIDATION:
  Validation is done in handlers and the leave service, not in DTOs.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/store/sqlite"
)

// =============================================================================
// USERS
// =============================================================================

// UserDTO represents a directory entry in API responses.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateUserRequest is the request to create or update a user.
type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserDTO(u sqlite.User) UserDTO {
	dto := UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// LEAVES
// =============================================================================

// LeaveRequest is the body of create and edit. UserID is only honored for
// managers filing on someone's behalf.
type LeaveRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Sick      bool   `json:"sick"`
}

// LeaveDTO represents a leave request in API responses.
type LeaveDTO struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Reason         string `json:"reason"`
	Classification string `json:"classification"`
	Status         string `json:"status"`
	WorkingDays    int    `json:"working_days"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// WarningDTO is a non-fatal problem reported alongside a successful write.
type WarningDTO struct {
	Kind      string `json:"kind"`
	HolidayID string `json:"holiday_id,omitempty"`
	Message   string `json:"message"`
}

// LeaveResultDTO is the response of every lifecycle operation.
type LeaveResultDTO struct {
	Leave    LeaveDTO     `json:"leave"`
	Warnings []WarningDTO `json:"warnings,omitempty"`
}

func toLeaveDTO(r leave.Request, holidays calendar.HolidayCalendar) LeaveDTO {
	dto := LeaveDTO{
		ID:             r.ID,
		UserID:         r.UserID,
		StartDate:      r.Start.String(),
		EndDate:        r.End.String(),
		Reason:         r.Reason,
		Classification: string(r.Classification),
		Status:         string(r.Status),
		WorkingDays:    leave.Cost(r, holidays),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if !r.UpdatedAt.IsZero() {
		dto.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toLeaveDTOs(rs []leave.Request, holidays calendar.HolidayCalendar) []LeaveDTO {
	dtos := make([]LeaveDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toLeaveDTO(r, holidays)
	}
	return dtos
}

func toResultDTO(res *leave.Result, holidays calendar.HolidayCalendar) LeaveResultDTO {
	dto := LeaveResultDTO{Leave: toLeaveDTO(res.Request, holidays)}
	for _, w := range res.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{
			Kind:      string(w.Kind),
			HolidayID: w.HolidayID,
			Message:   w.Message,
		})
	}
	return dto
}

// =============================================================================
// BALANCE & SUMMARY
// =============================================================================

// QuarterDTO is one row of the quarterly ledger.
type QuarterDTO struct {
	Quarter      int    `json:"quarter"`
	Name         string `json:"name"`
	Allocated    int    `json:"allocated"`
	CarryForward int    `json:"carry_forward"`
	Taken        int    `json:"taken"`
	Remaining    int    `json:"remaining"`
}

// BalanceDTO is the balance widget payload.
type BalanceDTO struct {
	UserID             string       `json:"user_id"`
	Year               int          `json:"year"`
	Allocated          int          `json:"allocated"`
	Taken              int          `json:"taken"`
	Remaining          int          `json:"remaining"`
	QuarterlyAvailable int          `json:"quarterly_available"`
	CarriedForward     int          `json:"carried_forward"`
	SickTaken          int          `json:"sick_taken"`
	PlannedTaken       int          `json:"planned_taken"`
	HolidaysAllowed    int          `json:"holidays_allowed"`
	HolidaysTaken      int          `json:"holidays_taken"`
	Pending            int          `json:"pending"`
	Upcoming           int          `json:"upcoming"`
	Quarters           []QuarterDTO `json:"quarters"`
}

// SummaryDTO is the yearly summary payload.
type SummaryDTO struct {
	UserID       string       `json:"user_id"`
	Year         int          `json:"year"`
	TotalTaken   int          `json:"total_taken"`
	Quarters     []QuarterDTO `json:"quarters"`
	HolidaysUsed int          `json:"holidays_used"`
	HolidaysCap  int          `json:"holidays_cap"`
	OverCap      bool         `json:"over_cap"`
}

func toQuarterDTOs(qs []leave.QuarterEntry) []QuarterDTO {
	dtos := make([]QuarterDTO, len(qs))
	for i, q := range qs {
		dtos[i] = QuarterDTO{
			Quarter:      q.Quarter,
			Name:         q.Name,
			Allocated:    q.Allocated,
			CarryForward: q.CarryForward,
			Taken:        q.Taken,
			Remaining:    q.Remaining,
		}
	}
	return dtos
}

func toBalanceDTO(userID string, b leave.Balance) BalanceDTO {
	return BalanceDTO{
		UserID:             userID,
		Year:               b.Year,
		Allocated:          b.Allocated,
		Taken:              b.Taken,
		Remaining:          b.Remaining,
		QuarterlyAvailable: b.QuarterlyAvailable,
		CarriedForward:     b.CarriedForward,
		SickTaken:          b.SickTaken,
		PlannedTaken:       b.PlannedTaken,
		HolidaysAllowed:    b.HolidaysAllowed,
		HolidaysTaken:      b.HolidaysTaken,
		Pending:            b.Pending,
		Upcoming:           b.Upcoming,
		Quarters:           toQuarterDTOs(b.Quarters[:]),
	}
}

func toSummaryDTO(userID string, s leave.Summary) SummaryDTO {
	return SummaryDTO{
		UserID:       userID,
		Year:         s.Year,
		TotalTaken:   s.TotalTaken,
		Quarters:     toQuarterDTOs(s.Quarters),
		HolidaysUsed: s.HolidaysUsed,
		HolidaysCap:  s.HolidaysCap,
		OverCap:      s.OverHolidayCap(),
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Kind string `json:"kind"`
}

// HolidayRequest is the body of holiday create and update.
type HolidayRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Kind string `json:"kind"`
}

// SelectionDTO is the result of a holiday toggle.
type SelectionDTO struct {
	HolidayID string `json:"holiday_id"`
	Selected  bool   `json:"selected"`
	Count     int    `json:"count"`
	Cap       int    `json:"cap"`
	OverCap   bool   `json:"over_cap"`
}

func toHolidayDTO(h leave.PublicHoliday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Name: h.Name, Date: h.Date.String(), Kind: string(h.Kind)}
}

func toHolidayDTOs(hs []leave.PublicHoliday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(hs))
	for i, h := range hs {
		dtos[i] = toHolidayDTO(h)
	}
	return dtos
}

// =============================================================================
// TEAM
// =============================================================================

// ScoreDTO is one row of the reliability report.
type ScoreDTO struct {
	UserID          string          `json:"user_id"`
	TotalRequests   int             `json:"total_requests"`
	ApprovedLeaves  int             `json:"approved_leaves"`
	LastMinute      int             `json:"last_minute"`
	Rejected        int             `json:"rejected"`
	DaysTaken       int             `json:"days_taken"`
	LastMinuteRatio decimal.Decimal `json:"last_minute_ratio"`
	RejectionRatio  decimal.Decimal `json:"rejection_ratio"`
	Score           decimal.Decimal `json:"score"`
	Grade           string          `json:"grade"`
}

func toScoreDTO(s leave.Score) ScoreDTO {
	return ScoreDTO{
		UserID:          s.UserID,
		TotalRequests:   s.TotalRequests,
		ApprovedLeaves:  s.ApprovedLeaves,
		LastMinute:      s.LastMinute,
		Rejected:        s.Rejected,
		DaysTaken:       s.DaysTaken,
		LastMinuteRatio: s.LastMinuteRatio.Round(2),
		RejectionRatio:  s.RejectionRatio.Round(2),
		Score:           s.Value,
		Grade:           s.Grade,
	}
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
