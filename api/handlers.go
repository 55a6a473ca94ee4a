/*
handlers.go - HTTP API handlers for the leave management service

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, ownership checks, and delegates to leave.Service.

ENDPOINTS:
  Users:
    POST   /api/users                        Create or update user (manager)
    GET    /api/users                        List users (manager)
    GET    /api/users/{id}                   Get user
    GET    /api/users/{id}/balance           Balance widget for a year
    GET    /api/users/{id}/summary           Yearly summary
    GET    /api/users/{id}/summary.pdf       Yearly summary as PDF
    GET    /api/users/{id}/calendar          Deduplicated calendar view
    GET    /api/users/{id}/leaves            Raw leave list, newest first

  Leaves:
    POST   /api/leaves                       Submit a leave
    GET    /api/leaves/{id}                  Get a leave
    PUT    /api/leaves/{id}                  Edit dates/reason
    POST   /api/leaves/{id}/approve          Approve (manager)
    POST   /api/leaves/{id}/reject           Reject (manager)
    POST   /api/leaves/{id}/cancel           Cancel
    DELETE /api/leaves/{id}                  Withdraw (not started yet)

  Holidays:
    GET    /api/holidays                     List, optional ?kind=
    POST   /api/holidays                     Create (manager)
    PUT    /api/holidays/{id}                Update (manager)
    DELETE /api/holidays/{id}                Delete (manager)
    GET    /api/me/holidays                  Caller's selections
    POST   /api/me/holidays/{id}/toggle      Select/unselect

  Team (manager):
    GET    /api/team/calendar                Everyone's deduplicated calendar
    GET    /api/team/on-leave                Approved leave covering ?date=
    GET    /api/team/reliability             Reliability scores
    GET    /api/team/pending                 Pending approvals, oldest first

  Notifications:
    GET    /api/me/notifications             Caller's inbox
    POST   /api/me/notifications/{id}/read   Mark read

OWNERSHIP:
  Employees may only read and act on their own user resources and leaves.
  Managers may act on everyone's.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid transitions, malformed input
  - 401: Missing or invalid bearer token
  - 403: Not the owner, or manager role required
  - 404: Resource not found
  - 409: Overlap conflict, immutable (elapsed) leave
  - 500: Internal errors

  Writes that succeed with failed side effects (holiday auto-selection,
  notification delivery) return 2xx with a "warnings" array.

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Bearer token middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/report"
	"github.com/warp/leavedesk/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Service *leave.Service
	Store   *sqlite.Store
	Logger  *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *leave.Service, store *sqlite.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Store: store, Logger: logger}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// USER ENDPOINTS
// =============================================================================

// CreateUser creates or updates a directory entry.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.Role == "" {
		req.Role = sqlite.RoleEmployee
	}
	if req.Role != sqlite.RoleEmployee && req.Role != sqlite.RoleManager {
		writeError(w, http.StatusBadRequest, "role must be employee or manager", nil)
		return
	}

	u := sqlite.User{ID: req.ID, Name: req.Name, Email: strings.TrimSpace(req.Email), Role: req.Role}
	if err := h.Store.SaveUser(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save user", err)
		return
	}

	saved, err := h.Store.GetUser(r.Context(), u.ID)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(*saved))
}

// ListUsers returns the directory.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUser returns one directory entry.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}

	u, err := h.Store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*u))
}

// GetBalance returns the balance widget for ?year= (default current year).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	b, err := h.Service.Balance(r.Context(), userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(userID, b))
}

// GetSummary returns the yearly summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	s, err := h.Service.Summary(r.Context(), userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(userID, s))
}

// GetSummaryPDF renders the yearly summary and balance as a PDF document.
func (h *Handler) GetSummaryPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	s, err := h.Service.Summary(ctx, userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	b, err := h.Service.Balance(ctx, userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	name := userID
	if u, err := h.Store.GetUser(ctx, userID); err == nil && u != nil {
		name = u.Name
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := report.SummaryPDF(&buf, name, s, b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render summary", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`attachment; filename="summary-`+userID+`-`+strconv.Itoa(year)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetCalendar returns the user's deduplicated calendar for the year.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	rs, err := h.Service.Calendar(r.Context(), userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeLeaves(w, r, rs)
}

// ListUserLeaves returns every request of the user, newest first.
// ?year= filters by start year; without it all years are returned.
func (h *Handler) ListUserLeaves(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownedUser(w, r)
	if !ok {
		return
	}

	year := 0
	if r.URL.Query().Get("year") != "" {
		if year, ok = h.yearParam(w, r); !ok {
			return
		}
	}

	rs, err := h.Service.Leaves(r.Context(), userID, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeLeaves(w, r, rs)
}

// =============================================================================
// LEAVE ENDPOINTS
// =============================================================================

// CreateLeave submits a leave for the caller. Managers may file on behalf of
// another user by setting user_id.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	userID := id.UserID
	if req.UserID != "" && req.UserID != id.UserID {
		if !id.IsManager() {
			writeError(w, http.StatusForbidden, "Cannot file leave for another user", nil)
			return
		}
		userID = req.UserID
	}

	in, err := req.toInput(userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	res, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusCreated, res)
}

// GetLeave returns one leave.
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	req, ok := h.ownedLeave(w, r)
	if !ok {
		return
	}
	holidays, ok := h.publicHolidays(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(*req, holidays))
}

// EditLeave changes dates and reason. The request is reclassified.
func (h *Handler) EditLeave(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedLeave(w, r)
	if !ok {
		return
	}

	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in, err := req.toInput(current.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.Edit(r.Context(), current.ID, id.UserID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, res)
}

// ApproveLeave approves a pending leave.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, res)
}

// RejectLeave rejects a pending leave.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, res)
}

// CancelLeave cancels a pending or approved leave that has not elapsed.
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedLeave(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.Cancel(r.Context(), current.ID, id.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, res)
}

// WithdrawLeave deletes a leave that has not started yet.
func (h *Handler) WithdrawLeave(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedLeave(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.Withdraw(r.Context(), current.ID, id.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, res)
}

func (req LeaveRequest) toInput(userID string) (leave.LeaveInput, error) {
	in := leave.LeaveInput{UserID: userID, Reason: req.Reason, Sick: req.Sick}
	var err error
	if req.StartDate != "" {
		if in.Start, err = calendar.ParseDate(req.StartDate); err != nil {
			return in, &leave.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"}
		}
	}
	if req.EndDate != "" {
		if in.End, err = calendar.ParseDate(req.EndDate); err != nil {
			return in, &leave.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"}
		}
	}
	return in, nil
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns holidays ordered by date, optionally filtered by ?kind=.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	kind := leave.HolidayKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "kind must be public or optional", nil)
		return
	}

	hs, err := h.Service.Holidays(r.Context(), kind)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTOs(hs))
}

// CreateHoliday adds a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeHoliday(w, r)
	if !ok {
		return
	}
	hol, err := h.Service.CreateHoliday(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// UpdateHoliday replaces a holiday's name, date and kind.
func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeHoliday(w, r)
	if !ok {
		return
	}
	hol, err := h.Service.UpdateHoliday(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTO(hol))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyHolidays returns the caller's selected holidays.
func (h *Handler) ListMyHolidays(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	hs, err := h.Service.HolidaySelections(r.Context(), id.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTOs(hs))
}

// ToggleMyHoliday selects or unselects a holiday for the caller.
func (h *Handler) ToggleMyHoliday(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	res, err := h.Service.ToggleHolidaySelection(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionDTO{
		HolidayID: res.HolidayID,
		Selected:  res.Selected,
		Count:     res.Count,
		Cap:       res.Cap,
		OverCap:   res.OverCap,
	})
}

func decodeHoliday(w http.ResponseWriter, r *http.Request) (leave.HolidayInput, bool) {
	var req HolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return leave.HolidayInput{}, false
	}
	in := leave.HolidayInput{Name: req.Name, Kind: leave.HolidayKind(req.Kind)}
	if req.Date != "" {
		d, err := calendar.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return leave.HolidayInput{}, false
		}
		in.Date = d
	}
	return in, true
}

// =============================================================================
// TEAM ENDPOINTS
// =============================================================================

// TeamCalendar returns everyone's deduplicated calendar for the year.
func (h *Handler) TeamCalendar(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	rs, err := h.Service.TeamCalendar(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeLeaves(w, r, rs)
}

// OnLeave returns approved leave covering ?date= (default today).
func (h *Handler) OnLeave(w http.ResponseWriter, r *http.Request) {
	date := calendar.DateOf(h.Service.Now())
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		date = d
	}

	rs, err := h.Service.OnLeave(r.Context(), date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeLeaves(w, r, rs)
}

// TeamReliability returns reliability scores, best first.
func (h *Handler) TeamReliability(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	scores, err := h.Service.TeamReliability(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]ScoreDTO, len(scores))
	for i, s := range scores {
		dtos[i] = toScoreDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PendingApprovals returns pending requests, oldest first.
func (h *Handler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Service.PendingApprovals(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeLeaves(w, r, rs)
}

// =============================================================================
// NOTIFICATION ENDPOINTS
// =============================================================================

// ListNotifications returns the caller's inbox, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	ns, err := h.Store.ListNotifications(r.Context(), id.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// MarkNotificationRead marks one of the caller's notifications read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.Store.MarkNotificationRead(r.Context(), id.UserID, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// ownedUser returns the {id} URL param if the caller may access it.
func (h *Handler) ownedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "id")
	id, _ := IdentityFrom(r.Context())
	if !id.CanAccess(userID) {
		writeError(w, http.StatusForbidden, "Access denied", nil)
		return "", false
	}
	return userID, true
}

// ownedLeave loads the {id} leave and checks the caller may act on it.
func (h *Handler) ownedLeave(w http.ResponseWriter, r *http.Request) (*leave.Request, bool) {
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return nil, false
	}
	id, _ := IdentityFrom(r.Context())
	if !id.CanAccess(req.UserID) {
		writeError(w, http.StatusForbidden, "Access denied", nil)
		return nil, false
	}
	return req, true
}

// yearParam parses ?year=, defaulting to the current year.
func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return h.Service.Now().Year(), true
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "year must be a four digit year", err)
		return 0, false
	}
	return year, true
}

func (h *Handler) publicHolidays(w http.ResponseWriter, r *http.Request) (calendar.HolidaySet, bool) {
	hs, err := h.Service.Holidays(r.Context(), leave.HolidayPublic)
	if err != nil {
		h.writeServiceError(w, r, err)
		return nil, false
	}
	return leave.PublicCalendar(hs), true
}

func (h *Handler) writeLeaves(w http.ResponseWriter, r *http.Request, rs []leave.Request) {
	holidays, ok := h.publicHolidays(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(rs, holidays))
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, status int, res *leave.Result) {
	holidays, ok := h.publicHolidays(w, r)
	if !ok {
		return
	}
	writeJSON(w, status, toResultDTO(res, holidays))
}

// writeServiceError maps the leave error taxonomy to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *leave.ValidationError
		conflict   *leave.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeErrorCode(w, http.StatusBadRequest, err.Error(), "validation", map[string]string{
			"field": validation.Field,
		})
	case errors.Is(err, leave.ErrInvalidTransition):
		writeErrorCode(w, http.StatusBadRequest, err.Error(), "invalid_transition", nil)
	case errors.Is(err, leave.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, err.Error(), "not_found", nil)
	case errors.As(err, &conflict):
		// The existing leave is reported with the same working-day cost
		// GET /api/leaves/{id} would show.
		hs, herr := h.Service.Holidays(r.Context(), leave.HolidayPublic)
		if herr != nil {
			h.Logger.Warn("conflict details without holidays", "err", herr)
			writeErrorCode(w, http.StatusConflict, err.Error(), "conflict", nil)
			return
		}
		writeErrorCode(w, http.StatusConflict, err.Error(), "conflict", toLeaveDTO(conflict.Existing, leave.PublicCalendar(hs)))
	case errors.Is(err, leave.ErrImmutable):
		writeErrorCode(w, http.StatusConflict, err.Error(), "immutable", nil)
	default:
		h.Logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details})
}
