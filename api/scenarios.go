/*
scenarios.go - Demo scenario loaders for demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates users and drives leaves through
	the real lifecycle (create, approve, reject), so every invariant holds.

AVAILABLE SCENARIOS:

	small-team:     Two employees and a manager, approved, pending and sick leave
	carry-forward:  One employee whose quarters show carry-forward and overuse

HOW SCENARIOS WORK:
 1. Save the scenario's users
 2. Create leaves relative to today's date
 3. Approve or reject as the scenario's manager

USAGE VIA API:

	GET  /api/scenarios
	POST /api/scenarios/load
	{"scenario_id": "small-team"}

NOTE:

	Routes are only mounted when demo mode is enabled. Loading a scenario
	twice fails with a conflict because its leaves already exist.

SEE ALSO:
  - server.go: Options.Demo
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// Scenario describes a demo data set.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var scenarios = []Scenario{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Alice and Bob (employees) and Mona (manager) with approved, pending, rejected and sick leave",
	},
	{
		ID:          "carry-forward",
		Name:        "Carry Forward",
		Description: "Carol takes two days in Q1, carries two into Q2 and overuses Q3",
	},
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ListScenarios returns the available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a scenario by ID.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "small-team":
		err = h.loadSmallTeamScenario(ctx)
	case "carry-forward":
		err = h.loadCarryForwardScenario(ctx)
	default:
		writeError(w, http.StatusNotFound, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// demoLeave is one leave of a scenario. Offsets are days from today; end is
// inclusive. outcome is applied by the manager after creation.
type demoLeave struct {
	user     string
	from, to int
	reason   string
	sick     bool
	outcome  leave.Action
}

func (h *Handler) loadSmallTeamScenario(ctx context.Context) error {
	users := []sqlite.User{
		{ID: "alice", Name: "Alice Martin", Email: "alice@example.com", Role: sqlite.RoleEmployee},
		{ID: "bob", Name: "Bob Chen", Email: "bob@example.com", Role: sqlite.RoleEmployee},
		{ID: "mona", Name: "Mona Diaz", Email: "mona@example.com", Role: sqlite.RoleManager},
	}
	leaves := []demoLeave{
		{user: "alice", from: -30, to: -26, reason: "Family trip", outcome: leave.ActionApprove},
		{user: "alice", from: 21, to: 25, reason: "Summer vacation"},
		{user: "bob", from: 0, to: 0, reason: "Sick", sick: true},
		{user: "bob", from: 7, to: 8, reason: "Moving house", outcome: leave.ActionReject},
		{user: "bob", from: 14, to: 15, reason: "Moving house", outcome: leave.ActionApprove},
	}
	return h.loadScenario(ctx, users, "mona", leaves)
}

func (h *Handler) loadCarryForwardScenario(ctx context.Context) error {
	users := []sqlite.User{
		{ID: "carol", Name: "Carol Singh", Email: "carol@example.com", Role: sqlite.RoleEmployee},
		{ID: "mona", Name: "Mona Diaz", Email: "mona@example.com", Role: sqlite.RoleManager},
	}
	year := h.Service.Now().Year()
	today := calendar.DateOf(h.Service.Now())
	offset := func(m, d int) int {
		return calendar.DaysBetween(today, calendar.MustParseDate(fmt.Sprintf("%04d-%02d-%02d", year, m, d)))
	}
	leaves := []demoLeave{
		// Q1: two working days
		{user: "carol", from: offset(2, 3), to: offset(2, 4), reason: "Ski weekend", outcome: leave.ActionApprove},
		// Q3: three working weeks, more than the quarter holds
		{user: "carol", from: offset(7, 7), to: offset(7, 25), reason: "Sabbatical", outcome: leave.ActionApprove},
	}
	return h.loadScenario(ctx, users, "mona", leaves)
}

func (h *Handler) loadScenario(ctx context.Context, users []sqlite.User, managerID string, leaves []demoLeave) error {
	for _, u := range users {
		if err := h.Store.SaveUser(ctx, u); err != nil {
			return err
		}
	}

	today := calendar.DateOf(h.Service.Now())
	for _, l := range leaves {
		res, err := h.Service.Create(ctx, leave.LeaveInput{
			UserID: l.user,
			Start:  today.AddDays(l.from),
			End:    today.AddDays(l.to),
			Reason: l.reason,
			Sick:   l.sick,
		})
		if err != nil {
			return err
		}

		switch l.outcome {
		case leave.ActionApprove:
			_, err = h.Service.Approve(ctx, res.Request.ID, managerID)
		case leave.ActionReject:
			_, err = h.Service.Reject(ctx, res.Request.ID, managerID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
