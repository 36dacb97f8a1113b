/*
scenarios.go - Demo scenarios, reset, import and export

PURPOSE:

	Provides pre-built households that populate the store with realistic
	data for demos and manual testing, plus whole-household backup and
	restore through the versioned document format.

AVAILABLE SCENARIOS:

	demo:           The sample household (salary, six expenses, three payments)
	tight-budget:   Same household with a small allocation and no seed; some
	                payments are late
	multi-currency: Earnings and payments spread over PLN, EUR and USD,
	                smallest payment first
	custom-order:   Custom priority putting the laptop before everything else
	empty:          No records, default plan

HOW SCENARIOS WORK:
 1. Build the scenario State relative to today (or ?as_of=)
 2. ReplaceState swaps it in atomically
 3. The loaded scenario id is remembered for GET /api/scenarios/current

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "tight-budget"}

	POST /api/demo              shorthand for the demo scenario

IMPORT / EXPORT:

	GET  /api/export   current household as a version 5 document
	POST /api/import   any known document version; replaces everything

NOTE:

	Scenarios, import and reset replace all data. Only use in
	development/demo environments or for restoring a backup.

SEE ALSO:
  - household/demo.go: Demo household
  - household/document.go: Document format and migration
*/
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/logging"
)

// maxImportBytes bounds the import body.
const maxImportBytes = 4 << 20

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type scenario struct {
	ScenarioDTO
	build func(ref funding.Date) *household.State
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "demo",
			Name:        "Demo Household",
			Description: "Salary and freelance income, six expenses, yearly insurance, vacation and a laptop",
		},
		build: household.Demo,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "tight-budget",
			Name:        "Tight Budget",
			Description: "Demo household saving only 400 PLN a month with no seed; later payments miss their due month",
		},
		build: tightBudgetScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "multi-currency",
			Name:        "Multi-Currency",
			Description: "Income and payments in PLN, EUR and USD, smallest payment funded first",
		},
		build: multiCurrencyScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "custom-order",
			Name:        "Custom Order",
			Description: "Demo household with the laptop funded before everything else",
		},
		build: customOrderScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "empty",
			Name:        "Empty",
			Description: "No records and the default plan",
		},
		build: func(funding.Date) *household.State { return household.NewState() },
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

func tightBudgetScenario(ref funding.Date) *household.State {
	st := household.Demo(ref)
	st.Plan.MonthlyAllocation = funding.NewMoneyFromInt(400, funding.PLN)
	st.Plan.SeedSavingsIDs = []string{}
	return st
}

func multiCurrencyScenario(ref funding.Date) *household.State {
	st := household.Demo(ref)
	st.Earnings[1].Amount = funding.NewMoneyFromInt(400, funding.EUR)
	st.Savings[0].Amount = funding.NewMoneyFromInt(900, funding.USD)
	st.FuturePayments[1].Amount = funding.NewMoneyFromInt(950, funding.EUR)
	st.FuturePayments[2].Amount = funding.NewMoneyFromInt(1650, funding.USD)
	st.Plan.MonthlyAllocation = funding.NewMoneyFromInt(350, funding.EUR)
	st.Plan.Priority = funding.PriorityAmount
	return st
}

func customOrderScenario(ref funding.Date) *household.State {
	st := household.Demo(ref)
	st.Plan.Priority = funding.PriorityCustom
	st.Plan.CustomOrder = []string{"f3", "f1"}
	return st
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if s, ok := findScenario(current); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.loadScenario(w, r, req.ScenarioID)
}

// LoadDemo replaces the household with the demo scenario.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	h.loadScenario(w, r, "demo")
}

func (h *Handler) loadScenario(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := findScenario(id)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}
	p, err := h.parseRunParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if err := h.Store.ReplaceState(r.Context(), s.build(p.asOf)); err != nil {
		writeStoreError(w, r, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = s.ID
	h.mu.Unlock()

	logging.FromContext(r.Context()).Info("scenario loaded", "scenario", s.ID, "as_of", p.asOf.String())
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": s.ID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeStoreError(w, r, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

// Export returns the household as a downloadable document.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		writeStoreError(w, r, "Failed to load household", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="household.json"`)
	writeJSON(w, http.StatusOK, household.Export(st))
}

// Import replaces the household with an uploaded document of any known
// version.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	st, err := household.ParseDocument(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document", err)
		return
	}
	if err := h.Store.ReplaceState(r.Context(), st); err != nil {
		writeStoreError(w, r, "Failed to import household", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, ImportResponse{
		Earnings:       len(st.Earnings),
		Expenses:       len(st.Expenses),
		Savings:        len(st.Savings),
		FuturePayments: len(st.FuturePayments),
	})
}
