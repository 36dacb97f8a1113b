/*
handlers_test.go - HTTP tests for the planner API

Tests for:
- Record CRUD and validation
- Plan read/replace
- Simulation, timeline and summary over a loaded scenario
- Error mapping (400/404)
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household/store"
)

var testToday = funding.MustParseDate("2024-01-15")

func setupTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	h := NewHandler(store.NewMemory(), nil, nil)
	h.Today = func() funding.Date { return testToday }
	return h, NewRouter(h, RouterOptions{CORSOrigins: []string{"http://localhost:5173"}})
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// RECORDS
// =============================================================================

func TestEarnings_CreateListDelete(t *testing.T) {
	_, srv := setupTestServer(t)

	// GIVEN: an earning posted without an id
	rec := do(t, srv, http.MethodPost, "/api/earnings", `{"source": "Salary", "amount": {"value": 9000.456, "currency": "pln"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[EarningDTO](t, rec)

	// THEN: an id is assigned and the amount is rounded on output
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "PLN", created.Amount.Currency)
	assert.InDelta(t, 9000.46, created.Amount.Value, 1e-9)

	// WHEN: listing
	rec = do(t, srv, http.MethodGet, "/api/earnings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]EarningDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// WHEN: deleting twice
	rec = do(t, srv, http.MethodDelete, "/api/earnings/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/earnings/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecords_EmptyListIsArray(t *testing.T) {
	_, srv := setupTestServer(t)

	for _, path := range []string{"/api/earnings", "/api/expenses", "/api/savings", "/api/future-payments"} {
		rec := do(t, srv, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}

func TestRecords_Upsert(t *testing.T) {
	_, srv := setupTestServer(t)

	do(t, srv, http.MethodPost, "/api/expenses", `{"id": "x1", "name": "Rent", "amount": {"value": 2700, "currency": "PLN"}}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"id": "x1", "name": "Rent", "amount": {"value": 2900, "currency": "PLN"}}`)

	list := decodeBody[[]ExpenseDTO](t, do(t, srv, http.MethodGet, "/api/expenses", nil))
	require.Len(t, list, 1)
	assert.InDelta(t, 2900, list[0].Amount.Value, 1e-9)
}

func TestRecords_Validation(t *testing.T) {
	_, srv := setupTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/api/savings", `{"name": `},
		{"unknown currency", "/api/savings", `{"name": "Box", "amount": {"value": 10, "currency": "GBP"}}`},
		{"missing amount", "/api/expenses", `{"name": "Rent"}`},
		{"negative amount", "/api/expenses", `{"name": "Rent", "amount": {"value": -5, "currency": "PLN"}}`},
		{"bad due date", "/api/future-payments", `{"name": "Tax", "amount": {"value": 10, "currency": "PLN"}, "dueDate": "soon"}`},
		{"bad recurrence", "/api/future-payments", `{"name": "Tax", "amount": {"value": 10, "currency": "PLN"}, "dueDate": "2024-04-30", "recurrence": "weekly"}`},
		{"hash in id", "/api/future-payments", `{"id": "f#1", "name": "Tax", "amount": {"value": 10, "currency": "PLN"}, "dueDate": "2024-04-30"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decodeBody[ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestFuturePayments_DefaultRecurrence(t *testing.T) {
	_, srv := setupTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/future-payments", `{"id": "f1", "name": "Tax", "amount": {"value": 10, "currency": "PLN"}, "dueDate": "2024-04-30"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "once", decodeBody[FuturePaymentDTO](t, rec).Recurrence)
}

// =============================================================================
// PLAN
// =============================================================================

func TestPlan_DefaultAndReplace(t *testing.T) {
	_, srv := setupTestServer(t)

	// GIVEN: a fresh store
	plan := decodeBody[PlanDTO](t, do(t, srv, http.MethodGet, "/api/plan", nil))
	assert.Equal(t, "dueDate", plan.Priority)
	assert.Equal(t, 0.0, plan.MonthlyAllocation.Value)
	assert.Equal(t, []string{}, plan.SeedSavingsIDs)

	// WHEN: replacing the plan
	rec := do(t, srv, http.MethodPut, "/api/plan", PlanDTO{
		MonthlyAllocation: MoneyDTO{Value: 250, Currency: "EUR"},
		Priority:          "custom",
		CustomOrder:       []string{"f2"},
		SeedSavingsIDs:    []string{"s1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: it is returned by GET
	plan = decodeBody[PlanDTO](t, do(t, srv, http.MethodGet, "/api/plan", nil))
	assert.Equal(t, "custom", plan.Priority)
	assert.Equal(t, "EUR", plan.MonthlyAllocation.Currency)
	assert.Equal(t, []string{"f2"}, plan.CustomOrder)
	assert.Equal(t, []string{"s1"}, plan.SeedSavingsIDs)
}

func TestPlan_RejectsUnknownPriority(t *testing.T) {
	_, srv := setupTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/plan", `{"monthlyAllocation": {"value": 1, "currency": "PLN"}, "priority": "random"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ENGINE
// =============================================================================

func TestSimulation_Demo(t *testing.T) {
	_, srv := setupTestServer(t)

	// GIVEN: the demo household
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/demo", nil).Code)

	// WHEN: simulating as of the test date
	rec := do(t, srv, http.MethodGet, "/api/simulation?horizon=24", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sim := decodeBody[SimulationDTO](t, rec)

	// THEN: budget figures and seed match the demo records
	assert.Equal(t, "PLN", sim.DisplayCurrency)
	assert.Equal(t, "2024-01-15", sim.ReferenceDate)
	assert.InDelta(t, 5750, sim.MonthlyBudget.Value, 1e-9)
	assert.InDelta(t, 1500, sim.MonthlyAllocation.Value, 1e-9)
	assert.InDelta(t, 4250, sim.RemainingAfterAllocation.Value, 1e-9)
	assert.InDelta(t, 3500, sim.Seed.Value, 1e-9)

	// AND: occurrences come in due date order, all funded on time
	require.Equal(t, 4, sim.TotalCount)
	assert.Equal(t, 4, sim.OnTimeCount)
	keys := make([]string, len(sim.Occurrences))
	for i, o := range sim.Occurrences {
		keys[i] = o.Key
	}
	assert.Equal(t, []string{"f2", "f1#2024-11", "f3", "f1#2025-11"}, keys)

	vacation := sim.Occurrences[0]
	require.NotNil(t, vacation.MonthsNeeded)
	assert.Equal(t, 1, *vacation.MonthsNeeded)
	require.NotNil(t, vacation.FundedBy)
	assert.Equal(t, "2024-02", *vacation.FundedBy)
	assert.Equal(t, 6, vacation.DueOffset)
}

func TestSimulation_TightBudgetIsLate(t *testing.T) {
	_, srv := setupTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "tight-budget"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sim := decodeBody[SimulationDTO](t, do(t, srv, http.MethodGet, "/api/simulation", nil))

	// Vacation needs 10 months at 400/month but is due in 6.
	vacation := sim.Occurrences[0]
	assert.Equal(t, "f2", vacation.Key)
	assert.False(t, vacation.OnTime)
	assert.Equal(t, "2024-11", *vacation.FundedBy)
	assert.InDelta(t, 1600, vacation.Shortfall.Value, 1e-9)
	assert.Less(t, sim.OnTimeCount, sim.TotalCount)
	assert.Greater(t, sim.TotalShortfall.Value, 0.0)
}

func TestSimulation_DisplayCurrency(t *testing.T) {
	_, srv := setupTestServer(t)
	do(t, srv, http.MethodPost, "/api/demo", nil)

	sim := decodeBody[SimulationDTO](t, do(t, srv, http.MethodGet, "/api/simulation?currency=eur", nil))

	assert.Equal(t, "EUR", sim.DisplayCurrency)
	// 3500 PLN / 4.25
	assert.InDelta(t, 823.53, sim.Seed.Value, 1e-9)
	assert.Equal(t, "EUR", sim.Occurrences[0].Amount.Currency)
}

func TestSimulation_BadQuery(t *testing.T) {
	_, srv := setupTestServer(t)

	for _, q := range []string{"currency=GBP", "horizon=-1", "horizon=many", "horizon=601", "horizon=100000000", "as_of=yesterday"} {
		rec := do(t, srv, http.MethodGet, "/api/simulation?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	// The cap itself is accepted.
	rec := do(t, srv, http.MethodGet, "/api/simulation?horizon=600", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, q := range []string{"months=-1", "months=601", "months=100000000"} {
		rec := do(t, srv, http.MethodGet, "/api/timeline?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestSimulation_EmptyHousehold(t *testing.T) {
	_, srv := setupTestServer(t)

	sim := decodeBody[SimulationDTO](t, do(t, srv, http.MethodGet, "/api/simulation", nil))
	assert.Equal(t, 0, sim.TotalCount)
	assert.Equal(t, 0, sim.OnTimeCount)
	assert.NotNil(t, sim.Occurrences)
	assert.Empty(t, sim.Occurrences)
}

func TestTimeline_Demo(t *testing.T) {
	_, srv := setupTestServer(t)
	do(t, srv, http.MethodPost, "/api/demo", nil)

	rec := do(t, srv, http.MethodGet, "/api/timeline?months=6", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tl := decodeBody[TimelineDTO](t, rec)

	require.Len(t, tl.Points, 7)
	assert.Equal(t, "2024-01", tl.Points[0].Month)
	assert.InDelta(t, 3500, tl.Points[0].Available, 1e-9)
	assert.InDelta(t, 0, tl.Points[0].Required, 1e-9)
	// Vacation (4000) is due in July, month index 6.
	assert.Equal(t, "2024-07", tl.Points[6].Month)
	assert.InDelta(t, 4000, tl.Points[6].Required, 1e-9)
	assert.InDelta(t, 12500, tl.Points[6].Available, 1e-9)
	assert.True(t, tl.Points[6].Covered)
}

func TestSummary_Demo(t *testing.T) {
	_, srv := setupTestServer(t)
	do(t, srv, http.MethodPost, "/api/demo", nil)

	s := decodeBody[SummaryDTO](t, do(t, srv, http.MethodGet, "/api/summary", nil))
	assert.Equal(t, "PLN", s.Currency)
	assert.InDelta(t, 10500, s.Earnings.Value, 1e-9)
	assert.InDelta(t, 4750, s.Expenses.Value, 1e-9)
	assert.InDelta(t, 5750, s.Balance.Value, 1e-9)
	assert.InDelta(t, 28500, s.Savings.Value, 1e-9)
	assert.InDelta(t, 11200, s.FuturePayments.Value, 1e-9)
}

func TestCurrencies(t *testing.T) {
	_, srv := setupTestServer(t)

	list := decodeBody[[]CurrencyDTO](t, do(t, srv, http.MethodGet, "/api/currencies", nil))
	require.Len(t, list, 3)
	assert.Equal(t, CurrencyDTO{Code: "PLN", Rate: 1, Reference: true}, list[0])
	assert.Equal(t, "USD", list[1].Code)
	assert.InDelta(t, 3.63, list[1].Rate, 1e-9)
	assert.Equal(t, "EUR", list[2].Code)
	assert.InDelta(t, 4.25, list[2].Rate, 1e-9)
}
