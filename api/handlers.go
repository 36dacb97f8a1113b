/*
handlers.go - HTTP API handlers for the household planner

PURPOSE:
  Exposes the household records and the funding engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  store and the engine.

ENDPOINTS:
  Records (earnings, expenses, savings, future-payments):
    GET    /api/{kind}            List records in insertion order
    POST   /api/{kind}            Create or replace a record (id optional)
    DELETE /api/{kind}/{id}       Delete a record

  Plan:
    GET    /api/plan              Current funding plan
    PUT    /api/plan              Replace the plan

  Engine:
    GET    /api/simulation        Funding simulation
    GET    /api/timeline          Required vs available month by month
    GET    /api/summary           Totals in one currency
    GET    /api/currencies        Supported currencies and fixed rates

  Common query parameters for the engine endpoints:
    currency=PLN|USD|EUR   display currency (server default otherwise)
    horizon=24             months of recurrence expansion (at most 600)
    as_of=2024-01-15       reference date (today otherwise)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call store / engine
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo, reset, import and export
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/logging"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  household.Store
	Engine *funding.Engine
	Logger *logging.Logger

	// Used when a request does not specify them.
	DefaultCurrency funding.Currency
	DefaultHorizon  int

	// Today returns the reference date for requests without as_of.
	Today func() funding.Date

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store household.Store, engine *funding.Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	if engine == nil {
		engine = funding.NewEngine(funding.DefaultRates, logger.WithComponent("engine").Logger)
	}
	return &Handler{
		Store:           store,
		Engine:          engine,
		Logger:          logger,
		DefaultCurrency: funding.ReferenceCurrency,
		DefaultHorizon:  funding.DefaultHorizonMonths,
		Today:           funding.Today,
	}
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

func (h *Handler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, h.Store.ListEarnings, toEarningDTO)
}

func (h *Handler) SaveEarning(w http.ResponseWriter, r *http.Request) {
	saveRecord(w, r, fromEarningDTO, h.Store.SaveEarning, toEarningDTO)
}

func (h *Handler) DeleteEarning(w http.ResponseWriter, r *http.Request) {
	deleteRecord(w, r, h.Store.DeleteEarning)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, h.Store.ListExpenses, toExpenseDTO)
}

func (h *Handler) SaveExpense(w http.ResponseWriter, r *http.Request) {
	saveRecord(w, r, fromExpenseDTO, h.Store.SaveExpense, toExpenseDTO)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	deleteRecord(w, r, h.Store.DeleteExpense)
}

func (h *Handler) ListSavings(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, h.Store.ListSavings, toSavingDTO)
}

func (h *Handler) SaveSaving(w http.ResponseWriter, r *http.Request) {
	saveRecord(w, r, fromSavingDTO, h.Store.SaveSaving, toSavingDTO)
}

func (h *Handler) DeleteSaving(w http.ResponseWriter, r *http.Request) {
	deleteRecord(w, r, h.Store.DeleteSaving)
}

func (h *Handler) ListFuturePayments(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, h.Store.ListFuturePayments, toFuturePaymentDTO)
}

func (h *Handler) SaveFuturePayment(w http.ResponseWriter, r *http.Request) {
	saveRecord(w, r, fromFuturePaymentDTO, h.Store.SaveFuturePayment, toFuturePaymentDTO)
}

func (h *Handler) DeleteFuturePayment(w http.ResponseWriter, r *http.Request) {
	deleteRecord(w, r, h.Store.DeleteFuturePayment)
}

func listRecords[T, D any](w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error), toDTO func(T) D) {
	records, err := list(r.Context())
	if err != nil {
		writeStoreError(w, r, "Failed to list records", err)
		return
	}

	dtos := make([]D, len(records))
	for i, rec := range records {
		dtos[i] = toDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func saveRecord[T, D any](w http.ResponseWriter, r *http.Request, fromDTO func(D) (T, error), save func(context.Context, T) error, toDTO func(T) D) {
	var req D
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := fromDTO(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record", err)
		return
	}
	if err := save(r.Context(), rec); err != nil {
		writeStoreError(w, r, "Failed to save record", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(rec))
}

func deleteRecord(w http.ResponseWriter, r *http.Request, del func(context.Context, string) error) {
	id := chi.URLParam(r, "id")
	if err := del(r.Context(), id); err != nil {
		writeStoreError(w, r, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// GetPlan returns the funding plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Store.GetPlan(r.Context())
	if err != nil {
		writeStoreError(w, r, "Failed to get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// SavePlan replaces the funding plan.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	plan, err := fromPlanDTO(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan", err)
		return
	}
	if err := h.Store.SavePlan(r.Context(), plan); err != nil {
		writeStoreError(w, r, "Failed to save plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// runParams are the query parameters shared by the engine endpoints.
type runParams struct {
	currency funding.Currency
	horizon  int
	asOf     funding.Date
}

func (h *Handler) parseRunParams(r *http.Request) (runParams, error) {
	q := r.URL.Query()
	p := runParams{currency: h.DefaultCurrency, horizon: h.DefaultHorizon}

	if v := q.Get("currency"); v != "" {
		c, err := funding.ParseCurrency(v)
		if err != nil {
			return p, err
		}
		p.currency = c
	}
	if v := q.Get("horizon"); v != "" {
		n, err := parseMonths("horizon", v)
		if err != nil {
			return p, err
		}
		p.horizon = n
	}
	if v := q.Get("as_of"); v != "" {
		d, err := funding.ParseDate(v)
		if err != nil {
			return p, err
		}
		p.asOf = d
	} else {
		p.asOf = h.Today()
	}
	return p, nil
}

// parseMonths reads a month count in [0, funding.MaxHorizonMonths].
func parseMonths(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, v)
	}
	if n > funding.MaxHorizonMonths {
		return 0, fmt.Errorf("%s must be at most %d, got %d", name, funding.MaxHorizonMonths, n)
	}
	return n, nil
}

// simulate loads the household and runs the engine for the request.
func (h *Handler) simulate(r *http.Request, p runParams) (*funding.SimulationResult, error) {
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		return nil, err
	}
	return h.Engine.Run(st.Input(p.currency, p.horizon, p.asOf)), nil
}

// GetSimulation runs the funding simulation.
func (h *Handler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseRunParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	result, err := h.simulate(r, p)
	if err != nil {
		writeStoreError(w, r, "Failed to load household", err)
		return
	}
	writeJSON(w, http.StatusOK, NewSimulationDTO(result))
}

// GetTimeline returns the funding curve. The optional months parameter
// sets its length; by default it runs a year past the last due month.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseRunParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	months := -1
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := parseMonths("months", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
			return
		}
		months = n
	}

	result, err := h.simulate(r, p)
	if err != nil {
		writeStoreError(w, r, "Failed to load household", err)
		return
	}
	writeJSON(w, http.StatusOK, NewTimelineDTO(result.DisplayCurrency, funding.Timeline(result, months)))
}

// GetSummary totals the household in one currency.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseRunParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		writeStoreError(w, r, "Failed to load household", err)
		return
	}
	writeJSON(w, http.StatusOK, NewSummaryDTO(st.Summary(p.currency, h.Engine.Rates)))
}

// ListCurrencies returns the supported currencies and their fixed rates.
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	dtos := make([]CurrencyDTO, 0, len(funding.Currencies))
	for _, c := range funding.Currencies {
		rate, _ := h.Engine.Rates.Rate(c).Float64()
		dtos = append(dtos, CurrencyDTO{
			Code:      string(c),
			Rate:      rate,
			Reference: c == funding.ReferenceCurrency,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeStoreError maps store errors to 400/404/500. Only 500s are logged.
func writeStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case household.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Record not found", err)
	case household.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		logging.FromContext(r.Context()).Error(message, logging.FieldError, err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
