/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Request logger: component logger tagged with the request id
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/earnings/*         Earnings
  /api/expenses/*         Expenses
  /api/savings/*          Savings
  /api/future-payments/*  Future payments
  /api/plan               Funding plan
  /api/simulation         Simulation result
  /api/timeline           Funding curve
  /api/summary            Totals
  /api/currencies         Supported currencies
  /api/scenarios/*        Demo scenarios
  /api/export, /api/import, /api/demo, /api/reset

SECURITY NOTE:
  No authentication middleware. All endpoints are public; run it on a
  trusted network only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/household-planner/logging"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	CORSOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(h.Logger, func(req *http.Request) string {
		return middleware.GetReqID(req.Context())
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/earnings", func(r chi.Router) {
			r.Get("/", h.ListEarnings)
			r.Post("/", h.SaveEarning)
			r.Delete("/{id}", h.DeleteEarning)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.SaveExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/savings", func(r chi.Router) {
			r.Get("/", h.ListSavings)
			r.Post("/", h.SaveSaving)
			r.Delete("/{id}", h.DeleteSaving)
		})

		r.Route("/future-payments", func(r chi.Router) {
			r.Get("/", h.ListFuturePayments)
			r.Post("/", h.SaveFuturePayment)
			r.Delete("/{id}", h.DeleteFuturePayment)
		})

		r.Get("/plan", h.GetPlan)
		r.Put("/plan", h.SavePlan)

		r.Get("/simulation", h.GetSimulation)
		r.Get("/timeline", h.GetTimeline)
		r.Get("/summary", h.GetSummary)
		r.Get("/currencies", h.ListCurrencies)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
		r.Post("/demo", h.LoadDemo)
		r.Post("/reset", h.ResetDatabase)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Household Planner</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Household Planner API</h1>
<ul>
<li><a href="/api/simulation">/api/simulation</a> - Funding simulation</li>
<li><a href="/api/timeline">/api/timeline</a> - Required vs available per month</li>
<li><a href="/api/summary">/api/summary</a> - Totals</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
<li><a href="/api/export">/api/export</a> - Download a backup</li>
</ul>
</body>
</html>`))
	})

	return r
}
