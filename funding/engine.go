package funding

import "log/slog"

// DefaultHorizonMonths bounds recurrence expansion when callers do not pass
// their own horizon.
const DefaultHorizonMonths = 24

// MaxHorizonMonths caps caller-supplied horizons and curve lengths (50 years).
const MaxHorizonMonths = 600

// Input is everything one simulation run needs. ReferenceDate is the
// "current" date of the run and must always be set by the caller.
type Input struct {
	Earnings       []Earning
	Expenses       []Expense
	Savings        []Saving
	FuturePayments []FuturePayment
	Plan           Plan

	DisplayCurrency Currency
	HorizonMonths   int
	ReferenceDate   Date
}

// Engine runs the full pipeline: expand, order, simulate, aggregate.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	Rates  FxTable
	Logger *slog.Logger
}

// NewEngine returns an engine over the given rate table. A nil or
// incomplete table is replaced by DefaultRates. A nil logger discards
// skipped-payment warnings.
func NewEngine(rates FxTable, logger *slog.Logger) *Engine {
	if !rates.Complete() {
		if rates != nil && logger != nil {
			logger.Warn("incomplete fx table, using default rates")
		}
		rates = DefaultRates
	}
	return &Engine{Rates: rates, Logger: logger}
}

// Run simulates the plan for the given input.
func (e *Engine) Run(in Input) *SimulationResult {
	display := in.DisplayCurrency
	if display == "" {
		display = ReferenceCurrency
	}
	horizon := in.HorizonMonths
	if horizon < 0 {
		horizon = 0
	}

	seed := e.Seed(in.Savings, in.Plan.SeedSavingsIDs, display)

	occurrences, skipped := Expand(in.FuturePayments, horizon, in.ReferenceDate)
	for _, s := range skipped {
		e.logger().Warn("future payment skipped", "id", s.ID, "name", s.Name, "reason", s.Reason)
	}

	ordered := Order(occurrences, in.Plan.Priority, in.Plan.CustomOrder, e.Rates)
	funded := Simulate(ordered, in.Plan.MonthlyAllocation, seed, in.ReferenceDate, display, e.Rates)

	result := Aggregate(moneyOfEarnings(in.Earnings), moneyOfExpenses(in.Expenses), in.Plan.MonthlyAllocation, funded, display, e.Rates)
	result.ReferenceDate = in.ReferenceDate
	result.HorizonMonths = horizon
	result.Seed = seed
	result.Skipped = skipped

	e.logger().Debug("simulation complete",
		"as_of", in.ReferenceDate.String(),
		"occurrences", result.TotalCount,
		"on_time", result.OnTimeCount,
	)
	return &result
}

// Seed totals the savings selected by id. Unknown ids are ignored.
func (e *Engine) Seed(savings []Saving, selected []string, display Currency) Money {
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	var amounts []Money
	for _, s := range savings {
		if want[s.ID] {
			amounts = append(amounts, s.Amount)
		}
	}
	return Total(amounts, display, e.Rates)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func moneyOfEarnings(earnings []Earning) []Money {
	out := make([]Money, len(earnings))
	for i, e := range earnings {
		out[i] = e.Amount
	}
	return out
}

func moneyOfExpenses(expenses []Expense) []Money {
	out := make([]Money, len(expenses))
	for i, x := range expenses {
		out[i] = x.Amount
	}
	return out
}
