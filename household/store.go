/*
Package household holds the records a household enters and the interfaces
used to persist them.

PURPOSE:
  The funding engine consumes plain records. This package owns everything
  around them: the State aggregate, the Store interface, the import/export
  document with its versioned migration, and the demo household.

KEY INTERFACES:
  Store: CRUD for earnings, expenses, savings, future payments and the plan,
         plus whole-state load/replace for import and demo loading.

IMPLEMENTATIONS:
  - household/store/memory.go: In-memory for tests and development
  - store/sqlite/sqlite.go:    SQLite with versioned migrations

EXAMPLE:
  st, _ := store.LoadState(ctx)
  result := engine.Run(st.Input(funding.PLN, 24, funding.Today()))

SEE ALSO:
  - document.go: Import/export document and legacy shape migration
  - demo.go: Demo household
*/
package household

import (
	"context"

	"github.com/warp/household-planner/funding"
)

// =============================================================================
// STATE - Every record of one household
// =============================================================================

type State struct {
	Earnings       []funding.Earning
	Expenses       []funding.Expense
	Savings        []funding.Saving
	FuturePayments []funding.FuturePayment
	Plan           funding.Plan
}

// NewState returns an empty household with the default plan.
func NewState() *State {
	return &State{
		Earnings:       []funding.Earning{},
		Expenses:       []funding.Expense{},
		Savings:        []funding.Saving{},
		FuturePayments: []funding.FuturePayment{},
		Plan:           DefaultPlan(),
	}
}

// DefaultPlan allocates nothing, funds by due date and uses no seed.
func DefaultPlan() funding.Plan {
	return funding.Plan{
		MonthlyAllocation: funding.Zero(funding.PLN),
		Priority:          funding.PriorityDueDate,
		CustomOrder:       []string{},
		SeedSavingsIDs:    []string{},
	}
}

// Input builds an engine input for this state.
func (s *State) Input(display funding.Currency, horizonMonths int, asOf funding.Date) funding.Input {
	return funding.Input{
		Earnings:        s.Earnings,
		Expenses:        s.Expenses,
		Savings:         s.Savings,
		FuturePayments:  s.FuturePayments,
		Plan:            s.Plan,
		DisplayCurrency: display,
		HorizonMonths:   horizonMonths,
		ReferenceDate:   asOf,
	}
}

// Summary totals the state in one currency.
func (s *State) Summary(display funding.Currency, rates funding.FxTable) funding.Summary {
	return funding.Summarize(s.Earnings, s.Expenses, s.Savings, s.FuturePayments, display, rates)
}

// =============================================================================
// STORE - Persistence interface
// =============================================================================

// Store persists household records. Save* upserts by id. Delete* returns
// ErrNotFound when the id does not exist.
type Store interface {
	ListEarnings(ctx context.Context) ([]funding.Earning, error)
	SaveEarning(ctx context.Context, e funding.Earning) error
	DeleteEarning(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]funding.Expense, error)
	SaveExpense(ctx context.Context, x funding.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	ListSavings(ctx context.Context) ([]funding.Saving, error)
	SaveSaving(ctx context.Context, s funding.Saving) error
	DeleteSaving(ctx context.Context, id string) error

	ListFuturePayments(ctx context.Context) ([]funding.FuturePayment, error)
	SaveFuturePayment(ctx context.Context, p funding.FuturePayment) error
	DeleteFuturePayment(ctx context.Context, id string) error

	GetPlan(ctx context.Context) (funding.Plan, error)
	SavePlan(ctx context.Context, p funding.Plan) error

	// LoadState returns every record and the plan.
	LoadState(ctx context.Context) (*State, error)

	// ReplaceState atomically swaps the whole household for s.
	ReplaceState(ctx context.Context, s *State) error

	// Reset clears all records and restores the default plan.
	Reset(ctx context.Context) error
}

// LoadStateFrom assembles a State from the list methods of any Store.
// Implementations without a cheaper path can use it for LoadState.
func LoadStateFrom(ctx context.Context, s Store) (*State, error) {
	st := NewState()
	var err error
	if st.Earnings, err = s.ListEarnings(ctx); err != nil {
		return nil, err
	}
	if st.Expenses, err = s.ListExpenses(ctx); err != nil {
		return nil, err
	}
	if st.Savings, err = s.ListSavings(ctx); err != nil {
		return nil, err
	}
	if st.FuturePayments, err = s.ListFuturePayments(ctx); err != nil {
		return nil, err
	}
	if st.Plan, err = s.GetPlan(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
