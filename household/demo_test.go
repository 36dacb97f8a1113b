package household_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/household/store"
)

func TestDemo_IsValid(t *testing.T) {
	st := household.Demo(funding.MustParseDate("2024-01-15"))

	for _, e := range st.Earnings {
		assert.NoError(t, household.ValidateEarning(e))
	}
	for _, x := range st.Expenses {
		assert.NoError(t, household.ValidateExpense(x))
	}
	for _, s := range st.Savings {
		assert.NoError(t, household.ValidateSaving(s))
	}
	for _, p := range st.FuturePayments {
		assert.NoError(t, household.ValidateFuturePayment(p))
	}
	assert.NoError(t, household.ValidatePlan(st.Plan))
}

func TestDemo_DatesFollowReference(t *testing.T) {
	st := household.Demo(funding.MustParseDate("2030-06-01"))

	require.Len(t, st.FuturePayments, 3)
	assert.Equal(t, "2030-11-15", st.FuturePayments[0].DueDate)
	assert.Equal(t, "2030-07-01", st.FuturePayments[1].DueDate)
	assert.Equal(t, "2031-03-10", st.FuturePayments[2].DueDate)
}

func TestDemo_Summary(t *testing.T) {
	// GIVEN: the demo household, all in PLN
	st := household.Demo(funding.MustParseDate("2024-01-15"))

	// WHEN: summarizing
	s := st.Summary(funding.PLN, funding.DefaultRates)

	// THEN: totals match the records
	assert.InDelta(t, 10500, s.Earnings.Float64(), 1e-9)
	assert.InDelta(t, 4750, s.Expenses.Float64(), 1e-9)
	assert.InDelta(t, 5750, s.Balance.Float64(), 1e-9)
	assert.InDelta(t, 28500, s.Savings.Float64(), 1e-9)
	assert.InDelta(t, 11200, s.FuturePayments.Float64(), 1e-9)
}

func TestDemo_Simulates(t *testing.T) {
	// GIVEN: the demo household run from January 2024
	ref := funding.MustParseDate("2024-01-15")
	st := household.Demo(ref)

	// WHEN: running the engine
	result := funding.NewEngine(nil, nil).Run(st.Input(funding.PLN, 24, ref))

	// THEN: the seed is the checking account and every payment is expanded
	assert.InDelta(t, 3500, result.Seed.Float64(), 1e-9)
	assert.InDelta(t, 5750, result.MonthlyBudget.Float64(), 1e-9)
	assert.InDelta(t, 4250, result.RemainingAfterAllocation.Float64(), 1e-9)
	// Car insurance 2024-11 and 2025-11, vacation, laptop.
	assert.Equal(t, 4, result.TotalCount)
	assert.Empty(t, result.Skipped)
}

func TestLoadStateFrom(t *testing.T) {
	// GIVEN: a store holding the demo household
	ctx := context.Background()
	mem := store.NewMemory()
	demo := household.Demo(funding.MustParseDate("2024-01-15"))
	require.NoError(t, mem.ReplaceState(ctx, demo))

	// WHEN: assembling the state from the list methods
	st, err := household.LoadStateFrom(ctx, mem)
	require.NoError(t, err)

	// THEN: it matches what was stored
	assert.Equal(t, demo.Earnings, st.Earnings)
	assert.Equal(t, demo.FuturePayments, st.FuturePayments)
	assert.Equal(t, demo.Plan, st.Plan)
}
