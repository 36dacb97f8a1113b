// Package storetest runs the behaviour every household.Store must share.
//
//	func TestMemory(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) household.Store { return store.NewMemory() })
//	}
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) household.Store

// Run executes the shared store tests against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s household.Store)
	}{
		{"EmptyStore", testEmptyStore},
		{"SaveListKeepsInsertionOrder", testInsertionOrder},
		{"SaveUpsertsInPlace", testUpsert},
		{"DeleteRemovesRecord", testDelete},
		{"DeleteMissingIsNotFound", testDeleteMissing},
		{"SaveRejectsInvalidRecord", testRejectInvalid},
		{"PlanRoundTrip", testPlan},
		{"AmountsKeepPrecision", testPrecision},
		{"ReplaceStateSwapsEverything", testReplaceState},
		{"ReplaceStateRejectsInvalidAtomically", testReplaceStateInvalid},
		{"ResetClearsEverything", testReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func pln(v int64) funding.Money { return funding.NewMoneyFromInt(v, funding.PLN) }

func testEmptyStore(t *testing.T, s household.Store) {
	ctx := context.Background()

	st, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Earnings)
	assert.Empty(t, st.Expenses)
	assert.Empty(t, st.Savings)
	assert.Empty(t, st.FuturePayments)

	plan, err := s.GetPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, funding.PriorityDueDate, plan.Priority)
	assert.True(t, plan.MonthlyAllocation.IsZero())
	assert.Equal(t, funding.PLN, plan.MonthlyAllocation.Currency)
	assert.Empty(t, plan.CustomOrder)
	assert.Empty(t, plan.SeedSavingsIDs)
}

func testInsertionOrder(t *testing.T, s household.Store) {
	ctx := context.Background()

	// GIVEN: three expenses saved out of alphabetical order
	for _, x := range []funding.Expense{
		{ID: "x3", Name: "Rent", Amount: pln(2700)},
		{ID: "x1", Name: "Food", Amount: pln(1200)},
		{ID: "x2", Name: "Phone", Amount: pln(80)},
	} {
		require.NoError(t, s.SaveExpense(ctx, x))
	}

	// WHEN: listing
	got, err := s.ListExpenses(ctx)
	require.NoError(t, err)

	// THEN: they come back in the order they were saved
	require.Len(t, got, 3)
	assert.Equal(t, "x3", got[0].ID)
	assert.Equal(t, "x1", got[1].ID)
	assert.Equal(t, "x2", got[2].ID)
}

func testUpsert(t *testing.T, s household.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveEarning(ctx, funding.Earning{ID: "e1", Source: "Salary", Amount: pln(9000)}))
	require.NoError(t, s.SaveEarning(ctx, funding.Earning{ID: "e2", Source: "Freelance", Amount: pln(1500)}))

	// WHEN: saving e1 again with a new amount
	require.NoError(t, s.SaveEarning(ctx, funding.Earning{ID: "e1", Source: "Salary", Amount: pln(9500)}))

	// THEN: it is replaced without moving
	got, err := s.ListEarnings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.InDelta(t, 9500, got[0].Amount.Float64(), 1e-9)
}

func testDelete(t *testing.T, s household.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveSaving(ctx, funding.Saving{ID: "s1", Name: "Checking", Amount: pln(100)}))
	require.NoError(t, s.SaveSaving(ctx, funding.Saving{ID: "s2", Name: "Emergency", Amount: pln(200)}))

	require.NoError(t, s.DeleteSaving(ctx, "s1"))

	got, err := s.ListSavings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)
}

func testDeleteMissing(t *testing.T, s household.Store) {
	ctx := context.Background()

	for _, del := range []func(context.Context, string) error{
		s.DeleteEarning, s.DeleteExpense, s.DeleteSaving, s.DeleteFuturePayment,
	} {
		err := del(ctx, "missing")
		require.Error(t, err)
		assert.True(t, household.IsNotFound(err))
	}
}

func testRejectInvalid(t *testing.T, s household.Store) {
	ctx := context.Background()

	err := s.SaveFuturePayment(ctx, funding.FuturePayment{
		ID: "f1", Name: "Broken", Amount: pln(10), DueDate: "not-a-date",
	})
	require.Error(t, err)
	assert.True(t, household.IsClientError(err))

	got, err := s.ListFuturePayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testPlan(t *testing.T, s household.Store) {
	ctx := context.Background()

	plan := funding.Plan{
		MonthlyAllocation: funding.NewMoney(250.5, funding.EUR),
		Priority:          funding.PriorityCustom,
		CustomOrder:       []string{"f2", "f1"},
		SeedSavingsIDs:    []string{"s1"},
	}
	require.NoError(t, s.SavePlan(ctx, plan))

	got, err := s.GetPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, funding.EUR, got.MonthlyAllocation.Currency)
	assert.True(t, plan.MonthlyAllocation.Value.Equal(got.MonthlyAllocation.Value))
	assert.Equal(t, funding.PriorityCustom, got.Priority)
	assert.Equal(t, []string{"f2", "f1"}, got.CustomOrder)
	assert.Equal(t, []string{"s1"}, got.SeedSavingsIDs)
}

func testPrecision(t *testing.T, s household.Store) {
	ctx := context.Background()

	amount := funding.NewMoney(1234.56, funding.USD)
	p := funding.FuturePayment{
		ID: "f1", Name: "Tax", Amount: amount, DueDate: "2024-04-30", Recurrence: funding.RecurrenceYearly,
	}
	require.NoError(t, s.SaveFuturePayment(ctx, p))

	got, err := s.ListFuturePayments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, amount.Value.Equal(got[0].Amount.Value))
	assert.Equal(t, funding.USD, got[0].Amount.Currency)
	assert.Equal(t, "2024-04-30", got[0].DueDate)
	assert.Equal(t, funding.RecurrenceYearly, got[0].Recurrence)
}

func testReplaceState(t *testing.T, s household.Store) {
	ctx := context.Background()

	// GIVEN: a store with an unrelated record
	require.NoError(t, s.SaveExpense(ctx, funding.Expense{ID: "old", Name: "Old", Amount: pln(1)}))

	// WHEN: replacing with the demo household
	demo := household.Demo(funding.MustParseDate("2024-01-15"))
	require.NoError(t, s.ReplaceState(ctx, demo))

	// THEN: only the demo records remain
	st, err := s.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, st.Expenses, len(demo.Expenses))
	for i := range demo.Expenses {
		assert.Equal(t, demo.Expenses[i].ID, st.Expenses[i].ID)
	}
	assert.Len(t, st.Earnings, len(demo.Earnings))
	assert.Len(t, st.Savings, len(demo.Savings))
	require.Len(t, st.FuturePayments, len(demo.FuturePayments))
	assert.Equal(t, demo.FuturePayments[0].DueDate, st.FuturePayments[0].DueDate)
	assert.Equal(t, demo.Plan.SeedSavingsIDs, st.Plan.SeedSavingsIDs)
	assert.True(t, demo.Plan.MonthlyAllocation.Value.Equal(st.Plan.MonthlyAllocation.Value))
}

func testReplaceStateInvalid(t *testing.T, s household.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveExpense(ctx, funding.Expense{ID: "keep", Name: "Keep", Amount: pln(1)}))

	// GIVEN: a state whose last payment is broken
	bad := household.Demo(funding.MustParseDate("2024-01-15"))
	bad.FuturePayments[2].DueDate = "soon"

	// WHEN: replacing
	err := s.ReplaceState(ctx, bad)

	// THEN: it fails and the old data is untouched
	require.Error(t, err)
	assert.True(t, household.IsClientError(err))
	got, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}

func testReset(t *testing.T, s household.Store) {
	ctx := context.Background()

	require.NoError(t, s.ReplaceState(ctx, household.Demo(funding.MustParseDate("2024-01-15"))))
	require.NoError(t, s.Reset(ctx))

	st, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Earnings)
	assert.Empty(t, st.Expenses)
	assert.Empty(t, st.Savings)
	assert.Empty(t, st.FuturePayments)
	assert.True(t, st.Plan.MonthlyAllocation.IsZero())
	assert.Equal(t, funding.PriorityDueDate, st.Plan.Priority)
	assert.Empty(t, st.Plan.SeedSavingsIDs)
}
