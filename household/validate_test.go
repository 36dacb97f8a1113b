package household_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

func validPayment() funding.FuturePayment {
	return funding.FuturePayment{
		ID:         "f1",
		Name:       "Insurance",
		Amount:     funding.NewMoneyFromInt(1200, funding.PLN),
		DueDate:    "2024-11-15",
		Recurrence: funding.RecurrenceYearly,
	}
}

func TestValidateFuturePayment(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *funding.FuturePayment)
		field  string
	}{
		{"valid", func(p *funding.FuturePayment) {}, ""},
		{"empty recurrence allowed", func(p *funding.FuturePayment) { p.Recurrence = "" }, ""},
		{"missing id", func(p *funding.FuturePayment) { p.ID = "  " }, "id"},
		{"hash in id", func(p *funding.FuturePayment) { p.ID = "f#1" }, "id"},
		{"negative amount", func(p *funding.FuturePayment) { p.Amount = funding.NewMoneyFromInt(-1, funding.PLN) }, "amount.value"},
		{"unknown currency", func(p *funding.FuturePayment) { p.Amount.Currency = "GBP" }, "amount.currency"},
		{"bad date", func(p *funding.FuturePayment) { p.DueDate = "15/11/2024" }, "dueDate"},
		{"bad recurrence", func(p *funding.FuturePayment) { p.Recurrence = "monthly" }, "recurrence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayment()
			tt.mutate(&p)

			err := household.ValidateFuturePayment(p)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *household.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, household.IsClientError(err))
		})
	}
}

func TestValidateRecords(t *testing.T) {
	amount := funding.NewMoneyFromInt(10, funding.EUR)

	assert.NoError(t, household.ValidateEarning(funding.Earning{ID: "e1", Source: "Salary", Amount: amount}))
	assert.Error(t, household.ValidateEarning(funding.Earning{Source: "Salary", Amount: amount}))

	assert.NoError(t, household.ValidateExpense(funding.Expense{ID: "x1", Amount: amount}))
	assert.Error(t, household.ValidateExpense(funding.Expense{ID: "x1", Amount: amount.Neg()}))

	assert.NoError(t, household.ValidateSaving(funding.Saving{ID: "s1", Amount: funding.Zero(funding.USD)}))
	assert.Error(t, household.ValidateSaving(funding.Saving{ID: "s1"}))
}

func TestValidatePlan(t *testing.T) {
	plan := household.DefaultPlan()
	assert.NoError(t, household.ValidatePlan(plan))

	plan.Priority = "random"
	assert.Error(t, household.ValidatePlan(plan))

	plan = household.DefaultPlan()
	plan.MonthlyAllocation.Currency = ""
	assert.Error(t, household.ValidatePlan(plan))
}

func TestNotFoundError(t *testing.T) {
	err := &household.NotFoundError{Kind: "expense", ID: "x9"}
	assert.True(t, household.IsNotFound(err))
	assert.False(t, household.IsClientError(err))
	assert.Contains(t, err.Error(), "x9")
}

func TestIsClientError_EngineInputErrors(t *testing.T) {
	_, err := funding.ParseCurrency("GBP")
	assert.True(t, household.IsClientError(err))

	_, err = funding.ParseDate("31/12/2024")
	assert.True(t, household.IsClientError(err))
}
