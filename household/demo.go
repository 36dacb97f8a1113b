package household

import (
	"time"

	"github.com/warp/household-planner/funding"
)

// Demo returns a sample household with dates placed relative to ref: a
// yearly car insurance in November, a vacation in July and a laptop in
// March of the following year.
func Demo(ref funding.Date) *State {
	year := ref.Year()
	money := func(v int64) funding.Money { return funding.NewMoneyFromInt(v, funding.PLN) }

	return &State{
		Earnings: []funding.Earning{
			{ID: "e1", Source: "Salary", Amount: money(9000)},
			{ID: "e2", Source: "Freelance", Amount: money(1500)},
		},
		Expenses: []funding.Expense{
			{ID: "x1", Name: "Rent", Amount: money(2700)},
			{ID: "x2", Name: "Utilities", Amount: money(450)},
			{ID: "x3", Name: "Groceries", Amount: money(1200)},
			{ID: "x4", Name: "Internet", Amount: money(80)},
			{ID: "x5", Name: "Transport", Amount: money(200)},
			{ID: "x6", Name: "Subscriptions", Amount: money(120)},
		},
		Savings: []funding.Saving{
			{ID: "s1", Name: "Checking", Amount: money(3500)},
			{ID: "s2", Name: "Emergency Fund", Amount: money(10000)},
			{ID: "s3", Name: "Investments", Amount: money(15000)},
		},
		FuturePayments: []funding.FuturePayment{
			{
				ID:         "f1",
				Name:       "Car Insurance",
				Amount:     money(1200),
				DueDate:    funding.NewDate(year, time.November, 15).String(),
				Recurrence: funding.RecurrenceYearly,
			},
			{
				ID:         "f2",
				Name:       "Vacation",
				Amount:     money(4000),
				DueDate:    funding.NewDate(year, time.July, 1).String(),
				Recurrence: funding.RecurrenceOnce,
			},
			{
				ID:         "f3",
				Name:       "New Laptop",
				Amount:     money(6000),
				DueDate:    funding.NewDate(year+1, time.March, 10).String(),
				Recurrence: funding.RecurrenceOnce,
			},
		},
		Plan: funding.Plan{
			MonthlyAllocation: money(1500),
			Priority:          funding.PriorityDueDate,
			CustomOrder:       []string{},
			SeedSavingsIDs:    []string{"s1"},
		},
	}
}
