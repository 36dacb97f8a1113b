package funding

// Summary is the household overview in one currency. Future payments are
// totalled from their source records, without recurrence expansion.
type Summary struct {
	Currency       Currency
	Earnings       Money
	Expenses       Money
	Balance        Money // earnings - expenses, per month
	Savings        Money
	FuturePayments Money
}

func Summarize(earnings []Earning, expenses []Expense, savings []Saving, payments []FuturePayment, display Currency, rates FxTable) Summary {
	savingAmounts := make([]Money, len(savings))
	for i, s := range savings {
		savingAmounts[i] = s.Amount
	}
	paymentAmounts := make([]Money, len(payments))
	for i, p := range payments {
		paymentAmounts[i] = p.Amount
	}

	in := Total(moneyOfEarnings(earnings), display, rates)
	out := Total(moneyOfExpenses(expenses), display, rates)
	return Summary{
		Currency:       display,
		Earnings:       in,
		Expenses:       out,
		Balance:        in.Sub(out),
		Savings:        Total(savingAmounts, display, rates),
		FuturePayments: Total(paymentAmounts, display, rates),
	}
}
