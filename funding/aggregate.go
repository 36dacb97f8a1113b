package funding

// Aggregate packages simulated occurrences with the monthly budget figures.
// The monthly budget may be negative; it is reported as is.
func Aggregate(earnings, expenses []Money, allocation Money, funded []FundedOccurrence, display Currency, rates FxTable) SimulationResult {
	budget := Total(earnings, display, rates).Sub(Total(expenses, display, rates))
	alloc := Convert(allocation, display, rates)

	onTime := 0
	for _, f := range funded {
		if f.OnTime {
			onTime++
		}
	}

	if funded == nil {
		funded = []FundedOccurrence{}
	}
	return SimulationResult{
		DisplayCurrency:          display,
		MonthlyBudget:            budget,
		MonthlyAllocation:        alloc,
		RemainingAfterAllocation: budget.Sub(alloc),
		Occurrences:              funded,
		OnTimeCount:              onTime,
		TotalCount:               len(funded),
	}
}

// Late returns the occurrences that miss their due month.
func (r *SimulationResult) Late() []FundedOccurrence {
	var late []FundedOccurrence
	for _, o := range r.Occurrences {
		if !o.OnTime {
			late = append(late, o)
		}
	}
	return late
}

// TotalShortfall sums the shortfall of every late occurrence.
func (r *SimulationResult) TotalShortfall() Money {
	sum := Zero(r.DisplayCurrency)
	for _, o := range r.Occurrences {
		sum = sum.Add(o.Shortfall)
	}
	return sum
}
