/*
simulator.go - Sequential funding simulation

PURPOSE:
  Decides, for each occurrence in priority order, the month its amount is
  fully funded, whether that is on or before its due month, and how much is
  missing at the due date.

KEY INSIGHT:
  There is ONE pool of money. It starts with the seed S at the reference
  month and grows by the allocation A every month. Occurrences claim the
  pool strictly in priority order: occurrence i is funded once the pool
  covers cumulative[i], the sum of every amount up to and including i.

      monthsNeeded(i) = 0                          if cumulative[i] <= S
                      = nil (never)                if A <= 0
                      = ceil((cumulative[i]-S)/A)  otherwise

ON TIME:
  monthsNeeded != nil && monthsNeeded <= dueOffset, where dueOffset is the
  signed month difference from the reference month to the due month.

SHORTFALL:
  Only for late occurrences. Funds available at the due month
  (S + A*max(0, dueOffset)) minus what higher-priority occurrences already
  claimed (cumulative[i-1]) is what this occurrence can get; the rest is
  the shortfall.

EXAMPLE:
  ref 2024-01, Insurance 1200 due 2024-07, A = 100, S = 0
  monthsNeeded = 12, dueOffset = 6, late, shortfall = 1200 - 600 = 600
*/
package funding

import "github.com/shopspring/decimal"

// Simulate runs the sequential allocation over occurrences that are already
// in priority order. Negative allocation or seed are treated as zero.
func Simulate(ordered []Occurrence, allocation, seed Money, ref Date, display Currency, rates FxTable) []FundedOccurrence {
	a := Convert(allocation, display, rates).ClampZero().Value
	s := Convert(seed, display, rates).ClampZero().Value
	refMonth := ref.CalendarMonth()

	amounts := make([]decimal.Decimal, len(ordered))
	for i, o := range ordered {
		amounts[i] = Convert(o.Amount, display, rates).Value
	}

	results := make([]FundedOccurrence, len(ordered))
	prior := decimal.Zero
	for i, o := range ordered {
		cumulative := prior.Add(amounts[i])
		dueOffset := MonthsBetween(ref, o.DueDate)

		months := monthsNeeded(cumulative, s, a)
		onTime := months != nil && *months <= dueOffset

		shortfall := decimal.Zero
		if !onTime {
			shortfall = shortfallAtDue(amounts[i], prior, s, a, dueOffset)
		}

		r := FundedOccurrence{
			Key:          o.Key,
			Name:         o.Name,
			DueDate:      o.DueDate,
			Amount:       Money{Value: amounts[i], Currency: display},
			Cumulative:   Money{Value: cumulative, Currency: display},
			MonthsNeeded: months,
			DueOffset:    dueOffset,
			OnTime:       onTime,
			Shortfall:    Money{Value: shortfall, Currency: display},
		}
		if months != nil {
			fundedBy := refMonth.AddMonths(*months)
			r.FundedBy = &fundedBy
		}
		results[i] = r
		prior = cumulative
	}
	return results
}

// monthsNeeded returns the smallest n >= 0 with s + a*n >= cumulative, or
// nil when no such n exists.
func monthsNeeded(cumulative, s, a decimal.Decimal) *int {
	if cumulative.LessThanOrEqual(s) {
		n := 0
		return &n
	}
	if !a.IsPositive() {
		return nil
	}

	need := cumulative.Sub(s)
	n := need.Div(a).Ceil()
	// Division rounds at DivisionPrecision; step back if one month fewer
	// already covers the requirement.
	if prev := n.Sub(decimal.NewFromInt(1)); prev.IsPositive() && a.Mul(prev).GreaterThanOrEqual(need) {
		n = prev
	}
	months := int(n.IntPart())
	return &months
}

func shortfallAtDue(amount, prior, s, a decimal.Decimal, dueOffset int) decimal.Decimal {
	m := dueOffset
	if m < 0 {
		m = 0
	}
	fundsByDue := s.Add(a.Mul(decimal.NewFromInt(int64(m))))
	available := decimal.Max(decimal.Zero, fundsByDue.Sub(prior))
	return decimal.Max(decimal.Zero, amount.Sub(available))
}
