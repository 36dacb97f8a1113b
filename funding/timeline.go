package funding

import "github.com/shopspring/decimal"

// =============================================================================
// FUNDING TIMELINE - Cumulative required vs available, month by month
// =============================================================================

// TimelinePoint is one month of the funding curve.
type TimelinePoint struct {
	Month     Month
	Required  Money // sum of occurrences due by this month
	Available Money // seed + allocation * months elapsed
	Covered   bool
}

// Timeline builds the month-by-month curve for a simulation result, from the
// reference month through horizonMonths months later. A negative horizon
// extends the curve to one year past the last due month.
func Timeline(result *SimulationResult, horizonMonths int) []TimelinePoint {
	display := result.DisplayCurrency
	seed := result.Seed.ClampZero().Value
	perMonth := result.MonthlyAllocation.ClampZero().Value

	requiredAt := make(map[int]decimal.Decimal)
	maxDue := 0
	for _, o := range result.Occurrences {
		idx := o.DueOffset
		if idx < 0 {
			idx = 0
		}
		if idx > maxDue {
			maxDue = idx
		}
		requiredAt[idx] = requiredAt[idx].Add(o.Amount.Value)
	}

	if horizonMonths < 0 {
		horizonMonths = maxDue + 12
	}

	start := result.ReferenceDate.CalendarMonth()
	points := make([]TimelinePoint, 0, horizonMonths+1)
	required := decimal.Zero
	for i := 0; i <= horizonMonths; i++ {
		required = required.Add(requiredAt[i])
		available := decimal.Max(decimal.Zero, seed.Add(perMonth.Mul(decimal.NewFromInt(int64(i)))))
		points = append(points, TimelinePoint{
			Month:     start.AddMonths(i),
			Required:  Money{Value: required.Round(2), Currency: display},
			Available: Money{Value: available.Round(2), Currency: display},
			Covered:   available.GreaterThanOrEqual(required),
		})
	}
	return points
}
