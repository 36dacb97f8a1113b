package funding_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/household-planner/funding"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func pln(v float64) funding.Money { return funding.NewMoney(v, funding.PLN) }
func usd(v float64) funding.Money { return funding.NewMoney(v, funding.USD) }
func eur(v float64) funding.Money { return funding.NewMoney(v, funding.EUR) }

func jan2024() funding.Date { return funding.NewDate(2024, time.January, 1) }

func payment(id string, amount funding.Money, due string) funding.FuturePayment {
	return funding.FuturePayment{ID: id, Name: id, Amount: amount, DueDate: due, Recurrence: funding.RecurrenceOnce}
}

func yearly(id string, amount funding.Money, due string) funding.FuturePayment {
	return funding.FuturePayment{ID: id, Name: id, Amount: amount, DueDate: due, Recurrence: funding.RecurrenceYearly}
}

func occurrence(id string, amount funding.Money, due string) funding.Occurrence {
	return funding.Occurrence{
		Key:     funding.OccurrenceKey{SourceID: id},
		Name:    id,
		Amount:  amount,
		DueDate: funding.MustParseDate(due),
	}
}

func keys(occs []funding.Occurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Key.String()
	}
	return out
}

func assertValue(t *testing.T, want float64, got funding.Money, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, got.Float64(), 1e-6, msgAndArgs...)
}
