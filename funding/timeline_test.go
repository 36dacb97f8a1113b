package funding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/household-planner/funding"
)

func insuranceResult(allocation float64) *funding.SimulationResult {
	return funding.NewEngine(nil, nil).Run(funding.Input{
		FuturePayments:  []funding.FuturePayment{payment("insurance", pln(1200), "2024-07-01")},
		Plan:            funding.Plan{MonthlyAllocation: pln(allocation)},
		DisplayCurrency: funding.PLN,
		HorizonMonths:   12,
		ReferenceDate:   jan2024(),
	})
}

func TestTimeline_RequiredStepsAtDueMonth(t *testing.T) {
	points := funding.Timeline(insuranceResult(200), 8)

	require.Len(t, points, 9)
	assert.Equal(t, "2024-01", points[0].Month.String())
	assert.Equal(t, "2024-09", points[8].Month.String())

	for i := 0; i < 6; i++ {
		assert.True(t, points[i].Required.IsZero(), "month %d", i)
		assertValue(t, float64(200*i), points[i].Available)
		assert.True(t, points[i].Covered)
	}
	assertValue(t, 1200, points[6].Required)
	assertValue(t, 1200, points[6].Available)
	assert.True(t, points[6].Covered)
}

func TestTimeline_UncoveredWhenAllocationTooSmall(t *testing.T) {
	points := funding.Timeline(insuranceResult(100), 12)

	assert.False(t, points[6].Covered)
	assert.True(t, points[12].Covered)
}

func TestTimeline_DefaultHorizonExtendsPastLastDue(t *testing.T) {
	points := funding.Timeline(insuranceResult(200), -1)

	// last due offset 6, plus one year
	assert.Len(t, points, 19)
}

func TestTimeline_EmptyResult(t *testing.T) {
	result := funding.NewEngine(nil, nil).Run(funding.Input{ReferenceDate: jan2024()})

	points := funding.Timeline(result, -1)

	assert.Len(t, points, 13)
	for _, p := range points {
		assert.True(t, p.Covered)
	}
}
