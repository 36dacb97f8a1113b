package funding_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/household-planner/funding"
)

func TestMonthsBetween_IgnoresDayOfMonth(t *testing.T) {
	ref := funding.NewDate(2024, time.January, 31)

	assert.Equal(t, 0, funding.MonthsBetween(ref, funding.NewDate(2024, time.January, 1)))
	assert.Equal(t, 6, funding.MonthsBetween(ref, funding.NewDate(2024, time.July, 1)))
	assert.Equal(t, 12, funding.MonthsBetween(ref, funding.NewDate(2025, time.January, 31)))
	assert.Equal(t, -1, funding.MonthsBetween(ref, funding.NewDate(2023, time.December, 31)))
}

func TestMonth_AddMonths(t *testing.T) {
	m := funding.Month{Year: 2024, Month: time.November}

	assert.Equal(t, "2024-11", m.AddMonths(0).String())
	assert.Equal(t, "2025-01", m.AddMonths(2).String())
	assert.Equal(t, "2023-12", m.AddMonths(-11).String())
	assert.Equal(t, "2022-11", m.AddMonths(-24).String())
}

func TestMonth_DayClampsToLastDay(t *testing.T) {
	assert.Equal(t, "2025-02-28", funding.Month{Year: 2025, Month: time.February}.Day(29).String())
	assert.Equal(t, "2024-02-29", funding.Month{Year: 2024, Month: time.February}.Day(29).String())
	assert.Equal(t, "2024-04-30", funding.Month{Year: 2024, Month: time.April}.Day(31).String())
	assert.Equal(t, "2024-05-31", funding.Month{Year: 2024, Month: time.May}.Day(31).String())
}

func TestParseDate(t *testing.T) {
	d, err := funding.ParseDate("2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", d.String())

	d, err = funding.ParseDate("2024-07-01T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", d.String())

	for _, bad := range []string{"", "2024-13-01", "07/01/2024", "2024-7-1"} {
		_, err := funding.ParseDate(bad)
		assert.ErrorIs(t, err, funding.ErrInvalidDate, bad)
	}
}

