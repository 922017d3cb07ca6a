package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hourAt builds an HourlyStress at the given UTC day/hour.
func hourAt(day time.Time, hour int, stress float64) HourlyStress {
	return HourlyStress{Timestamp: day.Add(time.Duration(hour) * time.Hour), EffectiveStress: stress}
}

// constantDay returns 24 hourly stress values for one calendar day.
func constantDay(day time.Time, stress float64) []HourlyStress {
	out := make([]HourlyStress, 24)
	for h := range out {
		out[h] = hourAt(day, h, stress)
	}
	return out
}

func TestAggregateDaily_EmptyInput(t *testing.T) {
	days, err := AggregateDaily(nil, ReferenceParams())
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestAggregateDaily_InvalidTimestamp(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	hourly := []HourlyStress{
		hourAt(day, 10, 25),
		{EffectiveStress: 30}, // zero timestamp
	}

	_, err := AggregateDaily(hourly, ReferenceParams())

	var invalid *InvalidObservationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
}

func TestAggregateDaily_DailyLoad(t *testing.T) {
	p := ReferenceParams()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 24 hours at stress 25 with baseline 20: 5 excess per hour.
	days, err := AggregateDaily(constantDay(day, 25), p)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.Equal(t, day, days[0].Date)
	assert.InDelta(t, 120.0, days[0].DailyLoad, 1e-9)
	assert.Equal(t, 24, days[0].ObservedHours)
	assert.True(t, days[0].HighWindDay, "120 > high-wind threshold 50")
}

func TestAggregateDaily_BelowBaselineClampsToZero(t *testing.T) {
	p := ReferenceParams()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days, err := AggregateDaily(constantDay(day, 5), p)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.Zero(t, days[0].DailyLoad)
	assert.Zero(t, days[0].RecoveryExcess)
	assert.False(t, days[0].HighWindDay)
	assert.False(t, days[0].NoRecoveryNight, "peak 5 is below recovery baseline 10")
}

func TestAggregateDaily_RecoveryWindowCrossesMidnight(t *testing.T) {
	// Stress 15 at 23:00 of day N and at 01:00 of day N+1, recovery baseline
	// 10, window 22:00–06:00: both excesses of 5 belong to day N's recovery
	// night, not split across the two calendar days.
	p := ReferenceParams()
	dayN := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	dayN1 := dayN.AddDate(0, 0, 1)

	hourly := []HourlyStress{
		hourAt(dayN, 23, 15),
		hourAt(dayN1, 1, 15),
	}

	days, err := AggregateDaily(hourly, p)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, dayN, days[0].Date)
	assert.InDelta(t, 10.0, days[0].RecoveryExcess, 1e-9)
	assert.InDelta(t, 15.0, days[0].PeakRecoveryStress, 1e-9)

	assert.Equal(t, dayN1, days[1].Date)
	assert.Zero(t, days[1].RecoveryExcess)
	assert.Equal(t, 1, days[1].ObservedHours)
}

func TestAggregateDaily_DaytimeHoursSkipRecovery(t *testing.T) {
	p := ReferenceParams()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days, err := AggregateDaily([]HourlyStress{hourAt(day, 12, 40)}, p)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.InDelta(t, 20.0, days[0].DailyLoad, 1e-9)
	assert.Zero(t, days[0].RecoveryExcess)
	assert.Zero(t, days[0].PeakRecoveryStress)
}

func TestAggregateDaily_GapDayProducesNothing(t *testing.T) {
	p := ReferenceParams()
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day3 := day1.AddDate(0, 0, 2) // day 2 has no observations

	var hourly []HourlyStress
	hourly = append(hourly, constantDay(day1, 25)...)
	hourly = append(hourly, constantDay(day3, 25)...)

	days, err := AggregateDaily(hourly, p)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, day1, days[0].Date)
	assert.Equal(t, day3, days[1].Date)
}

func TestAggregateDaily_AccumulatorsNonNegative(t *testing.T) {
	p := ReferenceParams()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Mix of below-baseline, negative, and above-baseline stress values.
	hourly := []HourlyStress{
		hourAt(day, 0, -12),
		hourAt(day, 1, 0),
		hourAt(day, 2, 8),
		hourAt(day, 12, 3),
		hourAt(day, 23, 55),
	}

	days, err := AggregateDaily(hourly, p)
	require.NoError(t, err)
	for _, d := range days {
		assert.GreaterOrEqual(t, d.DailyLoad, 0.0)
		assert.GreaterOrEqual(t, d.RecoveryExcess, 0.0)
	}
}

func TestAggregateDaily_CumulativeSumsMonotone(t *testing.T) {
	p := ReferenceParams()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var hourly []HourlyStress
	for i, stress := range []float64{35, 5, 60, 12, 28} {
		hourly = append(hourly, constantDay(start.AddDate(0, 0, i), stress)...)
	}

	days, err := AggregateDaily(hourly, p)
	require.NoError(t, err)
	require.Len(t, days, 5)

	for i := 1; i < len(days); i++ {
		assert.GreaterOrEqual(t, days[i].CumulativeLoad, days[i-1].CumulativeLoad)
		assert.GreaterOrEqual(t, days[i].CumulativeRecoveryExcess, days[i-1].CumulativeRecoveryExcess)
	}
	last := days[len(days)-1]
	assert.InDelta(t, last.CumulativeLoad, sumLoads(days), 1e-9)
}

func sumLoads(days []DailyAccumulator) float64 {
	var total float64
	for _, d := range days {
		total += d.DailyLoad
	}
	return total
}

func TestAggregateDaily_NoRecoveryNightUsesPeak(t *testing.T) {
	// A single windy recovery hour marks the night even when the summed
	// excess stays under the failed-night threshold.
	p := ReferenceParams()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days, err := AggregateDaily([]HourlyStress{hourAt(day, 23, 14)}, p)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.True(t, days[0].NoRecoveryNight, "peak 14 exceeds recovery baseline 10")
	assert.False(t, days[0].FailedRecoveryNight, "excess 4 is under recovery threshold 20")
}
