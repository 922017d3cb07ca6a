package domain

import "time"

// EvaluateDataset runs the full metric sequence for one dataset: hourly stress
// transform, windowed daily aggregation, streak tracking, classification, and
// the escalation gauge. The streak state starts at zero and lives exactly as
// long as the call; independent datasets never share state.
func EvaluateDataset(label string, obs []HourlyObservation, p Params) (DatasetResult, error) {
	hourly := ComputeHourlyStress(obs, p)
	days, err := AggregateDaily(hourly, p)
	if err != nil {
		return DatasetResult{}, err
	}

	records := make([]RiskRecord, 0, len(days))
	var streaks StreakState
	var prevDate time.Time
	for _, day := range days {
		if p.GapPolicy == GapReset && !prevDate.IsZero() && day.Date.Sub(prevDate) > 24*time.Hour {
			streaks = StreakState{}
		}
		streaks = NextStreaks(streaks, day)
		state := ClassifyRisk(day, streaks, p)
		records = append(records, RiskRecord{
			Date:       day.Date,
			Day:        day,
			Streaks:    streaks,
			State:      state,
			Level:      int(state),
			Multiplier: EscalationMultiplier(day, streaks, p),
			ComputedAt: clock.Now(),
		})
		prevDate = day.Date
	}

	result := DatasetResult{
		Label:  label,
		Hourly: hourly,
		Days:   records,
	}
	if n := len(days); n > 0 {
		result.CumulativeLoad = days[n-1].CumulativeLoad
		result.CumulativeRecoveryExcess = days[n-1].CumulativeRecoveryExcess
	}
	return result, nil
}
