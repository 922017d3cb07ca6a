package domain

// ClassifyRisk maps a day and its streak snapshot to a discrete risk state.
// Predicates are checked in strict descending precedence: a day satisfying
// both the Failure and Straining conditions classifies as Failure.
func ClassifyRisk(day DailyAccumulator, streaks StreakState, p Params) RiskState {
	if day.DailyLoad >= p.FailureLoad ||
		day.RecoveryExcess >= p.FailureRecovery ||
		streaks.Compound >= p.FailureStreak {
		return StateFailure
	}
	if day.DailyLoad >= p.StrainingLoad ||
		day.RecoveryExcess >= p.StrainingRecovery ||
		streaks.Compound >= p.StrainingStreak {
		return StateStraining
	}
	return StateStable
}

// EscalationMultiplier computes the continuous strain gauge for a day.
// Always at least 1 and unbounded above; no clamping.
func EscalationMultiplier(day DailyAccumulator, streaks StreakState, p Params) float64 {
	return 1.0 +
		day.DailyLoad/p.LoadNorm +
		day.RecoveryExcess/p.RecoveryNorm +
		float64(streaks.Compound)*p.StreakFactor
}
