package domain

// NextStreaks is the pure state transition applied once per finalized day:
// each counter increments when its flag holds and resets to zero otherwise.
// Deterministic; the zero StreakState is the valid initial state for a run.
func NextStreaks(prev StreakState, day DailyAccumulator) StreakState {
	return StreakState{
		HighWind:       step(prev.HighWind, day.HighWindDay),
		FailedRecovery: step(prev.FailedRecovery, day.FailedRecoveryNight),
		Compound:       step(prev.Compound, day.Compound),
		NoRecovery:     step(prev.NoRecovery, day.NoRecoveryNight),
	}
}

func step(count int, qualifies bool) int {
	if qualifies {
		return count + 1
	}
	return 0
}
