package domain

import "time"

// HourlyObservation is one validated input row. Timestamps are expected to
// arrive in non-decreasing order; gaps are represented by simple absence of a
// row. Optional readings use pointers so an unreported value is distinguishable
// from zero.
type HourlyObservation struct {
	Timestamp     time.Time `json:"timestamp"`
	WindSpeed     float64   `json:"wind_speed_ms"`
	GustSpeed     *float64  `json:"gust_ms,omitempty"`
	Rainfall      *float64  `json:"rainfall_mm,omitempty"`
	FuelDryness   *float64  `json:"fuel_dryness_index,omitempty"`
	Vulnerability *float64  `json:"infrastructure_vulnerability,omitempty"`
}

// HourlyStress is the derived per-hour stress value.
type HourlyStress struct {
	Timestamp       time.Time `json:"timestamp"`
	EffectiveStress float64   `json:"effective_stress"`
}

// DailyAccumulator is the finalized per-calendar-day aggregate. Date is
// midnight UTC of the day. Recovery fields cover the night that begins on
// Date, which may include early-morning hours of the following calendar day.
type DailyAccumulator struct {
	Date                     time.Time `json:"date"`
	DailyLoad                float64   `json:"daily_load"`
	RecoveryExcess           float64   `json:"daily_recovery_excess"`
	PeakRecoveryStress       float64   `json:"peak_recovery_stress"`
	ObservedHours            int       `json:"observed_hours"`
	HighWindDay              bool      `json:"high_wind_day"`
	FailedRecoveryNight      bool      `json:"failed_recovery_night"`
	Compound                 bool      `json:"compound"`
	NoRecoveryNight          bool      `json:"no_recovery_night"`
	CumulativeLoad           float64   `json:"cumulative_load"`
	CumulativeRecoveryExcess float64   `json:"cumulative_recovery_excess"`
}

// StreakState holds the running consecutive-day counters for one dataset run.
type StreakState struct {
	HighWind       int `json:"high_wind_streak"`
	FailedRecovery int `json:"failed_recovery_streak"`
	Compound       int `json:"compound_streak"`
	NoRecovery     int `json:"no_recovery_streak"`
}

// RiskState is the ordered discrete classification for one day.
type RiskState int

const (
	StateStable RiskState = iota
	StateStraining
	StateFailure
)

// String returns the display name used in charts, exports, and logs.
func (s RiskState) String() string {
	switch s {
	case StateStable:
		return "Stable"
	case StateStraining:
		return "Straining"
	case StateFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// RiskRecord is one output row per observed day: the day's accumulator, the
// streak snapshot after that day, the classification, and the escalation
// multiplier. Level is the ordinal of State for numeric consumers.
type RiskRecord struct {
	Date       time.Time        `json:"date"`
	Day        DailyAccumulator `json:"day"`
	Streaks    StreakState      `json:"streaks"`
	State      RiskState        `json:"risk_state"`
	Level      int              `json:"risk_level"`
	Multiplier float64          `json:"risk_multiplier"`
	ComputedAt time.Time        `json:"computed_at"`
}

// DatasetResult is the complete output for one dataset run, handed to the
// export and visualization sinks.
type DatasetResult struct {
	Label                    string         `json:"label"`
	Hourly                   []HourlyStress `json:"hourly"`
	Days                     []RiskRecord   `json:"days"`
	CumulativeLoad           float64        `json:"cumulative_load"`
	CumulativeRecoveryExcess float64        `json:"cumulative_recovery_excess"`
}

// DayOf truncates a timestamp to midnight UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
