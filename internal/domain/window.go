package domain

import (
	"fmt"
	"time"
)

// RecoveryWindow is the half-open hour-of-day range [StartHour, EndHour)
// during which recovery excess accrues. When EndHour ≤ StartHour the window
// wraps midnight, e.g. {22, 6} covers 22:00–24:00 and 00:00–06:00.
type RecoveryWindow struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Wraps reports whether the window crosses midnight.
func (w RecoveryWindow) Wraps() bool {
	return w.EndHour <= w.StartHour
}

// Contains reports whether the given hour of day falls inside the window.
// Membership depends only on the hour, never on the date.
func (w RecoveryWindow) Contains(hour int) bool {
	if w.Wraps() {
		return hour >= w.StartHour || hour < w.EndHour
	}
	return hour >= w.StartHour && hour < w.EndHour
}

// NightOf returns midnight UTC of the day whose recovery night the timestamp
// belongs to. For a wrapping window the early-morning tail is attributed to
// the previous calendar day, the one the night began on. The result is only
// meaningful when Contains(t.Hour()) is true.
func (w RecoveryWindow) NightOf(t time.Time) time.Time {
	day := DayOf(t)
	if w.Wraps() && t.UTC().Hour() < w.EndHour {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// Validate checks both hours are in [0, 24).
func (w RecoveryWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("recovery window hours must be in [0, 23], got %d and %d", w.StartHour, w.EndHour)
	}
	return nil
}
