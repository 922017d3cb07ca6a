package domain

import (
	"fmt"
	"sort"
	"time"
)

// InvalidObservationError reports a row the aggregator cannot place in time.
// Index is the position of the offending record in the input sequence.
type InvalidObservationError struct {
	Index int
}

func (e *InvalidObservationError) Error() string {
	return fmt.Sprintf("invalid observation at index %d: missing or zero timestamp", e.Index)
}

// dayBucket collects contributions for one calendar day while streaming.
type dayBucket struct {
	load          float64
	recovery      float64
	peakRecovery  float64
	observedHours int
}

// AggregateDaily groups an ordered hourly stress sequence into finalized
// per-day accumulators, in chronological order.
//
// Load excess is attributed to the hour's own calendar day. Recovery excess is
// attributed to the day whose night the hour belongs to, so for a window that
// wraps midnight the early-morning tail counts toward the previous day's
// recovery night. Days with zero observed calendar hours are skipped entirely:
// they produce no accumulator, and night spill-over attributed to such a day
// (the morning tail of a dataset's very first day, or of a day after a gap) is
// dropped with it.
//
// A zero-length input yields an empty result, not an error.
func AggregateDaily(hourly []HourlyStress, p Params) ([]DailyAccumulator, error) {
	buckets := make(map[time.Time]*dayBucket)

	bucket := func(day time.Time) *dayBucket {
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{}
			buckets[day] = b
		}
		return b
	}

	for i, h := range hourly {
		if h.Timestamp.IsZero() {
			return nil, &InvalidObservationError{Index: i}
		}

		day := DayOf(h.Timestamp)
		b := bucket(day)
		b.observedHours++
		if excess := h.EffectiveStress - p.LoadBaseline; excess > 0 {
			b.load += excess
		}

		if !p.RecoveryWindow.Contains(h.Timestamp.UTC().Hour()) {
			continue
		}
		night := bucket(p.RecoveryWindow.NightOf(h.Timestamp))
		if excess := h.EffectiveStress - p.RecoveryBaseline; excess > 0 {
			night.recovery += excess
		}
		if h.EffectiveStress > night.peakRecovery {
			night.peakRecovery = h.EffectiveStress
		}
	}

	dates := make([]time.Time, 0, len(buckets))
	for day, b := range buckets {
		if b.observedHours == 0 {
			continue
		}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := make([]DailyAccumulator, 0, len(dates))
	var cumLoad, cumRecovery float64
	for _, date := range dates {
		b := buckets[date]
		cumLoad += b.load
		cumRecovery += b.recovery

		highWind := b.load > p.HighWindThreshold
		failedNight := b.recovery > p.RecoveryThreshold
		days = append(days, DailyAccumulator{
			Date:                     date,
			DailyLoad:                b.load,
			RecoveryExcess:           b.recovery,
			PeakRecoveryStress:       b.peakRecovery,
			ObservedHours:            b.observedHours,
			HighWindDay:              highWind,
			FailedRecoveryNight:      failedNight,
			Compound:                 highWind && failedNight,
			NoRecoveryNight:          b.peakRecovery > p.RecoveryBaseline,
			CumulativeLoad:           cumLoad,
			CumulativeRecoveryExcess: cumRecovery,
		})
	}
	return days, nil
}
