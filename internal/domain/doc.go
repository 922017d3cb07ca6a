// Package domain models compound wind-damage risk derived from hourly
// wind observations.
//
// # Metric Hierarchy
//
// Hourly:
//
//	EWS (effective wind stress) — blends sustained wind and gust contribution.
//	Two published formulations exist and are selectable via [Params.Formula]:
//	  gust_excess: EWS = wind + w·(gust − wind)   (w defaults to 0.3)
//	  full_gust:   EWS = wind + w·gust            (w defaults to 0.5)
//	A row without a gust reading falls back to EWS = wind under either formula.
//
// Daily:
//
//	daily_load            — Σ max(EWS − load_baseline, 0) over a calendar day;
//	                        proxy for daytime structural fatigue.
//	daily_recovery_excess — Σ max(EWS − recovery_baseline, 0) restricted to the
//	                        overnight recovery window; proxy for failed
//	                        overnight recovery.
//	cumulative sums of both, monotone non-decreasing across the run.
//
// # Recovery Nights
//
// The recovery window is an hour-of-day range that may wrap midnight
// (default 22:00–06:00). When it wraps, all hours of one night are attributed
// to the calendar day on which the night begins: hours 22–23 of day N and
// hours 00–05 of day N+1 both count toward day N's recovery-night total.
// See [RecoveryWindow.NightOf].
//
// # Day Flags and Streaks
//
//	high_wind_day         — daily_load > high-wind threshold
//	failed_recovery_night — daily_recovery_excess > recovery threshold
//	compound              — both of the above on the same day
//	no_recovery_night     — peak EWS inside the night's recovery window
//	                        exceeded the recovery baseline
//
// Each flag carries a streak counter: +1 on every consecutive qualifying day,
// reset to 0 the first day the flag is false. Calendar days with no
// observations produce no daily row; whether they also reset streaks is
// controlled by [Params.GapPolicy].
//
// # Risk States
//
// Each day maps to one of three ordered states, evaluated Failure first:
//
//	Failure:   daily_load ≥ failure load OR daily_recovery_excess ≥ failure
//	           recovery OR compound streak ≥ failure streak length
//	Straining: same shape against the straining thresholds
//	Stable:    neither
//
// Independently of the discrete state, the escalation multiplier
//
//	1 + daily_load/load_norm + daily_recovery_excess/recovery_norm
//	  + compound_streak·streak_factor
//
// gives a continuous, unbounded strain gauge (≥ 1 by construction).
//
// All constants live in [Params]; nothing in this package reads ambient
// configuration. [ReferenceParams] and [FullGustParams] are the two published
// presets. The numbers illustrate compound wind damage for a lay audience and
// carry no meteorological or engineering authority.
package domain
