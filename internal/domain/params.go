package domain

import "fmt"

// StressFormula selects the effective-wind-stress formulation.
type StressFormula string

const (
	// FormulaGustExcess blends the gust excess over sustained wind:
	// EWS = wind + w·(gust − wind).
	FormulaGustExcess StressFormula = "gust_excess"
	// FormulaFullGust adds a weighted full gust term: EWS = wind + w·gust.
	FormulaFullGust StressFormula = "full_gust"
)

// GapPolicy controls how a calendar day without observations affects streaks.
type GapPolicy string

const (
	// GapSkip ignores missing days entirely; streaks carry across the gap.
	GapSkip GapPolicy = "skip"
	// GapReset treats a missing day as an implicit no-stress day and resets
	// all streak counters to zero.
	GapReset GapPolicy = "reset"
)

// Params holds every constant the pipeline consumes. Components receive it
// explicitly; no package-level state is read.
type Params struct {
	Formula    StressFormula
	GustWeight float64

	LoadBaseline     float64 // m/s-equivalent, daytime load baseline
	RecoveryBaseline float64 // m/s-equivalent, overnight recovery baseline
	RecoveryWindow   RecoveryWindow

	HighWindThreshold float64 // daily_load above this makes a high-wind day
	RecoveryThreshold float64 // daily_recovery_excess above this fails the night

	StrainingLoad     float64
	StrainingRecovery float64
	StrainingStreak   int
	FailureLoad       float64
	FailureRecovery   float64
	FailureStreak     int

	LoadNorm     float64
	RecoveryNorm float64
	StreakFactor float64

	GapPolicy GapPolicy
}

// ReferenceParams is the primary published preset: gust-excess stress with a
// 0.3 blend weight. Norms equal the straining thresholds so the multiplier
// reads about 2.0 at the straining boundary.
func ReferenceParams() Params {
	return Params{
		Formula:           FormulaGustExcess,
		GustWeight:        0.3,
		LoadBaseline:      20.0,
		RecoveryBaseline:  10.0,
		RecoveryWindow:    RecoveryWindow{StartHour: 22, EndHour: 6},
		HighWindThreshold: 50.0,
		RecoveryThreshold: 20.0,
		StrainingLoad:     80.0,
		StrainingRecovery: 40.0,
		StrainingStreak:   2,
		FailureLoad:       160.0,
		FailureRecovery:   80.0,
		FailureStreak:     4,
		LoadNorm:          80.0,
		RecoveryNorm:      40.0,
		StreakFactor:      0.5,
		GapPolicy:         GapSkip,
	}
}

// FullGustParams is the alternate published preset: a 0.5 full-gust term.
// The formulation roughly doubles stress excesses over the baselines, so every
// magnitude threshold and norm is doubled relative to [ReferenceParams];
// streak lengths are unchanged.
func FullGustParams() Params {
	p := ReferenceParams()
	p.Formula = FormulaFullGust
	p.GustWeight = 0.5
	p.HighWindThreshold = 80.0
	p.RecoveryThreshold = 40.0
	p.StrainingLoad = 160.0
	p.StrainingRecovery = 80.0
	p.FailureLoad = 320.0
	p.FailureRecovery = 160.0
	p.LoadNorm = 160.0
	p.RecoveryNorm = 80.0
	return p
}

// Validate checks structural validity. It deliberately does not enforce any
// ratio between straining and failure thresholds; callers may configure them
// independently.
func (p Params) Validate() error {
	switch p.Formula {
	case FormulaGustExcess, FormulaFullGust:
	default:
		return fmt.Errorf("unknown stress formula %q", p.Formula)
	}
	switch p.GapPolicy {
	case GapSkip, GapReset:
	default:
		return fmt.Errorf("unknown gap policy %q", p.GapPolicy)
	}
	if err := p.RecoveryWindow.Validate(); err != nil {
		return err
	}
	if p.GustWeight < 0 {
		return fmt.Errorf("gust weight must not be negative, got %g", p.GustWeight)
	}
	if p.LoadNorm <= 0 || p.RecoveryNorm <= 0 {
		return fmt.Errorf("gauge norms must be positive, got load=%g recovery=%g", p.LoadNorm, p.RecoveryNorm)
	}
	if p.StreakFactor < 0 {
		return fmt.Errorf("streak factor must not be negative, got %g", p.StreakFactor)
	}
	return nil
}
