// Command validate performs integrity checks on a wind observation CSV
// before it is fed to the pipeline: schema and value validity, temporal
// coverage, physical plausibility, and derived-metric sanity.
//
// Usage:
//
//	go run ./cmd/validate -csv testdata/samples/cyclone.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/ingest"
	"github.com/couchcryptid/wind-risk-pipeline/internal/observability"
)

// Speeds above this are treated as sensor faults, not weather.
const maxPlausibleSpeed = 120.0

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the observation CSV to validate")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	fmt.Println("=== Wind Observation Integrity Validation ===")
	fmt.Println()

	logger := observability.NewLogger("error", "text")
	src := ingest.NewCSVSource(csvPath, logger)
	obs, err := src.Fetch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}
	if len(obs) == 0 {
		fmt.Fprintln(os.Stderr, "FATAL: no observation rows")
		return 1
	}

	phases := []*phase{
		validateTemporal(obs),
		validatePlausibility(obs),
		validateDerivedMetrics(obs),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d, span: %s to %s\n", len(obs),
		obs[0].Timestamp.Format(time.RFC3339),
		obs[len(obs)-1].Timestamp.Format(time.RFC3339))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Temporal Integrity ──
// Observations must sit on hour boundaries with no duplicates, and days with
// partial coverage are reported.

func validateTemporal(obs []domain.HourlyObservation) *phase {
	p := &phase{name: "Phase 1: Temporal Integrity"}

	seen := map[time.Time]int{}
	hoursPerDay := map[time.Time]int{}
	var gaps int

	for i, o := range obs {
		ts := o.Timestamp.UTC()
		if !ts.Equal(ts.Truncate(time.Hour)) {
			p.errorf("row %d: timestamp %s is not on an hour boundary", i, ts.Format(time.RFC3339))
		}
		if prev, dup := seen[ts]; dup {
			p.errorf("row %d: duplicate timestamp %s (first at row %d)", i, ts.Format(time.RFC3339), prev)
		}
		seen[ts] = i
		hoursPerDay[domain.DayOf(ts)]++

		if i > 0 {
			delta := ts.Sub(obs[i-1].Timestamp.UTC())
			if delta > time.Hour {
				gaps++
				fmt.Printf("  gap: %s missing before %s (%v)\n",
					obs[i-1].Timestamp.Add(time.Hour).Format(time.RFC3339),
					ts.Format(time.RFC3339), delta-time.Hour)
			}
		}
	}

	partial := 0
	for day, hours := range hoursPerDay {
		if hours < 24 {
			partial++
			fmt.Printf("  partial day: %s has %d/24 hours\n", day.Format(time.DateOnly), hours)
		}
	}
	fmt.Printf("  days: %d total, %d partial, %d gap(s)\n", len(hoursPerDay), partial, gaps)

	return p
}

// ── Phase 2: Physical Plausibility ──

func validatePlausibility(obs []domain.HourlyObservation) *phase {
	p := &phase{name: "Phase 2: Physical Plausibility"}

	for i, o := range obs {
		if o.WindSpeed > maxPlausibleSpeed {
			p.errorf("row %d: wind %.1f m/s exceeds plausible maximum %.0f", i, o.WindSpeed, maxPlausibleSpeed)
		}
		if o.GustSpeed == nil {
			continue
		}
		if *o.GustSpeed > maxPlausibleSpeed {
			p.errorf("row %d: gust %.1f m/s exceeds plausible maximum %.0f", i, *o.GustSpeed, maxPlausibleSpeed)
		}
		if *o.GustSpeed < o.WindSpeed {
			p.errorf("row %d: gust %.1f below sustained wind %.1f", i, *o.GustSpeed, o.WindSpeed)
		}
	}
	return p
}

// ── Phase 3: Derived-Metric Sanity ──
// Runs the full evaluation and checks the structural invariants of its
// output.

func validateDerivedMetrics(obs []domain.HourlyObservation) *phase {
	p := &phase{name: "Phase 3: Derived-Metric Sanity"}

	result, err := domain.EvaluateDataset("validate", obs, domain.ReferenceParams())
	if err != nil {
		p.errorf("evaluation failed: %v", err)
		return p
	}
	if len(result.Hourly) != len(obs) {
		p.errorf("hourly count: expected %d, got %d", len(obs), len(result.Hourly))
	}

	var prevCumLoad, prevCumRecovery float64
	for i, rec := range result.Days {
		d := rec.Day
		id := d.Date.Format(time.DateOnly)

		if d.DailyLoad < 0 || d.RecoveryExcess < 0 || d.PeakRecoveryStress < 0 {
			p.errorf("%s: negative accumulator", id)
		}
		if d.ObservedHours < 1 || d.ObservedHours > 24 {
			p.errorf("%s: observed hours %d out of range", id, d.ObservedHours)
		}
		if d.CumulativeLoad < prevCumLoad || d.CumulativeRecoveryExcess < prevCumRecovery {
			p.errorf("%s: cumulative sums decreased", id)
		}
		prevCumLoad, prevCumRecovery = d.CumulativeLoad, d.CumulativeRecoveryExcess

		if d.Compound != (d.HighWindDay && d.FailedRecoveryNight) {
			p.errorf("%s: compound flag inconsistent with its components", id)
		}
		if rec.Multiplier < 1 {
			p.errorf("%s: multiplier %.3f below floor 1.0", id, rec.Multiplier)
		}
		if rec.Level != int(rec.State) {
			p.errorf("%s: level %d does not match state %s", id, rec.Level, rec.State)
		}
		if i > 0 && !result.Days[i-1].Date.Before(rec.Date) {
			p.errorf("%s: days out of order", id)
		}
	}

	stateCounts := map[domain.RiskState]int{}
	for _, rec := range result.Days {
		stateCounts[rec.State]++
	}
	fmt.Printf("  classified days: %d Stable, %d Straining, %d Failure\n",
		stateCounts[domain.StateStable], stateCounts[domain.StateStraining], stateCounts[domain.StateFailure])

	return p
}
