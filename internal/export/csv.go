// Package export persists classified datasets: one CSV of daily metrics per
// dataset and a SQLite table keyed by dataset and date.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

var csvHeader = []string{
	"date",
	"daily_load", "recovery_excess", "peak_recovery_stress", "observed_hours",
	"high_wind_day", "failed_recovery_night", "compound", "no_recovery_night",
	"high_wind_streak", "failed_recovery_streak", "compound_streak", "no_recovery_streak",
	"cumulative_load", "cumulative_recovery_excess",
	"risk_state", "risk_level", "escalation_multiplier",
}

// CSVSink writes one <label>_daily_metrics.csv per dataset into a directory.
// It implements pipeline.RecordSink.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink creates the output directory if needed.
func NewCSVSink(dir string, logger *slog.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &CSVSink{dir: dir, logger: logger}, nil
}

// Write replaces the dataset's metrics file with one row per classified day.
func (s *CSVSink) Write(_ context.Context, result domain.DatasetResult) error {
	path := filepath.Join(s.dir, result.Label+"_daily_metrics.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range result.Days {
		if err := w.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("write row for %s: %w", rec.Date.Format(time.DateOnly), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush metrics csv: %w", err)
	}
	s.logger.Info("daily metrics written", "dataset", result.Label, "path", path, "days", len(result.Days))
	return nil
}

func recordRow(rec domain.RiskRecord) []string {
	d := rec.Day
	return []string{
		rec.Date.Format(time.DateOnly),
		formatFloat(d.DailyLoad),
		formatFloat(d.RecoveryExcess),
		formatFloat(d.PeakRecoveryStress),
		strconv.Itoa(d.ObservedHours),
		formatBool(d.HighWindDay),
		formatBool(d.FailedRecoveryNight),
		formatBool(d.Compound),
		formatBool(d.NoRecoveryNight),
		strconv.Itoa(rec.Streaks.HighWind),
		strconv.Itoa(rec.Streaks.FailedRecovery),
		strconv.Itoa(rec.Streaks.Compound),
		strconv.Itoa(rec.Streaks.NoRecovery),
		formatFloat(d.CumulativeLoad),
		formatFloat(d.CumulativeRecoveryExcess),
		rec.State.String(),
		strconv.Itoa(rec.Level),
		formatFloat(rec.Multiplier),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
