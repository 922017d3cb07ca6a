package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Store persists risk days to SQLite. It implements pipeline.RecordSink;
// re-running a dataset replaces its rows in place.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens or creates the SQLite database at dbPath.
func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS risk_days (
			dataset                    TEXT NOT NULL,
			date                       TEXT NOT NULL,
			daily_load                 REAL NOT NULL,
			recovery_excess            REAL NOT NULL,
			peak_recovery_stress       REAL NOT NULL,
			observed_hours             INTEGER NOT NULL,
			high_wind_day              INTEGER NOT NULL,
			failed_recovery_night      INTEGER NOT NULL,
			compound                   INTEGER NOT NULL,
			no_recovery_night          INTEGER NOT NULL,
			high_wind_streak           INTEGER NOT NULL,
			failed_recovery_streak     INTEGER NOT NULL,
			compound_streak            INTEGER NOT NULL,
			no_recovery_streak         INTEGER NOT NULL,
			cumulative_load            REAL NOT NULL,
			cumulative_recovery_excess REAL NOT NULL,
			risk_state                 TEXT NOT NULL,
			risk_level                 INTEGER NOT NULL,
			escalation_multiplier      REAL NOT NULL,
			computed_at                INTEGER NOT NULL,
			PRIMARY KEY (dataset, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_days_state ON risk_days(risk_state)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write upserts every classified day of the dataset in one transaction.
func (s *Store) Write(ctx context.Context, result domain.DatasetResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO risk_days
			(dataset, date, daily_load, recovery_excess, peak_recovery_stress, observed_hours,
			 high_wind_day, failed_recovery_night, compound, no_recovery_night,
			 high_wind_streak, failed_recovery_streak, compound_streak, no_recovery_streak,
			 cumulative_load, cumulative_recovery_excess,
			 risk_state, risk_level, escalation_multiplier, computed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range result.Days {
		d := rec.Day
		_, err := stmt.ExecContext(ctx,
			result.Label, rec.Date.Format(time.DateOnly),
			d.DailyLoad, d.RecoveryExcess, d.PeakRecoveryStress, d.ObservedHours,
			boolToInt(d.HighWindDay), boolToInt(d.FailedRecoveryNight),
			boolToInt(d.Compound), boolToInt(d.NoRecoveryNight),
			rec.Streaks.HighWind, rec.Streaks.FailedRecovery,
			rec.Streaks.Compound, rec.Streaks.NoRecovery,
			d.CumulativeLoad, d.CumulativeRecoveryExcess,
			rec.State.String(), rec.Level, rec.Multiplier,
			rec.ComputedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("upsert %s/%s: %w", result.Label, rec.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("risk days stored", "dataset", result.Label, "days", len(result.Days))
	return nil
}

// ReadDataset returns the dataset's stored days in date order.
func (s *Store) ReadDataset(ctx context.Context, dataset string) ([]domain.RiskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, daily_load, recovery_excess, peak_recovery_stress, observed_hours,
		       high_wind_day, failed_recovery_night, compound, no_recovery_night,
		       high_wind_streak, failed_recovery_streak, compound_streak, no_recovery_streak,
		       cumulative_load, cumulative_recovery_excess,
		       risk_state, risk_level, escalation_multiplier, computed_at
		FROM risk_days WHERE dataset = ? ORDER BY date`, dataset)
	if err != nil {
		return nil, fmt.Errorf("query risk days: %w", err)
	}
	defer rows.Close()

	var records []domain.RiskRecord
	for rows.Next() {
		var (
			rec                                            domain.RiskRecord
			dateStr, state                                 string
			highWind, failedRecovery, compound, noRecovery int
			computedAtNano                                 int64
		)
		err := rows.Scan(
			&dateStr, &rec.Day.DailyLoad, &rec.Day.RecoveryExcess,
			&rec.Day.PeakRecoveryStress, &rec.Day.ObservedHours,
			&highWind, &failedRecovery, &compound, &noRecovery,
			&rec.Streaks.HighWind, &rec.Streaks.FailedRecovery,
			&rec.Streaks.Compound, &rec.Streaks.NoRecovery,
			&rec.Day.CumulativeLoad, &rec.Day.CumulativeRecoveryExcess,
			&state, &rec.Level, &rec.Multiplier, &computedAtNano,
		)
		if err != nil {
			return nil, fmt.Errorf("scan risk day: %w", err)
		}

		rec.Date, err = time.ParseInLocation(time.DateOnly, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		rec.Day.Date = rec.Date
		rec.Day.HighWindDay = highWind != 0
		rec.Day.FailedRecoveryNight = failedRecovery != 0
		rec.Day.Compound = compound != 0
		rec.Day.NoRecoveryNight = noRecovery != 0
		rec.State, err = parseState(state)
		if err != nil {
			return nil, err
		}
		rec.ComputedAt = time.Unix(0, computedAtNano).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseState(s string) (domain.RiskState, error) {
	for _, state := range []domain.RiskState{domain.StateStable, domain.StateStraining, domain.StateFailure} {
		if state.String() == s {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown stored risk state %q", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
