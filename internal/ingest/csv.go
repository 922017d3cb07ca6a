// Package ingest supplies validated hourly observations from wind-risk CSV
// files. It owns the input contract: required columns present, timestamps
// parseable, speeds non-negative, rows delivered in chronological order.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Column names of the wind-risk CSV schema.
const (
	colTimestamp     = "timestamp"
	colWindSpeed     = "wind_speed_ms"
	colGust          = "gust_ms"
	colRainfall      = "rainfall_mm"
	colFuelDryness   = "fuel_dryness_index"
	colVulnerability = "infrastructure_vulnerability"
)

var requiredColumns = []string{colTimestamp, colWindSpeed}

// timestampLayouts are accepted in order. The space-separated form with a
// colon in the offset is what pandas-produced CSVs carry.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// CSVSource reads one wind-risk CSV file. It implements
// pipeline.ObservationSource.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a source for the CSV at path.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Fetch reads, validates, and chronologically sorts the file's observations.
// A file with a header but no data rows yields an empty slice, not an error.
func (s *CSVSource) Fetch(_ context.Context) ([]domain.HourlyObservation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	obs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("csv loaded", "path", s.path, "rows", len(obs))
	return obs, nil
}

// Parse reads observations from CSV content.
func Parse(r io.Reader) ([]domain.HourlyObservation, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	obs := make([]domain.HourlyObservation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		o, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		obs = append(obs, o)
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})
	return obs, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.HourlyObservation, error) {
	ts, err := parseTimestamp(field(row, colIdx, colTimestamp))
	if err != nil {
		return domain.HourlyObservation{}, err
	}

	wind, err := parseSpeed(field(row, colIdx, colWindSpeed), colWindSpeed)
	if err != nil {
		return domain.HourlyObservation{}, err
	}

	o := domain.HourlyObservation{Timestamp: ts, WindSpeed: wind}

	if raw := field(row, colIdx, colGust); raw != "" {
		gust, err := parseSpeed(raw, colGust)
		if err != nil {
			return domain.HourlyObservation{}, err
		}
		o.GustSpeed = &gust
	}
	o.Rainfall = parseOptional(field(row, colIdx, colRainfall))
	o.FuelDryness = parseOptional(field(row, colIdx, colFuelDryness))
	o.Vulnerability = parseOptional(field(row, colIdx, colVulnerability))

	return o, nil
}

func field(row []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

func parseSpeed(raw, col string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing %s", col)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s contains negative value %g", col, v)
	}
	return v, nil
}

// parseOptional returns nil for blank or malformed auxiliary values. These
// columns are carried through but never consumed by the core formulas.
func parseOptional(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
