// Package chart renders one self-contained HTML report per dataset: hourly
// stress, daily load and recovery bars, the risk-state trace, and the
// escalation multiplier.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Sink writes <label>_report.html files into a directory. It implements
// pipeline.RecordSink.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// NewSink creates the output directory if needed.
func NewSink(dir string, logger *slog.Logger) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	return &Sink{dir: dir, logger: logger}, nil
}

// Write renders the dataset's report page.
func (s *Sink) Write(_ context.Context, result domain.DatasetResult) error {
	path := filepath.Join(s.dir, result.Label+"_report.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.PageTitle = result.Label + " wind risk report"
	page.AddCharts(
		hourlyStressChart(result),
		dailyLoadChart(result),
		riskStateChart(result),
		multiplierChart(result),
	)

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	s.logger.Info("report rendered", "dataset", result.Label, "path", path)
	return nil
}

func hourlyStressChart(result domain.DatasetResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Effective wind stress", Subtitle: result.Label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xAxis := make([]string, len(result.Hourly))
	data := make([]opts.LineData, len(result.Hourly))
	for i, h := range result.Hourly {
		xAxis[i] = h.Timestamp.UTC().Format("01-02 15:04")
		data[i] = opts.LineData{Value: h.EffectiveStress}
	}
	line.SetXAxis(xAxis).AddSeries("effective stress", data)
	return line
}

func dailyLoadChart(result domain.DatasetResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Daily load and recovery excess", Subtitle: result.Label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xAxis := dayLabels(result.Days)
	load := make([]opts.BarData, len(result.Days))
	recovery := make([]opts.BarData, len(result.Days))
	for i, rec := range result.Days {
		load[i] = opts.BarData{Value: rec.Day.DailyLoad}
		recovery[i] = opts.BarData{Value: rec.Day.RecoveryExcess}
	}
	bar.SetXAxis(xAxis).
		AddSeries("daily load", load).
		AddSeries("recovery excess", recovery)
	return bar
}

func riskStateChart(result domain.DatasetResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Risk state", Subtitle: "0 Stable, 1 Straining, 2 Failure"}),
		charts.WithYAxisOpts(opts.YAxis{Max: 2, Min: 0}),
	)

	data := make([]opts.LineData, len(result.Days))
	for i, rec := range result.Days {
		data[i] = opts.LineData{Value: rec.Level}
	}
	line.SetXAxis(dayLabels(result.Days)).AddSeries("risk level", data)
	return line
}

func multiplierChart(result domain.DatasetResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Escalation multiplier", Subtitle: result.Label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	data := make([]opts.LineData, len(result.Days))
	for i, rec := range result.Days {
		data[i] = opts.LineData{Value: rec.Multiplier}
	}
	line.SetXAxis(dayLabels(result.Days)).AddSeries("multiplier", data)
	return line
}

func dayLabels(days []domain.RiskRecord) []string {
	labels := make([]string, len(days))
	for i, rec := range days {
		labels[i] = rec.Date.Format(time.DateOnly)
	}
	return labels
}
