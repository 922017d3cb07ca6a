// Package pipeline orchestrates one dataset run: fetch observations,
// evaluate them into classified risk days, and fan the result out to the
// configured sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/observability"
)

// ObservationSource fetches the hourly observations for a dataset.
type ObservationSource interface {
	Fetch(ctx context.Context) ([]domain.HourlyObservation, error)
}

// RecordSink receives a completed dataset result.
type RecordSink interface {
	Write(ctx context.Context, result domain.DatasetResult) error
}

// Pipeline runs fetch-evaluate-write for one dataset at a time.
type Pipeline struct {
	source  ObservationSource
	sinks   []RecordSink
	params  domain.Params
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given source, sinks, and observability.
func New(source ObservationSource, sinks []RecordSink, params domain.Params, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		sinks:   sinks,
		params:  params,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes one complete dataset run. Sink errors are collected rather
// than short-circuiting, so one failing sink does not starve the others.
func (p *Pipeline) Run(ctx context.Context, label string) (domain.DatasetResult, error) {
	start := time.Now()
	p.logger.Info("dataset run started", "dataset", label)

	obs, err := p.source.Fetch(ctx)
	if err != nil {
		return domain.DatasetResult{}, fmt.Errorf("fetch observations: %w", err)
	}
	p.metrics.RowsConsumed.Add(float64(len(obs)))

	result, err := domain.EvaluateDataset(label, obs, p.params)
	if err != nil {
		var invalid *domain.InvalidObservationError
		if errors.As(err, &invalid) {
			p.metrics.InvalidObservations.Inc()
		}
		return domain.DatasetResult{}, fmt.Errorf("evaluate dataset %s: %w", label, err)
	}

	p.metrics.DaysAggregated.Add(float64(len(result.Days)))
	for _, rec := range result.Days {
		p.metrics.RiskDays.WithLabelValues(rec.State.String()).Inc()
	}

	var sinkErrs []error
	for _, sink := range p.sinks {
		if err := sink.Write(ctx, result); err != nil {
			p.logger.Error("sink write failed", "dataset", label, "error", err)
			sinkErrs = append(sinkErrs, err)
		}
	}
	if len(sinkErrs) > 0 {
		return result, fmt.Errorf("write dataset %s: %w", label, errors.Join(sinkErrs...))
	}

	p.metrics.DatasetRuns.Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("dataset run finished",
		"dataset", label,
		"rows", len(obs),
		"days", len(result.Days),
		"duration", time.Since(start),
	)
	return result, nil
}
