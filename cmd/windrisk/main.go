// Command windrisk runs the wind-risk pipeline: it evaluates either a CSV of
// hourly observations or the built-in sample scenarios, and writes daily
// metrics, charts, and optional SQLite/Kafka output.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	kafkaadapter "github.com/couchcryptid/wind-risk-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/wind-risk-pipeline/internal/chart"
	"github.com/couchcryptid/wind-risk-pipeline/internal/config"
	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/export"
	"github.com/couchcryptid/wind-risk-pipeline/internal/ingest"
	"github.com/couchcryptid/wind-risk-pipeline/internal/observability"
	"github.com/couchcryptid/wind-risk-pipeline/internal/pipeline"
	"github.com/couchcryptid/wind-risk-pipeline/internal/sample"
)

// sliceSource serves pre-generated observations. Used for the built-in
// sample scenarios.
type sliceSource struct {
	obs []domain.HourlyObservation
}

func (s sliceSource) Fetch(_ context.Context) ([]domain.HourlyObservation, error) {
	return s.obs, nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	csvPath := flag.String("csv", "", "CSV of hourly observations; omit to run the built-in scenarios")
	label := flag.String("label", "", "dataset label for -csv (default: file name without extension)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	metrics := observability.NewMetrics()

	params, err := cfg.Params()
	if err != nil {
		logger.Error("invalid parameters", "error", err)
		os.Exit(1)
	}

	sinks, cleanup, err := buildSinks(cfg, logger)
	if err != nil {
		logger.Error("failed to build sinks", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := false
	if *csvPath != "" {
		name := *label
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(*csvPath), filepath.Ext(*csvPath))
		}
		p := pipeline.New(ingest.NewCSVSource(*csvPath, logger), sinks, params, logger, metrics)
		if _, err := p.Run(ctx, name); err != nil {
			logger.Error("dataset run failed", "dataset", name, "error", err)
			failed = true
		}
	} else {
		failed = runScenarios(ctx, sinks, params, logger, metrics)
	}

	if cfg.Push.GatewayURL != "" {
		if err := observability.PushMetrics(cfg.Push.GatewayURL, cfg.Push.Job); err != nil {
			logger.Error("metrics push failed", "gateway", cfg.Push.GatewayURL, "error", err)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// runScenarios evaluates the three built-in scenarios concurrently. Returns
// true if any run failed.
func runScenarios(ctx context.Context, sinks []pipeline.RecordSink, params domain.Params, logger *slog.Logger, metrics *observability.Metrics) bool {
	scenarios := map[string][]domain.HourlyObservation{
		"cyclone":      sample.Cyclone(),
		"fire_weather": sample.FireWeather(),
		"future_plus":  sample.FuturePlus(),
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed bool
	)
	for name, obs := range scenarios {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := pipeline.New(sliceSource{obs: obs}, sinks, params, logger, metrics)
			if _, err := p.Run(ctx, name); err != nil {
				logger.Error("dataset run failed", "dataset", name, "error", err)
				mu.Lock()
				failed = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failed
}

// buildSinks assembles the configured output sinks and a cleanup function
// closing the ones that hold resources.
func buildSinks(cfg *config.Config, logger *slog.Logger) ([]pipeline.RecordSink, func(), error) {
	var (
		sinks   []pipeline.RecordSink
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Error("sink close failed", "error", err)
			}
		}
	}

	csvSink, err := export.NewCSVSink(cfg.Output.Dir, logger)
	if err != nil {
		return nil, cleanup, err
	}
	sinks = append(sinks, csvSink)

	if cfg.Output.Charts {
		chartSink, err := chart.NewSink(cfg.Output.Dir, logger)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, chartSink)
	}

	if cfg.Output.SQLitePath != "" {
		store, err := export.NewStore(cfg.Output.SQLitePath, logger)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, store.Close)
		sinks = append(sinks, store)
	}

	if cfg.Kafka.Enabled {
		writer := kafkaadapter.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		closers = append(closers, writer.Close)
		sinks = append(sinks, writer)
	}

	return sinks, cleanup, nil
}
