package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/observability"
	"github.com/couchcryptid/wind-risk-pipeline/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

type mockSource struct {
	obs []domain.HourlyObservation
	err error
}

func (m *mockSource) Fetch(_ context.Context) ([]domain.HourlyObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.obs, nil
}

type mockSink struct {
	results []domain.DatasetResult
	err     error
}

func (m *mockSink) Write(_ context.Context, result domain.DatasetResult) error {
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, result)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// constantWind returns days of hourly observations at a steady wind speed.
func constantWind(days int, speed float64) []domain.HourlyObservation {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]domain.HourlyObservation, 0, days*24)
	for h := 0; h < days*24; h++ {
		obs = append(obs, domain.HourlyObservation{
			Timestamp: start.Add(time.Duration(h) * time.Hour),
			WindSpeed: speed,
		})
	}
	return obs
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	src := &mockSource{obs: constantWind(3, 25)}
	sink := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{sink}, domain.ReferenceParams(), testLogger(), metrics)

	result, err := p.Run(context.Background(), "steady")
	require.NoError(t, err)

	assert.Equal(t, "steady", result.Label)
	assert.Len(t, result.Hourly, 72)
	assert.Len(t, result.Days, 3)

	require.Len(t, sink.results, 1)
	assert.Equal(t, result.Days, sink.results[0].Days)
}

func TestPipeline_Run_FanOutToAllSinks(t *testing.T) {
	src := &mockSource{obs: constantWind(2, 25)}
	first := &mockSink{}
	second := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{first, second}, domain.ReferenceParams(), testLogger(), metrics)

	_, err := p.Run(context.Background(), "steady")
	require.NoError(t, err)
	assert.Len(t, first.results, 1)
	assert.Len(t, second.results, 1)
}

func TestPipeline_Run_SourceError(t *testing.T) {
	src := &mockSource{err: errors.New("file missing")}
	sink := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{sink}, domain.ReferenceParams(), testLogger(), metrics)

	_, err := p.Run(context.Background(), "steady")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch observations")
	assert.Empty(t, sink.results)
}

func TestPipeline_Run_InvalidObservation(t *testing.T) {
	src := &mockSource{obs: []domain.HourlyObservation{{WindSpeed: 10}}} // zero timestamp
	sink := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{sink}, domain.ReferenceParams(), testLogger(), metrics)

	_, err := p.Run(context.Background(), "broken")
	require.Error(t, err)

	var invalid *domain.InvalidObservationError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, sink.results)
}

func TestPipeline_Run_FailingSinkDoesNotStarveOthers(t *testing.T) {
	src := &mockSource{obs: constantWind(2, 25)}
	failing := &mockSink{err: errors.New("disk full")}
	healthy := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{failing, healthy}, domain.ReferenceParams(), testLogger(), metrics)

	result, err := p.Run(context.Background(), "steady")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// The healthy sink still received the result, and the caller gets it too.
	assert.Len(t, healthy.results, 1)
	assert.Len(t, result.Days, 2)
}

func TestPipeline_Run_EmptyDataset(t *testing.T) {
	src := &mockSource{}
	sink := &mockSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, []pipeline.RecordSink{sink}, domain.ReferenceParams(), testLogger(), metrics)

	result, err := p.Run(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, result.Days)
	require.Len(t, sink.results, 1)
	assert.Empty(t, sink.results[0].Days)
}
