//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/wind-risk-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/ingest"
	"github.com/couchcryptid/wind-risk-pipeline/internal/observability"
	"github.com/couchcryptid/wind-risk-pipeline/internal/pipeline"
	"github.com/couchcryptid/wind-risk-pipeline/internal/sample"
)

const testTopic = "wind-risk-days"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("wind-risk-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestKafkaSinkRoundTrip runs the full pipeline against real Kafka: generated
// observations in, one message per classified risk day out.
func TestKafkaSinkRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	obs := sample.Cyclone()
	path := t.TempDir() + "/cyclone.csv"
	require.NoError(t, sample.WriteCSV(path, obs))

	source := ingest.NewCSVSource(path, discardLogger())
	writer := kafka.NewWriter([]string{broker}, testTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(source, []pipeline.RecordSink{writer},
		domain.ReferenceParams(), discardLogger(), observability.NewMetricsForTesting())

	result, err := p.Run(ctx, "cyclone")
	require.NoError(t, err)
	require.Len(t, result.Days, sample.CycloneDays)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]domain.RiskRecord, 0, len(result.Days))
	for len(received) < len(result.Days) {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read from sink topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "cyclone", headers["dataset"])
		assert.NotEmpty(t, headers["risk_state"])
		_, err = time.Parse(time.RFC3339, headers["computed_at"])
		assert.NoError(t, err, "computed_at should be valid RFC3339")

		var rec domain.RiskRecord
		require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal risk day")
		assert.Equal(t, []byte("cyclone/"+rec.Date.Format(time.DateOnly)), msg.Key)
		received = append(received, rec)
	}

	// Messages preserve day order within the single partition.
	for i, rec := range received {
		assert.Equal(t, result.Days[i].Date, rec.Date, "day %d", i)
		assert.Equal(t, result.Days[i].State, rec.State, "day %d", i)
		assert.InDelta(t, result.Days[i].Multiplier, rec.Multiplier, 1e-9, "day %d", i)
	}
}
