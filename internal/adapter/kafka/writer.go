package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Writer publishes classified risk days to a Kafka topic, one message per
// day. It implements pipeline.RecordSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Write serializes and publishes the dataset's risk days in a single
// WriteMessages call for efficiency.
func (w *Writer) Write(ctx context.Context, result domain.DatasetResult) error {
	if len(result.Days) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(result.Days))
	for i := range result.Days {
		msg, err := serializeToMessage(result.Label, result.Days[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish risk days: %w", err)
	}
	w.logger.Info("risk days published", "dataset", result.Label, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RiskRecord into a Kafka message keyed by
// dataset and date, so re-runs compact onto the same keys.
func serializeToMessage(label string, rec domain.RiskRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk day: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(label + "/" + rec.Date.Format(time.DateOnly)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(label)},
			{Key: "risk_state", Value: []byte(rec.State.String())},
			{Key: "computed_at", Value: []byte(rec.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
