package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/config"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes forecast periods to a Kafka topic, one message per period.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Load publishes every period of the forecast in a single WriteMessages call.
func (w *Writer) Load(ctx context.Context, f domain.Forecast) error {
	if len(f.Entries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(f.Entries))
	for i := range f.Entries {
		msg, err := serializeToMessage(f, f.Entries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish forecast: %w", err)
	}
	w.logger.Debug("forecast published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// message is the wire form of one forecast period.
type message struct {
	Location   string    `json:"location"`
	LastUpdate string    `json:"last_update"`
	FetchedAt  time.Time `json:"fetched_at"`
	domain.ForecastEntry
}

// serializeToMessage marshals a forecast period into a Kafka message keyed by
// location and period so compacted topics keep the latest forecast.
func serializeToMessage(f domain.Forecast, e domain.ForecastEntry) (kafkago.Message, error) {
	data, err := json.Marshal(message{
		Location:      f.Location,
		LastUpdate:    f.LastUpdate,
		FetchedAt:     f.FetchedAt,
		ForecastEntry: e,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(f.Location + "|" + e.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(f.Location)},
			{Key: "last_update", Value: []byte(f.LastUpdate)},
			{Key: "fetched_at", Value: []byte(f.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
