package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/config"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForecast() domain.Forecast {
	return domain.Forecast{
		Location:   "Flornes",
		LastUpdate: "2024-01-15T10:00:00",
		FetchedAt:  time.Date(2024, 1, 15, 10, 5, 0, 0, time.UTC),
		Entries: []domain.ForecastEntry{
			{From: "2024-01-15T11:00:00", To: "2024-01-15T12:00:00", MinPrecip: 0.1, AvgPrecip: 0.3, MaxPrecip: 0.6, Temperature: -4},
			{From: "2024-01-15T12:00:00", To: "2024-01-15T13:00:00", Temperature: -3.5},
		},
	}
}

func TestSerializeToMessage(t *testing.T) {
	f := sampleForecast()

	msg, err := serializeToMessage(f, f.Entries[0])
	require.NoError(t, err)

	assert.Equal(t, []byte("Flornes|2024-01-15T11:00:00|2024-01-15T12:00:00"), msg.Key)
	assert.JSONEq(t, `{
		"location":"Flornes",
		"last_update":"2024-01-15T10:00:00",
		"fetched_at":"2024-01-15T10:05:00Z",
		"from":"2024-01-15T11:00:00",
		"to":"2024-01-15T12:00:00",
		"min_precip_mm":0.1,
		"avg_precip_mm":0.3,
		"max_precip_mm":0.6,
		"temperature_c":-4
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("Flornes"), msg.Headers[0].Value)
	assert.Equal(t, "last_update", msg.Headers[1].Key)
	assert.Equal(t, "fetched_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2024-01-15T10:05:00Z"), msg.Headers[2].Value)
}

func TestSerializeToMessage_RoundTripsEntry(t *testing.T) {
	f := sampleForecast()
	msg, err := serializeToMessage(f, f.Entries[1])
	require.NoError(t, err)

	var got message
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, f.Entries[1], got.ForecastEntry)
}

func TestNewWriter_UsesConfig(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "weather-forecasts"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "weather-forecasts", w.writer.Topic)
	assert.Equal(t, "kafka", w.Name())
}

func TestWriter_Load_EmptyForecastIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaTopic: "weather-forecasts"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.Load(context.Background(), domain.Forecast{Location: "Flornes"}))
}
