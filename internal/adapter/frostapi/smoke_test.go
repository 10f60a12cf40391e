//go:build frostapi

package frostapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real frost.met.no API and require FROST_CLIENT_ID.
// Run with: go test -tags=frostapi ./internal/adapter/frostapi/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	id := os.Getenv("FROST_CLIENT_ID")
	if id == "" {
		t.Fatal("FROST_CLIENT_ID must be set to run smoke tests")
	}
	return &Client{
		clientID:   id,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_FindSource(t *testing.T) {
	c := smokeClient(t)

	src, err := c.FindSource(context.Background(), "ØYGARDEN")
	require.NoError(t, err)
	assert.NotEmpty(t, src.ID)
	assert.Equal(t, "ØYGARDEN", src.Municipality)
}

func TestSmoke_ObservationsDailyMeans(t *testing.T) {
	c := smokeClient(t)

	src, err := c.FindSource(context.Background(), "BERGEN")
	require.NoError(t, err)

	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	obs, err := c.Observations(context.Background(), src.ID, "air_temperature", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NotEmpty(t, obs)

	means := domain.DailyMeans(obs)
	assert.NotEmpty(t, means)
	assert.Equal(t, "2014-01-01", means[0].Date)
}

func TestSmoke_CachedSourceFinder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedSourceFinder(c, 10, observability.NewMetricsForTesting())

	s1, err := cached.FindSource(context.Background(), "BERGEN")
	require.NoError(t, err)
	s2, err := cached.FindSource(context.Background(), "BERGEN")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}
