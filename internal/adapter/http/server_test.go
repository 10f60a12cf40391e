package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/frost-depth-toolkit/internal/adapter/http"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	err      error
	forecast *domain.Forecast
}

func (m *mockSource) CheckReadiness(_ context.Context) error { return m.err }

func (m *mockSource) Latest() (domain.Forecast, bool) {
	if m.forecast == nil {
		return domain.Forecast{}, false
	}
	return *m.forecast, true
}

func newTestServer(src *mockSource) *httpadapter.Server {
	return httpadapter.NewServer(":0", src, slog.Default())
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{err: fmt.Errorf("no forecast collected yet")}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestForecastEndpoint(t *testing.T) {
	f := &domain.Forecast{
		Location:   "Flornes",
		LastUpdate: "2024-01-15T10:00:00",
		Entries: []domain.ForecastEntry{
			{From: "T1", To: "T2", Temperature: -4},
			{From: "T2", To: "T3", Temperature: -3},
			{From: "T3", To: "T4", Temperature: -2},
		},
	}
	srv := newTestServer(&mockSource{forecast: f})

	t.Run("full", func(t *testing.T) {
		rec := get(t, srv, "/forecast")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got domain.Forecast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Flornes", got.Location)
		assert.Len(t, got.Entries, 3)
	})

	t.Run("latest periods", func(t *testing.T) {
		rec := get(t, srv, "/forecast?periods=2")
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Forecast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Entries, 2)
		assert.Equal(t, "T2", got.Entries[0].From)
	})

	for _, periods := range []string{"-1", "0", "abc", "1.5"} {
		t.Run("invalid periods "+periods, func(t *testing.T) {
			rec := get(t, srv, "/forecast?periods="+periods)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "periods must be a positive integer")
		})
	}
}

func TestForecastEndpoint_NothingCollected(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/forecast")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
