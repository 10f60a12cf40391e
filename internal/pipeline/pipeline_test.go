package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
	"github.com/couchcryptid/frost-depth-toolkit/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastXML = `<weatherdata>
  <meta><lastupdate>2024-01-15T10:00:00</lastupdate></meta>
  <forecast><tabular>
    <time from="2024-01-15T11:00:00" to="2024-01-15T12:00:00">
      <precipitation minvalue="0.1" value="0.3" maxvalue="0.6" />
      <temperature value="-4" />
    </time>
    <time from="2024-01-15T12:00:00" to="2024-01-15T13:00:00">
      <precipitation value="0" />
      <temperature value="-3.5" />
    </time>
  </tabular></forecast>
</weatherdata>`

// --- mocks ---

type mockExtractor struct {
	calls atomic.Int64
	fails int64 // number of leading calls that fail
	body  string
}

func (m *mockExtractor) Fetch(_ context.Context) (domain.RawForecast, error) {
	n := m.calls.Add(1)
	if n <= m.fails {
		return domain.RawForecast{}, errors.New("connection refused")
	}
	return domain.RawForecast{
		Location:  "Flornes",
		Body:      []byte(m.body),
		FetchedAt: time.Date(2024, 1, 15, 10, 5, 0, 0, time.UTC),
	}, nil
}

type mockLoader struct {
	name string
	err  error

	mu     sync.Mutex
	loaded []domain.Forecast
}

func (m *mockLoader) Name() string { return m.name }

func (m *mockLoader) Load(_ context.Context, f domain.Forecast) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, f)
	return nil
}

func (m *mockLoader) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loaded)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(ext pipeline.Extractor, metrics *observability.Metrics, interval time.Duration, loaders ...pipeline.Loader) *pipeline.Pipeline {
	return pipeline.New(ext, pipeline.NewTransformer(discardLogger()), loaders, discardLogger(), metrics, interval)
}

// --- tests ---

func TestPipeline_RunOnce_HappyPath(t *testing.T) {
	ext := &mockExtractor{body: forecastXML}
	csv := &mockLoader{name: "csv"}
	kafka := &mockLoader{name: "kafka"}
	metrics := observability.NewMetricsForTesting()

	p := newPipeline(ext, metrics, time.Hour, csv, kafka)
	require.Error(t, p.CheckReadiness(context.Background()))
	_, ok := p.Latest()
	require.False(t, ok)

	f, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	want := []domain.ForecastEntry{
		{From: "2024-01-15T11:00:00", To: "2024-01-15T12:00:00", MinPrecip: 0.1, AvgPrecip: 0.3, MaxPrecip: 0.6, Temperature: -4},
		{From: "2024-01-15T12:00:00", To: "2024-01-15T13:00:00", Temperature: -3.5},
	}
	if diff := cmp.Diff(want, f.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, csv.count())
	assert.Equal(t, 1, kafka.count())
	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))
	latest, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, "2024-01-15T10:00:00", latest.LastUpdate)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ForecastCycles.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ForecastEntries), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.EntriesLoaded.WithLabelValues("kafka")), 1e-9)
}

func TestPipeline_RunOnce_ParseError(t *testing.T) {
	ext := &mockExtractor{body: "<not-xml"}
	ldr := &mockLoader{name: "csv"}
	metrics := observability.NewMetricsForTesting()

	p := newPipeline(ext, metrics, time.Hour, ldr)
	_, err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse forecast")
	assert.Zero(t, ldr.count())
	assert.False(t, p.Ready())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ForecastCycles.WithLabelValues("error")), 1e-9)
}

func TestPipeline_RunOnce_LoaderErrorStopsCycle(t *testing.T) {
	ext := &mockExtractor{body: forecastXML}
	failing := &mockLoader{name: "csv", err: errors.New("disk full")}
	after := &mockLoader{name: "kafka"}

	p := newPipeline(ext, observability.NewMetricsForTesting(), time.Hour, failing, after)
	_, err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load forecast into csv: disk full")
	assert.Zero(t, after.count())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{body: forecastXML}
	ldr := &mockLoader{name: "csv"}
	metrics := observability.NewMetricsForTesting()

	p := newPipeline(ext, metrics, time.Hour, ldr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return ldr.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PipelineRunning), 1e-9)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not stop")
	}
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 1e-9)
}

func TestPipeline_Run_RetriesWithBackoff(t *testing.T) {
	ext := &mockExtractor{body: forecastXML, fails: 2}
	ldr := &mockLoader{name: "csv"}

	p := newPipeline(ext, observability.NewMetricsForTesting(), time.Hour, ldr)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	// 200ms + 400ms of backoff before the third attempt succeeds.
	require.Eventually(t, p.Ready, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(3), ext.calls.Load())
	assert.Equal(t, 1, ldr.count())
}

func TestPipeline_Run_WaitsForInterval(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	ext := &mockExtractor{body: forecastXML}
	ldr := &mockLoader{name: "csv"}

	p := newPipeline(ext, observability.NewMetricsForTesting(), time.Hour, ldr).WithClock(fakeClock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return ldr.count() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, fakeClock.BlockUntilContext(ctx, 1))

	fakeClock.Advance(59 * time.Minute)
	assert.Equal(t, 1, ldr.count())

	fakeClock.Advance(time.Minute)
	require.Eventually(t, func() bool { return ldr.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestForecastTransformer_Transform(t *testing.T) {
	tfm := pipeline.NewTransformer(discardLogger())
	f, err := tfm.Transform(context.Background(), domain.RawForecast{Location: "Flornes", Body: []byte(forecastXML)})
	require.NoError(t, err)
	assert.Equal(t, "Flornes", f.Location)
	assert.Equal(t, "2024-01-15T10:00:00", f.LastUpdate)
	assert.Len(t, f.Entries, 2)
}

// blockingLoader holds Load open until release is closed.
type blockingLoader struct {
	started  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (b *blockingLoader) Name() string { return "csv" }

func (b *blockingLoader) Load(_ context.Context, _ domain.Forecast) error {
	close(b.started)
	<-b.release
	b.finished.Store(true)
	return nil
}

func TestPipeline_Run_CancelWaitsForInFlightLoad(t *testing.T) {
	loader := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	p := newPipeline(&mockExtractor{body: forecastXML}, observability.NewMetricsForTesting(), time.Hour, loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	<-loader.started
	cancel()

	select {
	case <-done:
		t.Fatal("Run returned while a load was still in progress")
	case <-time.After(20 * time.Millisecond):
	}

	close(loader.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, loader.finished.Load())
}
