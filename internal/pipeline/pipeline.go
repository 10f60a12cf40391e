package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Extractor downloads one forecast document.
type Extractor interface {
	Fetch(ctx context.Context) (domain.RawForecast, error)
}

// Transformer converts a raw document into a parsed forecast.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawForecast) (domain.Forecast, error)
}

// Loader stores or forwards a parsed forecast.
type Loader interface {
	Name() string
	Load(ctx context.Context, f domain.Forecast) error
}

// Pipeline orchestrates the fetch-parse-store cycle.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	interval    time.Duration
	ready       atomic.Bool
	latest      atomic.Pointer[domain.Forecast]
}

// New creates a Pipeline with the given stages and observability. Loaders run
// in order; the first failure aborts the cycle.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
		interval:    interval,
	}
}

// WithClock replaces the time source used for intervals and backoff.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// CheckReadiness returns nil once a cycle has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no forecast collected yet")
	}
	return nil
}

// Ready reports whether a cycle has completed successfully.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Latest returns the forecast of the last successful cycle.
func (p *Pipeline) Latest() (domain.Forecast, bool) {
	f := p.latest.Load()
	if f == nil {
		return domain.Forecast{}, false
	}
	return *f, true
}

// Run repeats the cycle every interval until the context is cancelled.
// Failed cycles are retried with exponential backoff instead of waiting for
// the next interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval, "loaders", len(p.loaders))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		wait := p.interval
		if _, err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("forecast cycle failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !p.sleepWithContext(ctx, wait) {
			break
		}
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// RunOnce performs a single fetch-parse-store cycle and returns the parsed forecast.
func (p *Pipeline) RunOnce(ctx context.Context) (domain.Forecast, error) {
	start := p.clock.Now()

	f, err := p.cycle(ctx)
	if err != nil {
		p.metrics.ForecastCycles.WithLabelValues("error").Inc()
		return domain.Forecast{}, err
	}

	p.metrics.ForecastCycles.WithLabelValues("success").Inc()
	p.metrics.CycleDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))
	p.latest.Store(&f)
	p.ready.Store(true)
	return f, nil
}

func (p *Pipeline) cycle(ctx context.Context) (domain.Forecast, error) {
	raw, err := p.extractor.Fetch(ctx)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}

	f, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("parse forecast: %w", err)
	}
	p.metrics.ForecastEntries.Add(float64(len(f.Entries)))

	for _, l := range p.loaders {
		if err := l.Load(ctx, f); err != nil {
			return domain.Forecast{}, fmt.Errorf("load forecast into %s: %w", l.Name(), err)
		}
		p.metrics.EntriesLoaded.WithLabelValues(l.Name()).Add(float64(len(f.Entries)))
	}

	p.logger.Info("forecast collected",
		"location", f.Location,
		"last_update", f.LastUpdate,
		"periods", len(f.Entries),
	)
	return f, nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (p *Pipeline) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
