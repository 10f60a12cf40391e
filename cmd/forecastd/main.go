// Command forecastd collects the hourly yr.no forecast on a fixed interval,
// archives it as CSV, optionally publishes every period to Kafka, and serves
// health, readiness, metrics, and the latest forecast over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/csvstore"
	httpadapter "github.com/couchcryptid/frost-depth-toolkit/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/frost-depth-toolkit/internal/adapter/kafka"
	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/yr"
	"github.com/couchcryptid/frost-depth-toolkit/internal/config"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
	"github.com/couchcryptid/frost-depth-toolkit/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("forecastd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	extractor := yr.NewClient(cfg.ForecastURL, cfg.ForecastName, cfg.ForecastTimeout, logger)
	store := csvstore.New(cfg.ForecastDir, cfg.ForecastName, logger)
	loaders := []pipeline.Loader{store}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(extractor, pipeline.NewTransformer(logger), loaders, logger, metrics, cfg.ForecastInterval)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	// The running cycle may still be writing the archive.
	if err := waitDone(shutdownCtx, pipelineDone); err != nil {
		logger.Error("pipeline did not stop in time", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// waitDone blocks until done is closed or ctx expires.
func waitDone(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for pipeline: %w", ctx.Err())
	}
}
