package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/yr"
)

// Config holds all service settings, populated from environment variables
// and an optional .env file in the working directory.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast collection.
	ForecastURL      string
	ForecastDir      string
	ForecastName     string
	ForecastInterval time.Duration
	ForecastTimeout  time.Duration

	// Optional Kafka publishing of forecast periods. Disabled when no
	// brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	// frost.met.no access.
	FrostClientID  string
	FrostCacheSize int
}

// KafkaEnabled reports whether forecast periods are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from the environment, applying defaults where unset.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	interval, err := parsePositiveDuration("FORECAST_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	timeout, err := parsePositiveDuration("FORECAST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("FROST_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		ForecastURL:      sharedcfg.EnvOrDefault("FORECAST_URL", yr.DefaultURL),
		ForecastDir:      sharedcfg.EnvOrDefault("FORECAST_DIR", "."),
		ForecastName:     sharedcfg.EnvOrDefault("FORECAST_NAME", "Flornes"),
		ForecastInterval: interval,
		ForecastTimeout:  timeout,
		KafkaTopic:       sharedcfg.EnvOrDefault("FORECAST_KAFKA_TOPIC", "weather-forecasts"),
		FrostClientID:    os.Getenv("FROST_CLIENT_ID"),
		FrostCacheSize:   cacheSize,
	}

	if brokers := strings.TrimSpace(os.Getenv("FORECAST_KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if strings.TrimSpace(cfg.ForecastURL) == "" {
		return nil, fmt.Errorf("FORECAST_URL is required")
	}
	if strings.TrimSpace(cfg.ForecastName) == "" {
		return nil, fmt.Errorf("FORECAST_NAME is required")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("FORECAST_KAFKA_TOPIC is required when FORECAST_KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveDuration(name, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(name, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", name, s)
	}
	return d, nil
}

func parsePositiveInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, s)
	}
	return n, nil
}
