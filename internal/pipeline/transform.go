package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// ForecastTransformer implements Transformer by decoding yr.no XML documents.
type ForecastTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a ForecastTransformer.
func NewTransformer(logger *slog.Logger) *ForecastTransformer {
	return &ForecastTransformer{logger: logger}
}

func (t *ForecastTransformer) Transform(_ context.Context, raw domain.RawForecast) (domain.Forecast, error) {
	f, err := domain.ParseForecast(raw)
	if err != nil {
		return domain.Forecast{}, err
	}
	t.logger.Debug("forecast parsed",
		"location", f.Location,
		"last_update", f.LastUpdate,
		"periods", len(f.Entries),
	)
	return f, nil
}
