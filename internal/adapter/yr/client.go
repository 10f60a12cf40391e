// Package yr downloads hourly forecast documents from yr.no.
package yr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// DefaultURL is the hourly forecast of Flornes, Stjørdal.
const DefaultURL = "https://www.yr.no/place/Norway/Tr%C3%B8ndelag/Stj%C3%B8rdal/Flornes/forecast_hour_by_hour.xml"

// maxBody caps a forecast download; hourly documents are well under 1 MiB.
const maxBody = 16 << 20

// Client fetches a single forecast location.
type Client struct {
	url        string
	location   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a forecast client for the document at url. location
// names the place in stored records.
func NewClient(url, location string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:      url,
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the current forecast document. Redirects are followed.
func (c *Client) Fetch(ctx context.Context) (domain.RawForecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.RawForecast{}, fmt.Errorf("yr.no error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("read forecast body: %w", err)
	}

	c.logger.Debug("forecast downloaded", "location", c.location, "bytes", len(body))
	return domain.RawForecast{
		Location:  c.location,
		Body:      body,
		FetchedAt: domain.Now(),
	}, nil
}
