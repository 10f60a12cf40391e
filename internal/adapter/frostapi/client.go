// Package frostapi reads station metadata and observations from the
// frost.met.no API of the Norwegian Meteorological Institute.
package frostapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://frost.met.no"

var (
	// ErrNoSource is returned when no station matches the municipality.
	ErrNoSource = errors.New("no weather station found")

	// ErrAPI wraps non-200 responses.
	ErrAPI = errors.New("frost API error")
)

// Client implements domain.SourceFinder and fetches observations. Requests
// authenticate with HTTP basic auth: the client id as user, empty password.
type Client struct {
	clientID   string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a frost.met.no client.
func NewClient(clientID string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		clientID: clientID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// FindSource returns the first station whose municipality matches the given
// name, ignoring case and extra spaces.
func (c *Client) FindSource(ctx context.Context, municipality string) (domain.Source, error) {
	var resp sourcesResponse
	if err := c.get(ctx, "sources", "/sources/v0.jsonld", nil, &resp); err != nil {
		return domain.Source{}, err
	}

	want := municipalityKey(municipality)
	for _, s := range resp.Data {
		if municipalityKey(s.Municipality) == want {
			c.metrics.FrostRequests.WithLabelValues("sources", "success").Inc()
			c.logger.Debug("station resolved", "municipality", municipality, "source", s.ID)
			return domain.Source{ID: s.ID, Name: s.Name, Municipality: s.Municipality}, nil
		}
	}
	c.metrics.FrostRequests.WithLabelValues("sources", "empty").Inc()
	return domain.Source{}, fmt.Errorf("%w in %s", ErrNoSource, municipality)
}

// Observations fetches every reading of the given elements from a station
// between start and end (dates formatted YYYY-MM-DD).
func (c *Client) Observations(ctx context.Context, sourceID, elements string, start, end time.Time) ([]domain.Observation, error) {
	params := url.Values{
		"sources":       {sourceID},
		"elements":      {elements},
		"referencetime": {start.Format(time.DateOnly) + "/" + end.Format(time.DateOnly)},
	}

	var resp observationsResponse
	if err := c.get(ctx, "observations", "/observations/v0.jsonld", params, &resp); err != nil {
		return nil, err
	}

	var out []domain.Observation
	for _, item := range resp.Data {
		ts, err := time.Parse(time.RFC3339, item.ReferenceTime)
		if err != nil {
			return nil, fmt.Errorf("parse reference time %q: %w", item.ReferenceTime, err)
		}
		for _, o := range item.Observations {
			out = append(out, domain.Observation{
				SourceID:      item.SourceID,
				ReferenceTime: ts,
				Value:         o.Value,
			})
		}
	}

	outcome := "success"
	if len(out) == 0 {
		outcome = "empty"
	}
	c.metrics.FrostRequests.WithLabelValues("observations", outcome).Inc()
	c.logger.Info("observations fetched", "source", sourceID, "elements", elements, "count", len(out))
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, dst any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, "")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FrostAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FrostRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FrostRequests.WithLabelValues(endpoint, "error").Inc()
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.metrics.FrostRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// maxErrorBody caps how much of an error response is read and reported.
const maxErrorBody = 4 << 10

func decodeAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: status %d: read error body: %w", ErrAPI, resp.StatusCode, err)
	}

	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s (%s)", ErrAPI, resp.StatusCode, e.Error.Message, e.Error.Reason)
	}
	return fmt.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode, strings.TrimSpace(string(body)))
}

// frost.met.no response types.

type sourcesResponse struct {
	Data []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Municipality string `json:"municipality"`
	} `json:"data"`
}

type observationsResponse struct {
	Data []observationItem `json:"data"`
}

type observationItem struct {
	SourceID      string `json:"sourceId"`
	ReferenceTime string `json:"referenceTime"`
	Observations  []struct {
		ElementID string  `json:"elementId"`
		Value     float64 `json:"value"`
		Unit      string  `json:"unit"`
	} `json:"observations"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}
