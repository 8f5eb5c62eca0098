package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ceulain/sunshine-core/internal/infrastructure/config"
)

const (
	forecastPath = "/data/2.5/forecast/daily"

	// maxResponseSize bounds the body read from upstream.
	maxResponseSize = 1 << 20
)

// Client fetches daily forecasts from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client from the weather configuration. The request
// timeout comes from cfg.Timeout rather than http.DefaultClient.
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// FetchForecast requests days of daily forecast for location (a postal
// code or city query) in the given units and returns the raw JSON.
func (c *Client) FetchForecast(ctx context.Context, location, units string, days int) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	u, err := url.Parse(c.baseURL + forecastPath)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	q.Set("q", location)
	q.Set("mode", "json")
	q.Set("units", units)
	q.Set("cnt", strconv.Itoa(days))
	q.Set("appid", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return nil, fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrFetchFailed, resp.StatusCode, apiErr.Message)
	}

	return body, nil
}
