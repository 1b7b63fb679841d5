package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/repositories"
)

const defaultWeatherTimeout = 10 * time.Second

// WeatherClient fetches current conditions from a weather data provider.
// This is a read-only collaborator for the dashboard widget; it never
// participates in query dispatch.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure WeatherClient implements the WeatherProvider interface
var _ repositories.WeatherProvider = (*WeatherClient)(nil)

// NewWeatherClient creates a weather client. baseURL falls back to the
// WEATHER_BASE_URL environment variable.
func NewWeatherClient(baseURL string, logger *zap.Logger) *WeatherClient {
	if baseURL == "" {
		baseURL = os.Getenv("WEATHER_BASE_URL")
	}

	return &WeatherClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultWeatherTimeout,
		},
		logger: logger,
	}
}

// Current returns the weather snapshot for a location.
func (c *WeatherClient) Current(ctx context.Context, location string) (repositories.WeatherReport, error) {
	if c.baseURL == "" {
		return repositories.WeatherReport{}, fmt.Errorf("weather provider is not configured")
	}

	endpoint := fmt.Sprintf("%s/current?location=%s", c.baseURL, url.QueryEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return repositories.WeatherReport{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return repositories.WeatherReport{}, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return repositories.WeatherReport{}, fmt.Errorf("weather provider returned %d: %s", resp.StatusCode, string(errorBody))
	}

	var report repositories.WeatherReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return repositories.WeatherReport{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	c.logger.Debug("Fetched weather",
		zap.String("location", location),
		zap.String("condition", report.Condition))

	return report, nil
}
