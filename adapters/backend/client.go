package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second

	analyzePath = "/analyze"
)

// Config holds configuration for the analysis backend client.
// Required fields:
// - BaseURL: the backend base URL
// Optional fields with defaults:
// - Timeout: per-request timeout (default: 30s)
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewConfigFromEnv creates a Config from environment variables.
func NewConfigFromEnv() Config {
	config := Config{
		BaseURL: os.Getenv("BACKEND_BASE_URL"),
	}

	if timeoutStr := os.Getenv("BACKEND_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}

// Client talks to the analysis backend over the multipart form contract:
// POST /analyze with user_id and either text or image.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure Client implements the AnalysisService interface
var _ repositories.AnalysisService = (*Client)(nil)

// NewClient creates an analysis backend client.
func NewClient(config Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
		logger.Info("Using default backend base URL", zap.String("baseURL", baseURL))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Analyze posts the query and returns the raw payload. Non-success statuses
// are reported as *entities.ServerError.
func (c *Client) Analyze(ctx context.Context, query entities.Query) (entities.AnalysisPayload, error) {
	body, contentType, err := encodeQuery(query)
	if err != nil {
		return entities.AnalysisPayload{}, err
	}

	url := c.baseURL + analyzePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return entities.AnalysisPayload{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("Sending analysis request",
		zap.String("url", url),
		zap.String("queryID", query.ID),
		zap.String("modality", string(query.Modality)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.AnalysisPayload{}, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Analysis backend returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return entities.AnalysisPayload{}, &entities.ServerError{StatusCode: resp.StatusCode}
	}

	var payload entities.AnalysisPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return entities.AnalysisPayload{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload, nil
}

// encodeQuery builds the multipart form body. user_id is always present;
// text or image follows the query's modality.
func encodeQuery(query entities.Query) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("user_id", query.UserID); err != nil {
		return nil, "", fmt.Errorf("failed to write user_id field: %w", err)
	}

	switch query.Modality {
	case entities.ModalityText, entities.ModalityVoice:
		if err := writer.WriteField("text", query.Text); err != nil {
			return nil, "", fmt.Errorf("failed to write text field: %w", err)
		}

	case entities.ModalityImage:
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="crop.jpg"`)
		header.Set("Content-Type", query.ImageMIME)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(query.Image); err != nil {
			return nil, "", fmt.Errorf("failed to write image data: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
