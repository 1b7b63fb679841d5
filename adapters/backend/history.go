package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/repositories"
)

// historyResponse mirrors the history endpoint body.
type historyResponse struct {
	History []struct {
		Transcript string `json:"transcript"`
		Analysis   string `json:"analysis"`
		Response   struct {
			Answer string `json:"answer"`
		} `json:"response"`
		Timestamp string `json:"timestamp"`
	} `json:"history"`
}

// HistoryClient reads past exchanges from the remote history store.
type HistoryClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure HistoryClient implements the HistoryService interface
var _ repositories.HistoryService = (*HistoryClient)(nil)

// NewHistoryClient creates a history client sharing the backend base URL.
func NewHistoryClient(config Config, logger *zap.Logger) *HistoryClient {
	client := NewClient(config, logger)
	return &HistoryClient{
		baseURL:    client.baseURL,
		httpClient: client.httpClient,
		logger:     logger,
	}
}

// List fetches the recent history for a user, newest first as served.
func (c *HistoryClient) List(ctx context.Context, userID string) ([]repositories.HistoryEntry, error) {
	endpoint := fmt.Sprintf("%s/history/%s", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("history endpoint returned %d: %s", resp.StatusCode, string(errorBody))
	}

	var decoded historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	entries := make([]repositories.HistoryEntry, 0, len(decoded.History))
	for _, item := range decoded.History {
		entries = append(entries, repositories.HistoryEntry{
			Transcript: item.Transcript,
			Analysis:   item.Analysis,
			Answer:     item.Response.Answer,
			Timestamp:  item.Timestamp,
		})
	}

	c.logger.Debug("Fetched history",
		zap.String("userID", userID),
		zap.Int("count", len(entries)))

	return entries, nil
}
