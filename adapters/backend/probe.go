package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/repositories"
)

const defaultProbeTimeout = 5 * time.Second

// Prober checks backend reachability by hitting its health route.
type Prober struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure Prober implements the ConnectivityProber interface
var _ repositories.ConnectivityProber = (*Prober)(nil)

// NewProber creates a reachability prober. Probes use a short timeout of
// their own regardless of the configured request timeout.
func NewProber(config Config, logger *zap.Logger) *Prober {
	client := NewClient(config, logger)
	return &Prober{
		baseURL: client.baseURL,
		httpClient: &http.Client{
			Timeout: defaultProbeTimeout,
		},
		logger: logger,
	}
}

// Probe issues a GET against the backend root and returns the round trip
// latency. Any non-2xx status counts as unreachable.
func (p *Prober) Probe(ctx context.Context) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe request: %w", err)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("probe returned status %d", resp.StatusCode)
	}

	return latency, nil
}
