package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
)

// OfflineMonitor tracks backend reachability by polling a connectivity
// prober. Online is a best-effort signal: a probe can go stale between
// checks, so the dispatcher still handles transport failures that occur
// despite online == true.
type OfflineMonitor struct {
	prober   repositories.ConnectivityProber
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	status entities.NetworkStatus
}

// NewOfflineMonitor creates a monitor polling the prober at the given
// interval. Until the first probe completes the backend is assumed online,
// so a submission racing monitor startup is attempted rather than rejected.
func NewOfflineMonitor(prober repositories.ConnectivityProber, interval time.Duration, logger *zap.Logger) *OfflineMonitor {
	return &OfflineMonitor{
		prober:   prober,
		interval: interval,
		logger:   logger,
		status:   entities.NetworkStatus{Online: true},
	}
}

// Online reports the latest reachability verdict.
func (m *OfflineMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

// Status returns a snapshot of the network status.
func (m *OfflineMonitor) Status() entities.NetworkStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Run probes immediately and then on every tick until the context is done.
func (m *OfflineMonitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// Probe performs a single reachability check and updates the status. Exposed
// so callers can force a re-check, e.g. right before a retry.
func (m *OfflineMonitor) Probe(ctx context.Context) entities.NetworkStatus {
	m.probe(ctx)
	return m.Status()
}

func (m *OfflineMonitor) probe(ctx context.Context) {
	latency, err := m.prober.Probe(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	wasOnline := m.status.Online
	m.status.CheckedAt = time.Now()

	if err != nil {
		m.status.Online = false
		if wasOnline {
			m.logger.Warn("Backend became unreachable", zap.Error(err))
		}
		return
	}

	m.status.Online = true
	m.status.LastLatencyMs = latency.Milliseconds()
	if !wasOnline {
		m.logger.Info("Backend reachable again",
			zap.Int64("latencyMs", m.status.LastLatencyMs))
	}
}
