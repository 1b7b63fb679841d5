package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestMonitorStartsOptimistic(t *testing.T) {
	monitor := NewOfflineMonitor(&fakeProber{healthy: false}, time.Minute, zaptest.NewLogger(t))

	if !monitor.Online() {
		t.Error("Monitor should assume online before the first probe")
	}
}

func TestMonitorTracksReachability(t *testing.T) {
	prober := &fakeProber{healthy: true}
	monitor := NewOfflineMonitor(prober, time.Minute, zaptest.NewLogger(t))

	status := monitor.Probe(context.Background())
	if !status.Online {
		t.Error("Expected online after healthy probe")
	}
	if status.LastLatencyMs <= 0 {
		t.Errorf("Expected a measured latency, got %d", status.LastLatencyMs)
	}
	if status.CheckedAt.IsZero() {
		t.Error("Expected CheckedAt to be stamped")
	}

	prober.setHealthy(false)
	status = monitor.Probe(context.Background())
	if status.Online {
		t.Error("Expected offline after failed probe")
	}

	// Last known latency survives an outage.
	if status.LastLatencyMs <= 0 {
		t.Errorf("Expected last latency retained, got %d", status.LastLatencyMs)
	}

	prober.setHealthy(true)
	if status = monitor.Probe(context.Background()); !status.Online {
		t.Error("Expected online after recovery")
	}
}

func TestMonitorRunStopsOnContextCancel(t *testing.T) {
	prober := &fakeProber{healthy: true}
	monitor := NewOfflineMonitor(prober, 5*time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	// Let a few ticks happen, then stop.
	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	if !monitor.Online() {
		t.Error("Expected online with a healthy prober")
	}
}
