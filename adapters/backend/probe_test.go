package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestProbeHealthyBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"Bhasha-Kisan Backend is Live"}`)
	}))
	defer server.Close()

	prober := NewProber(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	latency, err := prober.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if latency <= 0 {
		t.Errorf("Expected a positive latency, got %v", latency)
	}
}

func TestProbeUnhealthyBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	prober := NewProber(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	if _, err := prober.Probe(context.Background()); err == nil {
		t.Error("Expected an error for a 503 health response")
	}
}

func TestProbeUnreachableBackend(t *testing.T) {
	prober := NewProber(Config{BaseURL: "http://127.0.0.1:1"}, zaptest.NewLogger(t))

	if _, err := prober.Probe(context.Background()); err == nil {
		t.Error("Expected an error for an unreachable backend")
	}
}
