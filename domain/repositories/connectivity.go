package repositories

import (
	"context"
	"time"
)

// ConnectivityProber checks whether the analysis backend is reachable and
// reports the round trip latency of the probe.
type ConnectivityProber interface {
	Probe(ctx context.Context) (time.Duration, error)
}
