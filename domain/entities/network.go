package entities

import "time"

// NetworkStatus is the best-effort reachability signal maintained by the
// offline monitor. A stale probe can still report online while the next
// request fails; the dispatcher handles that as a transport failure.
type NetworkStatus struct {
	Online        bool      `json:"online"`
	LastLatencyMs int64     `json:"last_latency_ms,omitempty"`
	CheckedAt     time.Time `json:"checked_at,omitempty"`
}
