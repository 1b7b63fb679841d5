package entities

// DispatchStatus is the lifecycle phase of the request dispatcher.
type DispatchStatus string

const (
	DispatchStatusIdle      DispatchStatus = "idle"
	DispatchStatusInFlight  DispatchStatus = "in_flight"
	DispatchStatusSucceeded DispatchStatus = "succeeded"
	DispatchStatusFailed    DispatchStatus = "failed"
)

// DispatchState is the single shared mutable resource of the client session.
// Only the request dispatcher writes it; everyone else reads snapshots.
type DispatchState struct {
	Status        DispatchStatus `json:"status"`
	ActiveQueryID string         `json:"active_query_id,omitempty"`
	LastOutcome   DispatchStatus `json:"last_outcome,omitempty"`
}
