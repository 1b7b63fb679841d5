package repositories

import "context"

// HistoryEntry is one past exchange as served by the history endpoint.
type HistoryEntry struct {
	Transcript string `json:"transcript,omitempty"`
	Analysis   string `json:"analysis,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// HistoryService lists past queries for a user. Read-only; persistence is
// owned by the remote history store.
type HistoryService interface {
	List(ctx context.Context, userID string) ([]HistoryEntry, error)
}
