package usecase

import (
	"sync"
	"time"

	"github.com/bhashakisan/assistant/domain/entities"
)

// HistoryRecord is one locally echoed exchange.
type HistoryRecord struct {
	Query    entities.Query
	Response entities.Response
	At       time.Time
}

// HistoryCache keeps a bounded local echo of sent queries and their
// responses for the history view. Durable history lives behind the remote
// history service; this cache only covers the current client session.
type HistoryCache struct {
	mu      sync.RWMutex
	limit   int
	records []HistoryRecord
}

// NewHistoryCache creates a cache keeping at most limit records.
func NewHistoryCache(limit int) *HistoryCache {
	if limit <= 0 {
		limit = 10
	}
	return &HistoryCache{limit: limit}
}

// Record appends an exchange, evicting the oldest once over the limit.
func (c *HistoryCache) Record(query entities.Query, response entities.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, HistoryRecord{
		Query:    query,
		Response: response,
		At:       time.Now(),
	})
	if len(c.records) > c.limit {
		c.records = c.records[len(c.records)-c.limit:]
	}
}

// Records returns the cached exchanges, newest first.
func (c *HistoryCache) Records() []HistoryRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]HistoryRecord, len(c.records))
	for i, record := range c.records {
		out[len(c.records)-1-i] = record
	}
	return out
}
