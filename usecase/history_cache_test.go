package usecase

import (
	"fmt"
	"testing"

	"github.com/bhashakisan/assistant/domain/entities"
)

func TestHistoryCacheRecordsNewestFirst(t *testing.T) {
	cache := NewHistoryCache(10)

	cache.Record(entities.Query{ID: "q1", Text: "first"}, entities.Response{Text: "a1"})
	cache.Record(entities.Query{ID: "q2", Text: "second"}, entities.Response{Text: "a2"})

	records := cache.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Query.ID != "q2" {
		t.Errorf("Expected newest first, got %s", records[0].Query.ID)
	}
	if records[0].At.IsZero() {
		t.Error("Expected record timestamp to be set")
	}
}

func TestHistoryCacheEvictsOldest(t *testing.T) {
	cache := NewHistoryCache(3)

	for i := 0; i < 5; i++ {
		cache.Record(entities.Query{ID: fmt.Sprintf("q%d", i)}, entities.Response{})
	}

	records := cache.Records()
	if len(records) != 3 {
		t.Fatalf("Expected cap of 3 records, got %d", len(records))
	}
	if records[0].Query.ID != "q4" || records[2].Query.ID != "q2" {
		t.Errorf("Unexpected eviction order: %s .. %s", records[0].Query.ID, records[2].Query.ID)
	}
}

func TestHistoryCacheDefaultLimit(t *testing.T) {
	cache := NewHistoryCache(0)

	for i := 0; i < 15; i++ {
		cache.Record(entities.Query{ID: fmt.Sprintf("q%d", i)}, entities.Response{})
	}

	if got := len(cache.Records()); got != 10 {
		t.Errorf("Expected default limit of 10, got %d", got)
	}
}
