package metrics

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Keys for the durable counters incremented by the update loop.
const (
	KeyCyclesCompleted = "cycles_completed"
	KeyScrapeFailures  = "scrape_failures"
	KeyQualityWarnings = "quality_warnings"
)

// store handles counter persistence in the database.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates a new durable counter store.
func NewStore(db *sql.DB) MetricsStore {
	return &store{db: db}
}

// Increment upserts a counter key and increments its value by one.
// Failures are logged rather than returned; lifetime counters are
// best-effort and must never fail an update cycle.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1`, key)
	if err != nil {
		log.Error("Failed to increment metric", "key", key, "error", err)
	}
}

// GetAll returns every stored counter.
func (s *store) GetAll() (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT key, value FROM metrics`)
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning metric row: %w", err)
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
