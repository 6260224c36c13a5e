package updater

import (
	"sync"
	"time"

	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

// State holds the latest processed snapshot for the HTTP layer. The whole
// value swaps atomically under the lock, so readers never observe a
// half-updated cycle.
type State struct {
	mu         sync.RWMutex
	snapshot   *processor.Snapshot
	quality    *processor.QualityReport
	lastUpdate time.Time
}

// NewState creates an empty state holder.
func NewState() *State {
	return &State{}
}

// Set replaces the current snapshot.
func (s *State) Set(snap *processor.Snapshot, quality *processor.QualityReport, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.quality = quality
	s.lastUpdate = at
}

// Get returns the current snapshot, or nil before the first cycle.
func (s *State) Get() *processor.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Quality returns the quality report of the last cycle, or nil.
func (s *State) Quality() *processor.QualityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quality
}

// LastUpdate returns when the state was last replaced.
func (s *State) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
