package history

import (
	"sync"
	"time"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// MockStore is a test double for Store.
type MockStore struct {
	mu sync.Mutex

	SaveSnapshotFunc      func(snap *processor.Snapshot, runID string) (int64, error)
	SavePlayerHistoryFunc func(raw hiscores.RawData) error
	SaveTeamHistoryFunc   func(teams map[team.Code]*processor.TeamAggregate) error
	GetPlayerHistoryFunc  func(playerName string, skill hiscores.Skill) ([]PlayerPoint, error)
	GetTeamHistoryFunc    func(code team.Code, skill hiscores.Skill) ([]TeamPoint, error)
	GetLatestSnapshotFunc func() (*processor.Snapshot, time.Time, error)
	GetAllPlayersFunc     func() ([]string, error)
	CleanupOldDataFunc    func(retentionDays int) error
	StatsFunc             func() (*DBStats, error)

	SaveSnapshotCalls      []SaveSnapshotCall
	SavePlayerHistoryCalls []hiscores.RawData
	SaveTeamHistoryCalls   []map[team.Code]*processor.TeamAggregate
	CleanupOldDataCalls    []int
}

// SaveSnapshotCall records one SaveSnapshot invocation.
type SaveSnapshotCall struct {
	Snapshot *processor.Snapshot
	RunID    string
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SaveSnapshot(snap *processor.Snapshot, runID string) (int64, error) {
	m.mu.Lock()
	m.SaveSnapshotCalls = append(m.SaveSnapshotCalls, SaveSnapshotCall{Snapshot: snap, RunID: runID})
	m.mu.Unlock()
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(snap, runID)
	}
	return 1, nil
}

func (m *MockStore) SavePlayerHistory(raw hiscores.RawData) error {
	m.mu.Lock()
	m.SavePlayerHistoryCalls = append(m.SavePlayerHistoryCalls, raw)
	m.mu.Unlock()
	if m.SavePlayerHistoryFunc != nil {
		return m.SavePlayerHistoryFunc(raw)
	}
	return nil
}

func (m *MockStore) SaveTeamHistory(teams map[team.Code]*processor.TeamAggregate) error {
	m.mu.Lock()
	m.SaveTeamHistoryCalls = append(m.SaveTeamHistoryCalls, teams)
	m.mu.Unlock()
	if m.SaveTeamHistoryFunc != nil {
		return m.SaveTeamHistoryFunc(teams)
	}
	return nil
}

func (m *MockStore) GetPlayerHistory(playerName string, skill hiscores.Skill) ([]PlayerPoint, error) {
	if m.GetPlayerHistoryFunc != nil {
		return m.GetPlayerHistoryFunc(playerName, skill)
	}
	return nil, nil
}

func (m *MockStore) GetTeamHistory(code team.Code, skill hiscores.Skill) ([]TeamPoint, error) {
	if m.GetTeamHistoryFunc != nil {
		return m.GetTeamHistoryFunc(code, skill)
	}
	return nil, nil
}

func (m *MockStore) GetLatestSnapshot() (*processor.Snapshot, time.Time, error) {
	if m.GetLatestSnapshotFunc != nil {
		return m.GetLatestSnapshotFunc()
	}
	return nil, time.Time{}, nil
}

func (m *MockStore) GetAllPlayers() ([]string, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) CleanupOldData(retentionDays int) error {
	m.mu.Lock()
	m.CleanupOldDataCalls = append(m.CleanupOldDataCalls, retentionDays)
	m.mu.Unlock()
	if m.CleanupOldDataFunc != nil {
		return m.CleanupOldDataFunc(retentionDays)
	}
	return nil
}

func (m *MockStore) Stats() (*DBStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc()
	}
	return &DBStats{SnapshotsBySource: map[string]int{}}, nil
}
