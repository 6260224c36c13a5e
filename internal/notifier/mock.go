package notifier

import (
	"sync"

	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendQualityAlertFunc    func(report *processor.QualityReport, dryRun bool) error
	SendStandingsUpdateFunc func(stats *processor.OverallStats, dryRun bool) error

	QualityAlertCalls    []*processor.QualityReport
	StandingsUpdateCalls []*processor.OverallStats
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendQualityAlert(report *processor.QualityReport, dryRun bool) error {
	m.mu.Lock()
	m.QualityAlertCalls = append(m.QualityAlertCalls, report)
	m.mu.Unlock()
	if m.SendQualityAlertFunc != nil {
		return m.SendQualityAlertFunc(report, dryRun)
	}
	return nil
}

func (m *Mock) SendStandingsUpdate(stats *processor.OverallStats, dryRun bool) error {
	m.mu.Lock()
	m.StandingsUpdateCalls = append(m.StandingsUpdateCalls, stats)
	m.mu.Unlock()
	if m.SendStandingsUpdateFunc != nil {
		return m.SendStandingsUpdateFunc(stats, dryRun)
	}
	return nil
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QualityAlertCalls = nil
	m.StandingsUpdateCalls = nil
}
