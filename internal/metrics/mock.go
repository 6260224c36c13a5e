package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	scrapeRuns          int
	scrapeFailures      int
	cyclesCompleted     int
	snapshotsSaved      int
	persistenceFailures int
	qualityWarnings     int
	notificationsSent   int
	notificationsFailed int
	processingDurations []float64
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncScrapeRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrapeRuns++
}

func (m *Mock) IncScrapeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrapeFailures++
}

func (m *Mock) IncCyclesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cyclesCompleted++
}

func (m *Mock) IncSnapshotsSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotsSaved++
}

func (m *Mock) IncPersistenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFailures++
}

func (m *Mock) IncQualityWarnings() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.qualityWarnings++
}

func (m *Mock) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ScrapeRuns returns the number of times IncScrapeRuns was called.
func (m *Mock) ScrapeRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrapeRuns
}

// ScrapeFailures returns the number of times IncScrapeFailures was called.
func (m *Mock) ScrapeFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrapeFailures
}

// CyclesCompleted returns the number of times IncCyclesCompleted was called.
func (m *Mock) CyclesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cyclesCompleted
}

// SnapshotsSaved returns the number of times IncSnapshotsSaved was called.
func (m *Mock) SnapshotsSaved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotsSaved
}

// PersistenceFailures returns the number of times IncPersistenceFailures was called.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistenceFailures
}

// QualityWarnings returns the number of times IncQualityWarnings was called.
func (m *Mock) QualityWarnings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.qualityWarnings
}

// NotificationsSent returns the number of times IncNotificationsSent was called.
func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

// NotificationsFailed returns the number of times IncNotificationsFailed was called.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

// ProcessingDurations returns the observed processing durations.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.processingDurations))
	copy(out, m.processingDurations)
	return out
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}

// MockStore is a test double for MetricsStore.
type MockStore struct {
	mu       sync.Mutex
	counters map[string]int64

	GetAllFunc func() (map[string]int64, error)
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{counters: make(map[string]int64)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *MockStore) GetAll() (map[string]int64, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
