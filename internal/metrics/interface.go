package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncScrapeRuns()
	IncScrapeFailures()
	IncCyclesCompleted()
	IncSnapshotsSaved()
	IncPersistenceFailures()
	IncQualityWarnings()
	IncNotificationsSent()
	IncNotificationsFailed()
	ObserveProcessingDuration(duration float64)
	SetStartupTime(duration float64)
}

// MetricsStore persists lifetime counters in the database so they survive
// restarts, unlike the in-process Prometheus registry.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int64, error)
}
