package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ScrapeRuns          prometheus.Counter
	ScrapeFailures      prometheus.Counter
	CyclesCompleted     prometheus.Counter
	SnapshotsSaved      prometheus.Counter
	PersistenceFailures prometheus.Counter
	QualityWarnings     prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	ProcessingDuration  prometheus.Histogram
	StartupTimeSeconds  prometheus.Gauge
}
