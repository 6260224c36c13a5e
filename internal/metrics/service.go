package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ScrapeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_scrape_runs_total",
			Help: "The total number of hiscore scrape attempts.",
		}),
		ScrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_scrape_failures_total",
			Help: "The total number of hiscore scrapes that failed entirely.",
		}),
		CyclesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_update_cycles_total",
			Help: "The total number of completed update cycles.",
		}),
		SnapshotsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_snapshots_saved_total",
			Help: "The total number of snapshot save operations.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_persistence_failures_total",
			Help: "The total number of failed database writes.",
		}),
		QualityWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_quality_warnings_total",
			Help: "The total number of cycles whose source data looked degraded.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiscores_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hiscores_processing_duration_seconds",
			Help:    "The duration of raw data processing into a snapshot.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hiscores_startup_duration_seconds",
			Help: "The time taken for the application to start.",
		}),
	}

	reg.MustRegister(
		s.ScrapeRuns,
		s.ScrapeFailures,
		s.CyclesCompleted,
		s.SnapshotsSaved,
		s.PersistenceFailures,
		s.QualityWarnings,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.ProcessingDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncScrapeRuns() {
	s.ScrapeRuns.Inc()
}

func (s *Service) IncScrapeFailures() {
	s.ScrapeFailures.Inc()
}

func (s *Service) IncCyclesCompleted() {
	s.CyclesCompleted.Inc()
}

func (s *Service) IncSnapshotsSaved() {
	s.SnapshotsSaved.Inc()
}

func (s *Service) IncPersistenceFailures() {
	s.PersistenceFailures.Inc()
}

func (s *Service) IncQualityWarnings() {
	s.QualityWarnings.Inc()
}

func (s *Service) IncNotificationsSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
