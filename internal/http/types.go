package http

import (
	"net/http"

	"github.com/deadman-allstars/hiscores-tracker/internal/config"
	"github.com/deadman-allstars/hiscores-tracker/internal/history"
	"github.com/deadman-allstars/hiscores-tracker/internal/metrics"
	"github.com/deadman-allstars/hiscores-tracker/internal/updater"
)

type Server struct {
	State          *updater.State
	Store          history.Store
	Updater        *updater.Updater
	Metrics        metrics.Metrics
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
