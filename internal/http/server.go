package http

import (
	"net/http"

	"github.com/deadman-allstars/hiscores-tracker/internal/config"
	"github.com/deadman-allstars/hiscores-tracker/internal/history"
	"github.com/deadman-allstars/hiscores-tracker/internal/metrics"
	"github.com/deadman-allstars/hiscores-tracker/internal/updater"
)

func NewServer(
	state *updater.State,
	store history.Store,
	upd *updater.Updater,
	metricsSvc metrics.Metrics,
	counters metrics.MetricsStore,
	metricsHandler http.Handler,
	cfg config.Config,
) *Server {
	server := &Server{
		State:          state,
		Store:          store,
		Updater:        upd,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/refresh", Chain(s.RefreshHandler(), paramsMiddleware))
	s.Router.Handle("/cleanup", Chain(s.CleanupHandler(), paramsMiddleware))
	s.Router.Handle("/api/data", Chain(s.DataHandler(), paramsMiddleware))
	s.Router.Handle("/api/teams", Chain(s.TeamsHandler(), paramsMiddleware))
	s.Router.Handle("/api/team/{team}", Chain(s.TeamHandler(), paramsMiddleware))
	s.Router.Handle("/api/leaderboards", Chain(s.LeaderboardsHandler(), paramsMiddleware))
	s.Router.Handle("/api/comparison", Chain(s.ComparisonHandler(), paramsMiddleware))
	s.Router.Handle("/api/heatmap", Chain(s.HeatmapHandler(), paramsMiddleware))
	s.Router.Handle("/api/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/api/history/player/{name}", Chain(s.PlayerHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/api/history/team/{team}", Chain(s.TeamHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/api/compare/players", Chain(s.ComparePlayersHandler(), paramsMiddleware))
	s.Router.Handle("/api/stats", Chain(s.StatsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
