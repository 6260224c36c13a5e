package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/history"
	"github.com/deadman-allstars/hiscores-tracker/internal/metrics"
	"github.com/deadman-allstars/hiscores-tracker/internal/notifier"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

// Updater drives the scrape-process-persist cycle and keeps the in-memory
// state current.
type Updater struct {
	client   hiscores.Client
	store    history.Store
	state    *State
	proc     *processor.Processor
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	notifier notifier.Notifier
}

// New creates an Updater.
func New(
	client hiscores.Client,
	store history.Store,
	state *State,
	proc *processor.Processor,
	m metrics.Metrics,
	counters metrics.MetricsStore,
	n notifier.Notifier,
) *Updater {
	return &Updater{
		client:   client,
		store:    store,
		state:    state,
		proc:     proc,
		metrics:  m,
		counters: counters,
		notifier: n,
	}
}

// LoadInitial hydrates the in-memory state from the most recent stored
// snapshot, so the API serves data immediately after a restart.
func (u *Updater) LoadInitial() error {
	snap, savedAt, err := u.store.GetLatestSnapshot()
	if err != nil {
		return fmt.Errorf("loading initial snapshot: %w", err)
	}
	if snap == nil {
		log.Info("No stored snapshot found, waiting for first update cycle")
		return nil
	}
	u.state.Set(snap, nil, savedAt)
	log.Info("Loaded initial state from database", "teams", len(snap.Teams), "players", snap.OverallStats.TotalPlayers, "savedAt", savedAt)
	return nil
}

// RunCycle performs one full update: scrape, quality check, process,
// publish to state, persist. Persistence failures are logged and counted
// but do not fail the cycle; the fresh in-memory state is still served.
func (u *Updater) RunCycle(ctx context.Context, dryRun bool) error {
	runID := uuid.NewString()
	log.Info("Starting update cycle", "runId", runID)

	u.metrics.IncScrapeRuns()
	raw, err := u.client.FetchAll(ctx)
	if err != nil {
		u.metrics.IncScrapeFailures()
		u.counters.Increment(metrics.KeyScrapeFailures)
		return fmt.Errorf("fetching hiscores: %w", err)
	}

	quality := processor.CheckQuality(raw)
	if !quality.UniqueSkillData {
		u.metrics.IncQualityWarnings()
		u.counters.Increment(metrics.KeyQualityWarnings)
		log.Warn("Source data quality degraded", "identicalSkills", len(quality.IdenticalSkills), "runId", runID)
		if err := u.notifier.SendQualityAlert(&quality, dryRun); err != nil {
			log.Error("Failed to send quality alert", "error", err)
		}
	}

	started := time.Now()
	snap, err := u.proc.Process(raw)
	if err != nil {
		return fmt.Errorf("processing hiscores: %w", err)
	}
	u.metrics.ObserveProcessingDuration(time.Since(started).Seconds())

	prev := u.state.Get()
	u.state.Set(snap, &quality, time.Now())

	if standingsChanged(prev, snap) {
		log.Info("Team standings changed, sending update", "runId", runID)
		if err := u.notifier.SendStandingsUpdate(&snap.OverallStats, dryRun); err != nil {
			log.Error("Failed to send standings update", "error", err)
		}
	}

	if id, err := u.store.SaveSnapshot(snap, runID); err != nil {
		u.metrics.IncPersistenceFailures()
		log.Error("Failed to save snapshot", "error", err, "runId", runID)
	} else {
		u.metrics.IncSnapshotsSaved()
		log.Debug("Snapshot persisted", "id", id, "runId", runID)
	}
	if err := u.store.SavePlayerHistory(raw); err != nil {
		u.metrics.IncPersistenceFailures()
		log.Error("Failed to save player history", "error", err, "runId", runID)
	}
	if err := u.store.SaveTeamHistory(snap.Teams); err != nil {
		u.metrics.IncPersistenceFailures()
		log.Error("Failed to save team history", "error", err, "runId", runID)
	}

	u.metrics.IncCyclesCompleted()
	u.counters.Increment(metrics.KeyCyclesCompleted)
	log.Info("Update cycle completed", "runId", runID,
		"players", snap.OverallStats.TotalPlayers, "teams", snap.OverallStats.TotalTeams)
	return nil
}

// standingsChanged reports whether the ranked team order differs between two
// snapshots. The first cycle after a cold start never triggers a post; there
// is no previous order to have changed from.
func standingsChanged(prev, next *processor.Snapshot) bool {
	if prev == nil {
		return false
	}
	a := prev.OverallStats.TeamStandings
	b := next.OverallStats.TeamStandings
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i].Team != b[i].Team {
			return true
		}
	}
	return false
}

// Start runs update cycles on the given interval until the context is
// cancelled. The first cycle fires immediately.
func (u *Updater) Start(ctx context.Context, interval time.Duration) {
	if err := u.RunCycle(ctx, false); err != nil {
		log.Error("Update cycle failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Update loop stopping")
			return
		case <-ticker.C:
			if err := u.RunCycle(ctx, false); err != nil {
				log.Error("Update cycle failed", "error", err)
			}
		}
	}
}
