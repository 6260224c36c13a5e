package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/history"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// currentSnapshot fetches the in-memory snapshot, writing a 503 when no
// cycle has completed yet.
func (s *Server) currentSnapshot(w http.ResponseWriter) *processor.Snapshot {
	snap := s.State.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data available yet")
		return nil
	}
	return snap
}

func skillParam(r *http.Request) (hiscores.Skill, bool) {
	raw := r.URL.Query().Get("skill")
	if raw == "" {
		return hiscores.SkillOverall, true
	}
	return hiscores.ParseSkill(raw)
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Manual refresh requested")
		if err := s.Updater.RunCycle(r.Context(), isDryRunFromContext(r)); err != nil {
			log.Error("Manual refresh failed", "error", err)
			writeError(w, http.StatusInternalServerError, "refresh failed")
			return
		}
		snap := s.State.Get()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "refreshed",
			"last_updated": s.State.LastUpdate(),
			"players":      snap.OverallStats.TotalPlayers,
			"teams":        snap.OverallStats.TotalTeams,
		})
	}
}

func (s *Server) CleanupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := s.Cfg.RetentionDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "'days' must be a positive integer")
				return
			}
			days = parsed
		}
		if err := s.Store.CleanupOldData(days); err != nil {
			log.Error("Cleanup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "cleanup failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "cleaned", "retention_days": days})
	}
}

func (s *Server) DataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"snapshot":     snap,
			"quality":      s.State.Quality(),
			"last_updated": s.State.LastUpdate(),
		})
	}
}

func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		writeJSON(w, http.StatusOK, snap.Teams)
	}
}

func (s *Server) TeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		code, ok := team.Parse(r.PathValue("team"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown team")
			return
		}
		agg, ok := snap.Teams[code]
		if !ok {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		writeJSON(w, http.StatusOK, agg)
	}
}

func (s *Server) LeaderboardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		if raw := r.URL.Query().Get("skill"); raw != "" {
			skill, ok := hiscores.ParseSkill(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown skill")
				return
			}
			writeJSON(w, http.StatusOK, map[hiscores.Skill][]processor.LeaderboardEntry{
				skill: snap.Leaderboards[skill],
			})
			return
		}
		writeJSON(w, http.StatusOK, snap.Leaderboards)
	}
}

func (s *Server) ComparisonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		team1, ok := team.Parse(r.URL.Query().Get("team1"))
		if !ok {
			writeError(w, http.StatusBadRequest, "team1: unknown team")
			return
		}
		team2, ok := team.Parse(r.URL.Query().Get("team2"))
		if !ok {
			writeError(w, http.StatusBadRequest, "team2: unknown team")
			return
		}
		comparison, err := processor.Compare(snap.Teams, team1, team2)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, comparison)
	}
}

func (s *Server) HeatmapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		writeJSON(w, http.StatusOK, processor.Heatmap(snap.Teams))
	}
}

func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			log.Error("Failed to list players", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list players")
			return
		}
		if players == nil {
			players = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"players": players, "count": len(players)})
	}
}

func (s *Server) PlayerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if name == "" {
			writeError(w, http.StatusBadRequest, "player name is required")
			return
		}
		skill, ok := skillParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown skill")
			return
		}
		points, err := s.Store.GetPlayerHistory(name, skill)
		if err != nil {
			log.Error("Failed to load player history", "player", name, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load history")
			return
		}
		if points == nil {
			points = []history.PlayerPoint{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"player":  name,
			"skill":   skill,
			"history": points,
		})
	}
}

func (s *Server) TeamHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := team.Parse(r.PathValue("team"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown team")
			return
		}
		skill, ok := skillParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown skill")
			return
		}
		points, err := s.Store.GetTeamHistory(code, skill)
		if err != nil {
			log.Error("Failed to load team history", "team", code, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load history")
			return
		}
		if points == nil {
			points = []history.TeamPoint{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"team":    code,
			"name":    team.DisplayName(code),
			"skill":   skill,
			"history": points,
		})
	}
}

// PlayerComparisonEntry is one player's side of a head-to-head comparison,
// built from the latest snapshot's leaderboards.
type PlayerComparisonEntry struct {
	Team   team.Code                                    `json:"team"`
	Name   string                                       `json:"name"`
	Skills map[hiscores.Skill]processor.LeaderboardEntry `json:"skills"`
}

func (s *Server) ComparePlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.currentSnapshot(w)
		if snap == nil {
			return
		}
		// Accepts both repeated players params and a comma-separated list.
		var names []string
		for _, raw := range r.URL.Query()["players"] {
			for _, name := range strings.Split(raw, ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
		}
		if len(names) < 2 {
			writeError(w, http.StatusBadRequest, "at least two players are required")
			return
		}

		players := make(map[string]PlayerComparisonEntry, len(names))
		for _, name := range names {
			entry := PlayerComparisonEntry{
				Name:   name,
				Team:   team.Classify(name),
				Skills: make(map[hiscores.Skill]processor.LeaderboardEntry),
			}
			for _, skill := range hiscores.AllSkills {
				for _, row := range snap.Leaderboards[skill] {
					if row.Name == name {
						entry.Skills[skill] = row
						break
					}
				}
			}
			players[name] = entry
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"players":      players,
			"last_updated": s.State.LastUpdate(),
		})
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.Stats()
		if err != nil {
			log.Error("Failed to load database stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to load counters", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		resp := map[string]any{
			"database": stats,
			"counters": counters,
		}
		if last := s.State.LastUpdate(); !last.IsZero() {
			resp["last_updated"] = last.Format(time.RFC3339)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
