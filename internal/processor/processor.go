package processor

import (
	"errors"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// ErrSourceDataEmpty signals that the raw scrape held no usable skill data at
// all. The caller is expected to keep serving the previous cycle's snapshot.
var ErrSourceDataEmpty = errors.New("no valid skill data in raw scrape")

// New creates a Processor with the given standings policy.
func New(policy StandingsPolicy) *Processor {
	return &Processor{policy: policy}
}

// Process aggregates one raw scrape into a full snapshot. It never fails on
// malformed per-player data; it degrades to zero-valued aggregates. The only
// error it returns is ErrSourceDataEmpty.
func (p *Processor) Process(raw hiscores.RawData) (*Snapshot, error) {
	validSkills := 0
	for _, records := range raw {
		if len(records) > 0 {
			validSkills++
		}
	}
	if validSkills == 0 {
		return nil, ErrSourceDataEmpty
	}
	log.Info("Processing raw scrape", "skills_with_data", validSkills)

	snap := newEmptySnapshot()

	// Tracks which names are already on each team's roster, across skills.
	seen := make(map[team.Code]map[string]bool, len(snap.Teams))
	for code := range snap.Teams {
		seen[code] = make(map[string]bool)
	}

	// Fixed skill order keeps rosters and leaderboard construction
	// deterministic regardless of map iteration.
	for _, skill := range hiscores.AllSkills {
		records := raw[skill]
		if len(records) == 0 {
			log.Debug("Skipping skill with no data", "skill", skill)
			continue
		}

		board := make([]LeaderboardEntry, 0, len(records))
		byTeam := make(map[team.Code][]hiscores.PlayerRecord)
		for _, rec := range records {
			code := team.Classify(rec.Name)
			if code == team.Unknown {
				continue
			}
			byTeam[code] = append(byTeam[code], rec)
			board = append(board, LeaderboardEntry{
				Name:  rec.Name,
				Team:  code,
				Level: rec.Level,
				XP:    rec.XP,
				Rank:  rec.Rank,
			})
		}

		sort.SliceStable(board, func(i, j int) bool {
			if board[i].Level != board[j].Level {
				return board[i].Level > board[j].Level
			}
			return board[i].XP > board[j].XP
		})
		snap.Leaderboards[skill] = board

		for _, code := range team.All() {
			agg := snap.Teams[code]
			players := byTeam[code]
			if len(players) == 0 {
				agg.Averages[skill] = AverageStats{}
				agg.Totals[skill] = TotalStats{}
				agg.BestPlayers[skill] = nil
				continue
			}

			agg.PlayersBySkill[skill] = players
			for _, pl := range players {
				if !seen[code][pl.Name] {
					seen[code][pl.Name] = true
					agg.Players = append(agg.Players, RosterPlayer{Name: pl.Name, Team: code})
				}
			}

			var totalLevel, totalXP int64
			best := players[0]
			for _, pl := range players {
				totalLevel += int64(pl.Level)
				totalXP += pl.XP
				if pl.Level > best.Level || (pl.Level == best.Level && pl.XP > best.XP) {
					best = pl
				}
			}
			n := float64(len(players))
			agg.Averages[skill] = AverageStats{
				Level: math.Round(float64(totalLevel)/n*100) / 100,
				XP:    int64(math.Round(float64(totalXP) / n)),
			}
			agg.Totals[skill] = TotalStats{
				Level:   totalLevel,
				XP:      totalXP,
				Players: len(players),
			}
			agg.BestPlayers[skill] = &LeaderboardEntry{
				Name:  best.Name,
				Team:  code,
				Level: best.Level,
				XP:    best.XP,
				Rank:  best.Rank,
			}
		}
	}

	anyRoster := false
	for _, agg := range snap.Teams {
		if len(agg.Players) > 0 {
			anyRoster = true
			break
		}
	}
	if anyRoster {
		p.calculateRankings(snap)
		p.calculateOverallStats(snap)
		log.Info("Processing completed", "teams", len(snap.Teams), "total_players", snap.OverallStats.TotalPlayers)
	} else {
		log.Warn("No team players matched after processing; returning zeroed aggregates")
	}
	return snap, nil
}

// newEmptySnapshot builds a snapshot with every team present and zeroed, so
// callers never see a missing team key.
func newEmptySnapshot() *Snapshot {
	snap := &Snapshot{
		Teams:        make(map[team.Code]*TeamAggregate, len(team.All())),
		Leaderboards: make(map[hiscores.Skill][]LeaderboardEntry),
	}
	for _, code := range team.All() {
		snap.Teams[code] = &TeamAggregate{
			Name:           team.DisplayName(code),
			Code:           code,
			Players:        []RosterPlayer{},
			PlayersBySkill: make(map[hiscores.Skill][]hiscores.PlayerRecord),
			Averages:       make(map[hiscores.Skill]AverageStats),
			Totals:         make(map[hiscores.Skill]TotalStats),
			BestPlayers:    make(map[hiscores.Skill]*LeaderboardEntry),
			Rankings:       make(map[hiscores.Skill]int),
		}
	}
	return snap
}

// calculateRankings assigns a 1-based per-skill rank to every team, ordered
// by (total level, total xp) descending, residual ties in team table order.
func (p *Processor) calculateRankings(snap *Snapshot) {
	for _, skill := range hiscores.AllSkills {
		codes := team.All()
		sort.SliceStable(codes, func(i, j int) bool {
			a := snap.Teams[codes[i]].Totals[skill]
			b := snap.Teams[codes[j]].Totals[skill]
			if a.Level != b.Level {
				return a.Level > b.Level
			}
			return a.XP > b.XP
		})
		for rank, code := range codes {
			snap.Teams[code].Rankings[skill] = rank + 1
		}
	}
}

func (p *Processor) calculateOverallStats(snap *Snapshot) {
	statsSkill := p.policy.Reference
	if len(snap.Leaderboards[statsSkill]) < p.policy.MinEntries && len(snap.Leaderboards[p.policy.Fallback]) > 0 {
		statsSkill = p.policy.Fallback
		log.Warn("Reference skill data insufficient, falling back for overall stats",
			"reference", p.policy.Reference, "fallback", statsSkill, "min_entries", p.policy.MinEntries)
	}

	stats := OverallStats{
		TotalTeams:     len(snap.Teams),
		SkillLeaders:   make(map[hiscores.Skill]LeaderboardEntry),
		StatsSkillUsed: statsSkill,
	}

	for _, agg := range snap.Teams {
		stats.TotalPlayers += agg.Totals[statsSkill].Players
	}

	for _, skill := range hiscores.AllSkills {
		if board := snap.Leaderboards[skill]; len(board) > 0 {
			stats.SkillLeaders[skill] = board[0]
		}
	}

	standings := make([]Standing, 0, len(snap.Teams))
	for _, code := range team.All() {
		agg := snap.Teams[code]
		standings = append(standings, Standing{
			Team:       code,
			Name:       agg.Name,
			TotalLevel: agg.Totals[statsSkill].Level,
			TotalXP:    agg.Totals[statsSkill].XP,
			AvgLevel:   agg.Averages[statsSkill].Level,
			AvgXP:      agg.Averages[statsSkill].XP,
			Players:    agg.Totals[statsSkill].Players,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].TotalLevel != standings[j].TotalLevel {
			return standings[i].TotalLevel > standings[j].TotalLevel
		}
		return standings[i].TotalXP > standings[j].TotalXP
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	stats.TeamStandings = standings

	snap.OverallStats = stats
}

// Heatmap builds the per-skill by per-team average-XP matrix used by the
// comparison charts.
func Heatmap(teams map[team.Code]*TeamAggregate) HeatmapData {
	hm := HeatmapData{
		Teams:  team.All(),
		Skills: hiscores.AllSkills,
		Data:   make([][]int64, 0, len(hiscores.AllSkills)),
	}
	for _, skill := range hm.Skills {
		row := make([]int64, 0, len(hm.Teams))
		for _, code := range hm.Teams {
			var avgXP int64
			if agg, ok := teams[code]; ok {
				avgXP = agg.Averages[skill].XP
			}
			row = append(row, avgXP)
		}
		hm.Data = append(hm.Data, row)
	}
	return hm
}
