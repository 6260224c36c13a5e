package processor

import (
	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// Processor turns raw scrape data into processed snapshots. It is stateless;
// two calls with identical input produce identical output.
type Processor struct {
	policy StandingsPolicy
}

// StandingsPolicy names the heuristic that picks which skill overall team
// standings are computed from. The upstream source sometimes omits the
// reference skill's data, in which case the fallback skill is used whenever
// the reference leaderboard has fewer than MinEntries entries.
type StandingsPolicy struct {
	Reference  hiscores.Skill
	Fallback   hiscores.Skill
	MinEntries int
}

// DefaultStandingsPolicy is the calibration observed to work against the
// live tournament hiscores.
var DefaultStandingsPolicy = StandingsPolicy{
	Reference:  hiscores.SkillOverall,
	Fallback:   hiscores.SkillAttack,
	MinEntries: 5,
}

// LeaderboardEntry is one row of a per-skill leaderboard.
type LeaderboardEntry struct {
	Name  string    `json:"name" msgpack:"name"`
	Team  team.Code `json:"team" msgpack:"team"`
	Level int       `json:"level" msgpack:"level"`
	XP    int64     `json:"xp" msgpack:"xp"`
	Rank  int       `json:"rank" msgpack:"rank"`
}

// AverageStats holds a team's per-skill arithmetic means. Level is rounded
// to two decimals, XP to the nearest integer.
type AverageStats struct {
	Level float64 `json:"level" msgpack:"level"`
	XP    int64   `json:"xp" msgpack:"xp"`
}

// TotalStats holds a team's per-skill sums and matched player count.
type TotalStats struct {
	Level   int64 `json:"level" msgpack:"level"`
	XP      int64 `json:"xp" msgpack:"xp"`
	Players int   `json:"players" msgpack:"players"`
}

// RosterPlayer is a distinct player on a team's roster.
type RosterPlayer struct {
	Name string    `json:"name" msgpack:"name"`
	Team team.Code `json:"team" msgpack:"team"`
}

// TeamAggregate is the full per-team rollup. Every skill the snapshot
// processed has an entry in Averages, Totals and BestPlayers, zero-valued
// (best player nil) when the team had no matched players for that skill.
type TeamAggregate struct {
	Name           string                                     `json:"name" msgpack:"name"`
	Code           team.Code                                  `json:"code" msgpack:"code"`
	Players        []RosterPlayer                             `json:"players" msgpack:"players"`
	PlayersBySkill map[hiscores.Skill][]hiscores.PlayerRecord `json:"players_by_skill" msgpack:"players_by_skill"`
	Averages       map[hiscores.Skill]AverageStats            `json:"averages" msgpack:"averages"`
	Totals         map[hiscores.Skill]TotalStats              `json:"totals" msgpack:"totals"`
	BestPlayers    map[hiscores.Skill]*LeaderboardEntry       `json:"best_players" msgpack:"best_players"`
	Rankings       map[hiscores.Skill]int                     `json:"rankings" msgpack:"rankings"`
}

// Standing is one row of the overall team standings.
type Standing struct {
	Team       team.Code `json:"team" msgpack:"team"`
	Name       string    `json:"name" msgpack:"name"`
	TotalLevel int64     `json:"total_level" msgpack:"total_level"`
	TotalXP    int64     `json:"total_xp" msgpack:"total_xp"`
	AvgLevel   float64   `json:"avg_level" msgpack:"avg_level"`
	AvgXP      int64     `json:"avg_xp" msgpack:"avg_xp"`
	Players    int       `json:"players" msgpack:"players"`
	Rank       int       `json:"rank" msgpack:"rank"`
}

// OverallStats summarizes the whole competition. StatsSkillUsed records which
// skill the standings were computed from (see StandingsPolicy).
type OverallStats struct {
	TotalPlayers   int                                 `json:"total_players" msgpack:"total_players"`
	TotalTeams     int                                 `json:"total_teams" msgpack:"total_teams"`
	SkillLeaders   map[hiscores.Skill]LeaderboardEntry `json:"skill_leaders" msgpack:"skill_leaders"`
	TeamStandings  []Standing                          `json:"team_standings" msgpack:"team_standings"`
	StatsSkillUsed hiscores.Skill                      `json:"stats_skill_used" msgpack:"stats_skill_used"`
}

// Snapshot is one aggregation cycle's complete output. It is rebuilt from
// scratch every cycle and replaced wholesale; it is never mutated in place.
// Every team code is always present in Teams, and every processed skill is
// present in Leaderboards.
type Snapshot struct {
	Teams        map[team.Code]*TeamAggregate          `json:"teams" msgpack:"teams"`
	Leaderboards map[hiscores.Skill][]LeaderboardEntry `json:"leaderboards" msgpack:"leaderboards"`
	OverallStats OverallStats                          `json:"overall_stats" msgpack:"overall_stats"`
}

// SkillComparison is the head-to-head result for a single skill.
type SkillComparison struct {
	Team1AvgLevel   float64   `json:"team1_avg_level" msgpack:"team1_avg_level"`
	Team2AvgLevel   float64   `json:"team2_avg_level" msgpack:"team2_avg_level"`
	Team1AvgXP      int64     `json:"team1_avg_xp" msgpack:"team1_avg_xp"`
	Team2AvgXP      int64     `json:"team2_avg_xp" msgpack:"team2_avg_xp"`
	Team1TotalLevel int64     `json:"team1_total_level" msgpack:"team1_total_level"`
	Team2TotalLevel int64     `json:"team2_total_level" msgpack:"team2_total_level"`
	Team1TotalXP    int64     `json:"team1_total_xp" msgpack:"team1_total_xp"`
	Team2TotalXP    int64     `json:"team2_total_xp" msgpack:"team2_total_xp"`
	Winner          team.Code `json:"winner,omitempty" msgpack:"winner"`
	LevelDifference int64     `json:"level_difference" msgpack:"level_difference"`
	XPDifference    int64     `json:"xp_difference" msgpack:"xp_difference"`
}

// ComparisonSide identifies one of the two compared teams.
type ComparisonSide struct {
	Code team.Code      `json:"code" msgpack:"code"`
	Name string         `json:"name" msgpack:"name"`
	Data *TeamAggregate `json:"data" msgpack:"data"`
}

// ComparisonSummary tallies the per-skill wins. OverallWinner is the code of
// the team with more skill wins, or "tie".
type ComparisonSummary struct {
	Team1Wins     int    `json:"team1_wins" msgpack:"team1_wins"`
	Team2Wins     int    `json:"team2_wins" msgpack:"team2_wins"`
	Ties          int    `json:"ties" msgpack:"ties"`
	OverallWinner string `json:"overall_winner" msgpack:"overall_winner"`
}

// Comparison is the full head-to-head output of Compare.
type Comparison struct {
	Team1   ComparisonSide                     `json:"team1" msgpack:"team1"`
	Team2   ComparisonSide                     `json:"team2" msgpack:"team2"`
	Skills  map[hiscores.Skill]SkillComparison `json:"skill_comparison" msgpack:"skill_comparison"`
	Summary ComparisonSummary                  `json:"summary" msgpack:"summary"`
}

// QualityReport is the Data-quality Sentinel's verdict on a raw scrape. It is
// advisory only; degraded data still gets aggregated.
type QualityReport struct {
	UniqueSkillData bool             `json:"skills_have_unique_data" msgpack:"skills_have_unique_data"`
	IdenticalSkills []hiscores.Skill `json:"identical_skills,omitempty" msgpack:"identical_skills"`
	Warning         string           `json:"warning_message,omitempty" msgpack:"warning_message"`
}

// HeatmapData is a per-skill by per-team matrix of average XP, shaped for
// chart rendering.
type HeatmapData struct {
	Teams  []team.Code      `json:"teams" msgpack:"teams"`
	Skills []hiscores.Skill `json:"skills" msgpack:"skills"`
	Data   [][]int64        `json:"data" msgpack:"data"`
}
