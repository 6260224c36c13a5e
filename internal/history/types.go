package history

import (
	"database/sql"
	"sync"
	"time"
)

// EnvProduction is the provenance tag of snapshots written by the production
// deployment. Any other environment string is treated as non-production.
const EnvProduction = "production"

const (
	// dedupWindow is how recently an identical-fingerprint snapshot must
	// have been written for a new write to be skipped.
	dedupWindow = time.Hour
	// prodSuppressWindow guards non-production processes from laying down
	// a competing time series next to a live production one.
	prodSuppressWindow = 2 * time.Hour
	// floodThreshold caps last-hour player history volume for
	// non-production writers.
	floodThreshold = 10000
)

// store handles all database operations for historical tracking.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	env string
}

// PlayerPoint is one player history sample, ascending by time in queries.
type PlayerPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	XP        int64     `json:"xp"`
	Rank      int       `json:"rank"`
}

// TeamPoint is one team history sample.
type TeamPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	AvgLevel     float64   `json:"avg_level"`
	AvgXP        int64     `json:"avg_xp"`
	TotalXP      int64     `json:"total_xp"`
	PlayersCount int       `json:"players_count"`
}

// DateRange bounds the stored snapshot timestamps.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// DBStats is the operational summary served for monitoring.
type DBStats struct {
	TotalSnapshots     int            `json:"total_snapshots"`
	TotalPlayerRecords int            `json:"total_player_records"`
	UniquePlayers      int            `json:"unique_players"`
	TotalTeamRecords   int            `json:"total_team_records"`
	SnapshotDateRange  *DateRange     `json:"snapshot_date_range,omitempty"`
	SnapshotsBySource  map[string]int `json:"snapshots_by_source"`
	SnapshotsLast24h   int            `json:"snapshots_last_24h"`
}

// formatTimestamp converts a time to the SQLite-friendly UTC ISO8601 form
// used by every table. The Z suffix makes the driver parse it back as UTC.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z", s)
}
