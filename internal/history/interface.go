package history

import (
	"time"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// Store defines the interface for the historical tracking database.
type Store interface {
	// SaveSnapshot persists a full processed snapshot and returns its record
	// id. Writes deduplicate on content fingerprint within a one-hour
	// window, and non-production processes suppress writes that would
	// shadow a recent production snapshot; both cases return the existing
	// record's id.
	SaveSnapshot(snap *processor.Snapshot, runID string) (int64, error)
	SavePlayerHistory(raw hiscores.RawData) error
	SaveTeamHistory(teams map[team.Code]*processor.TeamAggregate) error
	GetPlayerHistory(playerName string, skill hiscores.Skill) ([]PlayerPoint, error)
	GetTeamHistory(code team.Code, skill hiscores.Skill) ([]TeamPoint, error)
	// GetLatestSnapshot returns the most recent snapshot and the time it
	// was persisted, or nil when the database holds none.
	GetLatestSnapshot() (*processor.Snapshot, time.Time, error)
	GetAllPlayers() ([]string, error)
	CleanupOldData(retentionDays int) error
	Stats() (*DBStats, error)
}
