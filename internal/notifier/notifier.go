package notifier

import (
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendQualityAlert warns operators that the upstream hiscore data
	// looks degraded for the current cycle.
	SendQualityAlert(report *processor.QualityReport, dryRun bool) error
	// SendStandingsUpdate posts the current team standings.
	SendStandingsUpdate(stats *processor.OverallStats, dryRun bool) error
}
