package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// Fingerprint computes a stable content hash for a snapshot. Two snapshots
// whose team rosters carry the same total XP hash identically, so cosmetic
// differences (map iteration order, timestamps) never defeat deduplication.
//
// The projection is versioned: bump the v prefix if the shape changes, so
// old rows never collide with new ones.
func Fingerprint(snap *processor.Snapshot) string {
	statsSkill := snap.OverallStats.StatsSkillUsed

	codes := make([]string, 0, len(snap.Teams))
	totalPlayers := 0
	for code, agg := range snap.Teams {
		codes = append(codes, string(code))
		if total, ok := agg.Totals[statsSkill]; ok {
			totalPlayers += total.Players
		}
	}
	sort.Strings(codes)

	var b strings.Builder
	fmt.Fprintf(&b, "v1|teams=%d|players=%d|", len(codes), totalPlayers)
	for _, code := range codes {
		var xp int64
		if total, ok := snap.Teams[team.Code(code)].Totals[statsSkill]; ok {
			xp = total.XP
		}
		fmt.Fprintf(&b, "%s=%d;", code, xp)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
