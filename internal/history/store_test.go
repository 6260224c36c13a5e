package history

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadman-allstars/hiscores-tracker/internal/database"
	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

func newTestStore(t *testing.T, env string) (Store, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history_test.db")
	db, err := database.InitDB(dbPath, "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, env), db
}

func testRawData() hiscores.RawData {
	raw := hiscores.RawData{}
	for _, skill := range []hiscores.Skill{hiscores.SkillOverall, hiscores.SkillAttack} {
		raw[skill] = []hiscores.PlayerRecord{
			{Name: "BB_Bob", Level: 99, XP: 50_000_000, Rank: 1, Skill: skill},
			{Name: "DN_Alice", Level: 90, XP: 40_000_000, Rank: 2, Skill: skill},
		}
	}
	return raw
}

func testSnapshot(t *testing.T) *processor.Snapshot {
	t.Helper()
	snap, err := processor.New(processor.DefaultStandingsPolicy).Process(testRawData())
	require.NoError(t, err)
	return snap
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)
	snap := testSnapshot(t)

	id, err := store.SaveSnapshot(snap, "run-1")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	loaded, savedAt, err := store.GetLatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.WithinDuration(t, time.Now().UTC(), savedAt, time.Minute)

	assert.Equal(t, snap.OverallStats.TotalPlayers, loaded.OverallStats.TotalPlayers)
	assert.Equal(t, snap.OverallStats.StatsSkillUsed, loaded.OverallStats.StatsSkillUsed)
	require.Contains(t, loaded.Teams, team.BB)
	assert.Equal(t, snap.Teams[team.BB].Totals[hiscores.SkillAttack].XP,
		loaded.Teams[team.BB].Totals[hiscores.SkillAttack].XP)
}

func TestSaveSnapshot_DeduplicatesWithinWindow(t *testing.T) {
	store, db := newTestStore(t, EnvProduction)
	snap := testSnapshot(t)

	first, err := store.SaveSnapshot(snap, "run-1")
	require.NoError(t, err)

	second, err := store.SaveSnapshot(snap, "run-2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaveSnapshot_WritesAfterDedupWindow(t *testing.T) {
	store, db := newTestStore(t, EnvProduction)
	snap := testSnapshot(t)

	first, err := store.SaveSnapshot(snap, "run-1")
	require.NoError(t, err)

	// Age the existing row past the dedup window.
	stale := formatTimestamp(time.Now().Add(-2 * time.Hour))
	_, err = db.Exec(`UPDATE snapshots SET timestamp = ? WHERE id = ?`, stale, first)
	require.NoError(t, err)

	second, err := store.SaveSnapshot(snap, "run-2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSaveSnapshot_NonProductionSuppressedNearProduction(t *testing.T) {
	store, db := newTestStore(t, "development")

	res, err := db.Exec(
		`INSERT INTO snapshots (timestamp, data, fingerprint, source, run_id) VALUES (?, ?, ?, ?, ?)`,
		formatTimestamp(time.Now().Add(-10*time.Minute)), []byte{0x90}, "prod-fingerprint", EnvProduction, "prod-run",
	)
	require.NoError(t, err)
	prodID, err := res.LastInsertId()
	require.NoError(t, err)

	id, err := store.SaveSnapshot(testSnapshot(t), "dev-run")
	require.NoError(t, err)
	assert.Equal(t, prodID, id)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaveSnapshot_NonProductionWritesWhenProductionIsStale(t *testing.T) {
	store, db := newTestStore(t, "development")

	_, err := db.Exec(
		`INSERT INTO snapshots (timestamp, data, fingerprint, source, run_id) VALUES (?, ?, ?, ?, ?)`,
		formatTimestamp(time.Now().Add(-3*time.Hour)), []byte{0x90}, "prod-fingerprint", EnvProduction, "prod-run",
	)
	require.NoError(t, err)

	_, err = store.SaveSnapshot(testSnapshot(t), "dev-run")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestGetLatestSnapshot_EmptyDatabase(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)

	snap, savedAt, err := store.GetLatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.True(t, savedAt.IsZero())
}

func TestSavePlayerHistory_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)

	require.NoError(t, store.SavePlayerHistory(testRawData()))

	points, err := store.GetPlayerHistory("BB_Bob", hiscores.SkillOverall)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 99, points[0].Level)
	assert.Equal(t, int64(50_000_000), points[0].XP)
	assert.Equal(t, 1, points[0].Rank)
}

func TestSavePlayerHistory_IgnoresDuplicateSamples(t *testing.T) {
	store, db := newTestStore(t, EnvProduction)

	ts := formatTimestamp(time.Now())
	for i := 0; i < 2; i++ {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO player_history (timestamp, player_name, team, skill, level, xp, rank) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ts, "BB_Bob", "BB", "overall", 99, 50_000_000, 1,
		)
		require.NoError(t, err)
	}

	points, err := store.GetPlayerHistory("BB_Bob", hiscores.SkillOverall)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestGetPlayerHistory_Ascending(t *testing.T) {
	store, db := newTestStore(t, EnvProduction)

	older := formatTimestamp(time.Now().Add(-48 * time.Hour))
	newer := formatTimestamp(time.Now())
	for _, row := range []struct {
		ts    string
		level int
	}{{newer, 95}, {older, 90}} {
		_, err := db.Exec(
			`INSERT INTO player_history (timestamp, player_name, team, skill, level, xp, rank) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.ts, "BB_Bob", "BB", "overall", row.level, 1000, 1,
		)
		require.NoError(t, err)
	}

	points, err := store.GetPlayerHistory("BB_Bob", hiscores.SkillOverall)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 90, points[0].Level)
	assert.Equal(t, 95, points[1].Level)
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
}

func TestSaveTeamHistory_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)
	snap := testSnapshot(t)

	require.NoError(t, store.SaveTeamHistory(snap.Teams))

	points, err := store.GetTeamHistory(team.BB, hiscores.SkillAttack)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 99.0, points[0].AvgLevel)
	assert.Equal(t, int64(50_000_000), points[0].TotalXP)
	assert.Equal(t, 1, points[0].PlayersCount)
}

func TestGetAllPlayers_DistinctAndSorted(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)

	require.NoError(t, store.SavePlayerHistory(testRawData()))

	players, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Equal(t, []string{"BB_Bob", "DN_Alice"}, players)
}

func TestCleanupOldData(t *testing.T) {
	store, db := newTestStore(t, EnvProduction)

	old := formatTimestamp(time.Now().AddDate(0, 0, -60))
	_, err := db.Exec(
		`INSERT INTO player_history (timestamp, player_name, team, skill, level, xp, rank) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		old, "BB_Old", "BB", "overall", 50, 100, 10,
	)
	require.NoError(t, err)
	require.NoError(t, store.SavePlayerHistory(testRawData()))

	require.NoError(t, store.CleanupOldData(30))

	players, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.NotContains(t, players, "BB_Old")
	assert.Contains(t, players, "BB_Bob")
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t, EnvProduction)

	_, err := store.SaveSnapshot(testSnapshot(t), "run-1")
	require.NoError(t, err)
	require.NoError(t, store.SavePlayerHistory(testRawData()))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSnapshots)
	assert.Equal(t, 4, stats.TotalPlayerRecords)
	assert.Equal(t, 2, stats.UniquePlayers)
	assert.Equal(t, 1, stats.SnapshotsBySource[EnvProduction])
	assert.Equal(t, 1, stats.SnapshotsLast24h)
	require.NotNil(t, stats.SnapshotDateRange)
	assert.False(t, stats.SnapshotDateRange.Earliest.After(stats.SnapshotDateRange.Latest))
}
