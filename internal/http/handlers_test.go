package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadman-allstars/hiscores-tracker/internal/config"
	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/history"
	"github.com/deadman-allstars/hiscores-tracker/internal/metrics"
	"github.com/deadman-allstars/hiscores-tracker/internal/notifier"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
	"github.com/deadman-allstars/hiscores-tracker/internal/updater"
)

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

type serverFixture struct {
	server *Server
	state  *updater.State
	store  *history.MockStore
	client *hiscores.MockClient
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()

	state := updater.NewState()
	store := history.NewMockStore()
	client := &hiscores.MockClient{
		FetchAllFunc: func(ctx context.Context) (hiscores.RawData, error) {
			return testRawData(), nil
		},
	}
	m := metrics.NewMock()
	counters := metrics.NewMockStore()
	upd := updater.New(client, store, state, processor.New(processor.DefaultStandingsPolicy), m, counters, notifier.NewMock())

	server := NewServer(state, store, upd, m, counters, metrics.NewMetricsHandler(), config.Config{RetentionDays: 30})
	return &serverFixture{server: server, state: state, store: store, client: client}
}

func (f *serverFixture) populate(t *testing.T) *processor.Snapshot {
	t.Helper()
	snap, err := processor.New(processor.DefaultStandingsPolicy).Process(testRawData())
	require.NoError(t, err)
	f.state.Set(snap, &processor.QualityReport{UniqueSkillData: true}, time.Now())
	return snap
}

func (f *serverFixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestDataHandler_NoDataYet(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/api/data")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDataHandler(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/data")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Snapshot    processor.Snapshot `json:"snapshot"`
		LastUpdated time.Time          `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Snapshot.OverallStats.TotalPlayers)
	assert.False(t, resp.LastUpdated.IsZero())
}

func TestTeamHandler(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/team/bb")
	require.Equal(t, http.StatusOK, rec.Code)

	var agg processor.TeamAggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(t, team.BB, agg.Code)
	assert.Equal(t, "B0aty Brawlers", agg.Name)
}

func TestTeamHandler_UnknownTeam(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/team/XX")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboardsHandler_SkillFilter(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/leaderboards?skill=attack")
	require.Equal(t, http.StatusOK, rec.Code)

	var boards map[hiscores.Skill][]processor.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boards))
	require.Len(t, boards, 1)
	assert.Len(t, boards[hiscores.SkillAttack], 2)

	rec = f.do(t, http.MethodGet, "/api/leaderboards?skill=juggling")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComparisonHandler(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/comparison?team1=BB&team2=DN")
	require.Equal(t, http.StatusOK, rec.Code)

	var comparison processor.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comparison))
	assert.Equal(t, team.BB, comparison.Team1.Code)
	assert.Equal(t, team.DN, comparison.Team2.Code)
	assert.Equal(t, string(team.BB), comparison.Summary.OverallWinner)
}

func TestComparisonHandler_MissingParams(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/comparison?team1=BB")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeatmapHandler(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/heatmap")
	require.Equal(t, http.StatusOK, rec.Code)

	var heatmap processor.HeatmapData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heatmap))
	assert.Len(t, heatmap.Teams, len(team.All()))
	assert.Len(t, heatmap.Data, len(hiscores.AllSkills))
}

func TestPlayersHandler(t *testing.T) {
	f := newTestServer(t)
	f.store.GetAllPlayersFunc = func() ([]string, error) {
		return []string{"BB_Bob", "DN_Alice"}, nil
	}

	rec := f.do(t, http.MethodGet, "/api/players")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players []string `json:"players"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"BB_Bob", "DN_Alice"}, resp.Players)
}

func TestPlayerHistoryHandler(t *testing.T) {
	f := newTestServer(t)
	f.store.GetPlayerHistoryFunc = func(name string, skill hiscores.Skill) ([]history.PlayerPoint, error) {
		assert.Equal(t, "BB_Bob", name)
		assert.Equal(t, hiscores.SkillAttack, skill)
		return []history.PlayerPoint{{Timestamp: time.Now(), Level: 99, XP: 50_000_000, Rank: 1}}, nil
	}

	rec := f.do(t, http.MethodGet, "/api/history/player/BB_Bob?skill=attack")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Player  string                `json:"player"`
		History []history.PlayerPoint `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BB_Bob", resp.Player)
	require.Len(t, resp.History, 1)
	assert.Equal(t, 99, resp.History[0].Level)
}

func TestTeamHistoryHandler_UnknownTeam(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/api/history/team/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComparePlayersHandler_ServesFromSnapshot(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)
	// No persisted history: the comparison must come from the live
	// snapshot's leaderboards alone.
	f.store.GetPlayerHistoryFunc = func(name string, skill hiscores.Skill) ([]history.PlayerPoint, error) {
		t.Fatal("comparison must not read the history store")
		return nil, nil
	}

	rec := f.do(t, http.MethodGet, "/api/compare/players?players=BB_Bob&players=DN_Alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players map[string]PlayerComparisonEntry `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Players, 2)

	bob := resp.Players["BB_Bob"]
	assert.Equal(t, team.BB, bob.Team)
	require.Contains(t, bob.Skills, hiscores.SkillOverall)
	require.Contains(t, bob.Skills, hiscores.SkillAttack)
	assert.Equal(t, 99, bob.Skills[hiscores.SkillOverall].Level)
	assert.Equal(t, int64(50_000_000), bob.Skills[hiscores.SkillOverall].XP)

	alice := resp.Players["DN_Alice"]
	assert.Equal(t, team.DN, alice.Team)
	assert.Equal(t, 90, alice.Skills[hiscores.SkillAttack].Level)
}

func TestComparePlayersHandler_CommaSeparated(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/compare/players?players=BB_Bob,DN_Alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players map[string]PlayerComparisonEntry `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Players, 2)
}

func TestComparePlayersHandler_UnknownPlayerGetsEmptySkills(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/compare/players?players=BB_Bob&players=Nobody")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players map[string]PlayerComparisonEntry `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Players["Nobody"].Skills)
	assert.NotEmpty(t, resp.Players["BB_Bob"].Skills)
}

func TestComparePlayersHandler_RequiresTwoPlayers(t *testing.T) {
	f := newTestServer(t)
	f.populate(t)

	rec := f.do(t, http.MethodGet, "/api/compare/players?players=BB_Bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/compare/players")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComparePlayersHandler_NoDataYet(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/compare/players?players=BB_Bob&players=DN_Alice")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshHandler(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotNil(t, f.state.Get())
	assert.Equal(t, 1, f.client.FetchAllCalls)
	assert.Len(t, f.store.SaveSnapshotCalls, 1)
}

func TestCleanupHandler(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/cleanup?days=7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.store.CleanupOldDataCalls, 1)
	assert.Equal(t, 7, f.store.CleanupOldDataCalls[0])

	rec = f.do(t, http.MethodGet, "/cleanup?days=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	f := newTestServer(t)
	f.store.StatsFunc = func() (*history.DBStats, error) {
		return &history.DBStats{TotalSnapshots: 3, SnapshotsBySource: map[string]int{"production": 3}}, nil
	}

	rec := f.do(t, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Database history.DBStats `json:"database"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Database.TotalSnapshots)
}
