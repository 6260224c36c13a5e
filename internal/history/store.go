package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// New creates a history store on top of an initialized database. env tags
// every snapshot row with its writer's environment.
func New(db *sql.DB, env string) Store {
	if env == "" {
		env = "development"
	}
	return &store{db: db, env: env}
}

func (s *store) SaveSnapshot(snap *processor.Snapshot, runID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	fingerprint := Fingerprint(snap)

	var existingID int64
	var existingTS string
	err := s.db.QueryRow(
		`SELECT id, timestamp FROM snapshots WHERE fingerprint = ? ORDER BY timestamp DESC LIMIT 1`,
		fingerprint,
	).Scan(&existingID, &existingTS)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("checking snapshot fingerprint: %w", err)
	}
	if err == nil {
		if ts, perr := parseTimestamp(existingTS); perr == nil && now.Sub(ts) < dedupWindow {
			log.Debug("Skipping duplicate snapshot", "fingerprint", fingerprint[:12], "existingId", existingID)
			return existingID, nil
		}
	}

	if s.env != EnvProduction {
		var prodID int64
		err := s.db.QueryRow(
			`SELECT id FROM snapshots WHERE source = ? AND timestamp > ? ORDER BY timestamp DESC LIMIT 1`,
			EnvProduction, formatTimestamp(now.Add(-prodSuppressWindow)),
		).Scan(&prodID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("checking production snapshots: %w", err)
		}
		if err == nil {
			log.Debug("Suppressing non-production snapshot near production write", "env", s.env, "productionId", prodID)
			return prodID, nil
		}
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encoding snapshot: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO snapshots (timestamp, data, fingerprint, source, run_id) VALUES (?, ?, ?, ?, ?)`,
		formatTimestamp(now), data, fingerprint, s.env, runID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}
	log.Info("Saved snapshot", "id", id, "fingerprint", fingerprint[:12], "runId", runID)
	return id, nil
}

func (s *store) SavePlayerHistory(raw hiscores.RawData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.env != EnvProduction {
		var recent int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM player_history WHERE timestamp > ?`,
			formatTimestamp(time.Now().Add(-time.Hour)),
		).Scan(&recent)
		if err != nil {
			return fmt.Errorf("counting recent player history: %w", err)
		}
		if recent > floodThreshold {
			log.Warn("Skipping player history write, recent volume too high", "recent", recent, "env", s.env)
			return nil
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting player history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO player_history (timestamp, player_name, team, skill, level, xp, rank) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing player history insert: %w", err)
	}
	defer stmt.Close()

	ts := formatTimestamp(time.Now())
	count := 0
	for _, skill := range hiscores.AllSkills {
		for _, rec := range raw[skill] {
			code := team.Classify(rec.Name)
			if _, err := stmt.Exec(ts, rec.Name, string(code), string(skill), rec.Level, rec.XP, rec.Rank); err != nil {
				return fmt.Errorf("inserting player history for %s/%s: %w", rec.Name, skill, err)
			}
			count++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing player history: %w", err)
	}
	log.Debug("Saved player history", "records", count)
	return nil
}

func (s *store) SaveTeamHistory(teams map[team.Code]*processor.TeamAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting team history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO team_history (timestamp, team, skill, avg_level, avg_xp, total_xp, players_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing team history insert: %w", err)
	}
	defer stmt.Close()

	ts := formatTimestamp(time.Now())
	count := 0
	for _, code := range team.All() {
		agg, ok := teams[code]
		if !ok {
			continue
		}
		for _, skill := range hiscores.AllSkills {
			avg, ok := agg.Averages[skill]
			if !ok {
				continue
			}
			total := agg.Totals[skill]
			if _, err := stmt.Exec(ts, string(code), string(skill), avg.Level, avg.XP, total.XP, total.Players); err != nil {
				return fmt.Errorf("inserting team history for %s/%s: %w", code, skill, err)
			}
			count++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing team history: %w", err)
	}
	log.Debug("Saved team history", "records", count)
	return nil
}

func (s *store) GetPlayerHistory(playerName string, skill hiscores.Skill) ([]PlayerPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT timestamp, level, xp, rank FROM player_history WHERE player_name = ? AND skill = ? ORDER BY timestamp ASC`,
		playerName, string(skill),
	)
	if err != nil {
		return nil, fmt.Errorf("querying player history: %w", err)
	}
	defer rows.Close()

	var points []PlayerPoint
	for rows.Next() {
		var ts string
		var p PlayerPoint
		if err := rows.Scan(&ts, &p.Level, &p.XP, &p.Rank); err != nil {
			return nil, fmt.Errorf("scanning player history row: %w", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing player history timestamp %q: %w", ts, err)
		}
		p.Timestamp = t
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *store) GetTeamHistory(code team.Code, skill hiscores.Skill) ([]TeamPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT timestamp, avg_level, avg_xp, total_xp, players_count FROM team_history WHERE team = ? AND skill = ? ORDER BY timestamp ASC`,
		string(code), string(skill),
	)
	if err != nil {
		return nil, fmt.Errorf("querying team history: %w", err)
	}
	defer rows.Close()

	var points []TeamPoint
	for rows.Next() {
		var ts string
		var p TeamPoint
		if err := rows.Scan(&ts, &p.AvgLevel, &p.AvgXP, &p.TotalXP, &p.PlayersCount); err != nil {
			return nil, fmt.Errorf("scanning team history row: %w", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing team history timestamp %q: %w", ts, err)
		}
		p.Timestamp = t
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *store) GetLatestSnapshot() (*processor.Snapshot, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	var ts string
	err := s.db.QueryRow(`SELECT data, timestamp FROM snapshots ORDER BY timestamp DESC, id DESC LIMIT 1`).Scan(&data, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying latest snapshot: %w", err)
	}

	savedAt, err := parseTimestamp(ts)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing snapshot timestamp %q: %w", ts, err)
	}

	var snap processor.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, savedAt, nil
}

func (s *store) GetAllPlayers() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT player_name FROM player_history ORDER BY player_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning player name: %w", err)
		}
		players = append(players, name)
	}
	return players, rows.Err()
}

func (s *store) CleanupOldData(retentionDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := formatTimestamp(time.Now().AddDate(0, 0, -retentionDays))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cleanup transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshots", "player_history", "team_history"} {
		res, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE timestamp < ?`, table), cutoff)
		if err != nil {
			return fmt.Errorf("cleaning %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			log.Info("Cleaned old records", "table", table, "deleted", n, "cutoff", cutoff)
		}
	}
	return tx.Commit()
}

func (s *store) Stats() (*DBStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &DBStats{SnapshotsBySource: make(map[string]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&stats.TotalSnapshots); err != nil {
		return nil, fmt.Errorf("counting snapshots: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM player_history`).Scan(&stats.TotalPlayerRecords); err != nil {
		return nil, fmt.Errorf("counting player history: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT player_name) FROM player_history`).Scan(&stats.UniquePlayers); err != nil {
		return nil, fmt.Errorf("counting unique players: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM team_history`).Scan(&stats.TotalTeamRecords); err != nil {
		return nil, fmt.Errorf("counting team history: %w", err)
	}

	if stats.TotalSnapshots > 0 {
		var earliest, latest string
		if err := s.db.QueryRow(`SELECT MIN(timestamp), MAX(timestamp) FROM snapshots`).Scan(&earliest, &latest); err != nil {
			return nil, fmt.Errorf("querying snapshot range: %w", err)
		}
		e, err := parseTimestamp(earliest)
		if err != nil {
			return nil, fmt.Errorf("parsing earliest timestamp: %w", err)
		}
		l, err := parseTimestamp(latest)
		if err != nil {
			return nil, fmt.Errorf("parsing latest timestamp: %w", err)
		}
		stats.SnapshotDateRange = &DateRange{Earliest: e, Latest: l}
	}

	rows, err := s.db.Query(`SELECT source, COUNT(*) FROM snapshots GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("counting snapshots by source: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scanning source count: %w", err)
		}
		stats.SnapshotsBySource[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM snapshots WHERE timestamp > ?`,
		formatTimestamp(time.Now().Add(-24*time.Hour)),
	).Scan(&stats.SnapshotsLast24h); err != nil {
		return nil, fmt.Errorf("counting recent snapshots: %w", err)
	}

	return stats, nil
}
