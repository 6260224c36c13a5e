package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

var (
	dryRun         bool
	leaderboardTop int
)

func init() {
	refreshCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the cycle without sending notifications")
	leaderboardCmd.Flags().IntVar(&leaderboardTop, "top", 10, "Number of entries to show")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trigger a scrape and aggregation cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/refresh"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performGetRequest(endpoint)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current team standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Snapshot processor.Snapshot `json:"snapshot"`
		}
		if err := getJSON("/api/data", &resp); err != nil {
			return err
		}

		table := newTable()
		table.Header("RANK", "TEAM", "CODE", "TOTAL LVL", "TOTAL XP", "AVG LVL", "PLAYERS")
		for _, s := range resp.Snapshot.OverallStats.TeamStandings {
			table.Append(
				strconv.Itoa(s.Rank),
				s.Name,
				string(s.Team),
				strconv.FormatInt(s.TotalLevel, 10),
				strconv.FormatInt(s.TotalXP, 10),
				fmt.Sprintf("%.2f", s.AvgLevel),
				strconv.Itoa(s.Players),
			)
		}
		table.Render()
		fmt.Printf("\nStandings based on the %s table.\n", resp.Snapshot.OverallStats.StatsSkillUsed)
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [skill]",
	Short: "Show the player leaderboard for a skill",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill := string(hiscores.SkillOverall)
		if len(args) > 0 {
			skill = args[0]
		}

		var boards map[hiscores.Skill][]processor.LeaderboardEntry
		if err := getJSON("/api/leaderboards?skill="+url.QueryEscape(skill), &boards); err != nil {
			return err
		}

		table := newTable()
		table.Header("#", "PLAYER", "TEAM", "LEVEL", "XP")
		for _, board := range boards {
			for i, entry := range board {
				if i >= leaderboardTop {
					break
				}
				table.Append(
					strconv.Itoa(i+1),
					entry.Name,
					string(entry.Team),
					strconv.Itoa(entry.Level),
					strconv.FormatInt(entry.XP, 10),
				)
			}
		}
		table.Render()
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all tracked players",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Players []string `json:"players"`
			Count   int      `json:"count"`
		}
		if err := getJSON("/api/players", &resp); err != nil {
			return err
		}
		for _, name := range resp.Players {
			fmt.Println(name)
		}
		fmt.Printf("\n%d players tracked.\n", resp.Count)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Database struct {
				TotalSnapshots     int            `json:"total_snapshots"`
				TotalPlayerRecords int            `json:"total_player_records"`
				UniquePlayers      int            `json:"unique_players"`
				TotalTeamRecords   int            `json:"total_team_records"`
				SnapshotsBySource  map[string]int `json:"snapshots_by_source"`
				SnapshotsLast24h   int            `json:"snapshots_last_24h"`
			} `json:"database"`
			Counters    map[string]int64 `json:"counters"`
			LastUpdated string           `json:"last_updated"`
		}
		if err := getJSON("/api/stats", &resp); err != nil {
			return err
		}

		table := newTable()
		table.Header("METRIC", "VALUE")
		table.Append("Snapshots", strconv.Itoa(resp.Database.TotalSnapshots))
		table.Append("Snapshots (24h)", strconv.Itoa(resp.Database.SnapshotsLast24h))
		table.Append("Player records", strconv.Itoa(resp.Database.TotalPlayerRecords))
		table.Append("Unique players", strconv.Itoa(resp.Database.UniquePlayers))
		table.Append("Team records", strconv.Itoa(resp.Database.TotalTeamRecords))
		for source, count := range resp.Database.SnapshotsBySource {
			table.Append("Snapshots from "+source, strconv.Itoa(count))
		}
		for key, value := range resp.Counters {
			table.Append(key, strconv.FormatInt(value, 10))
		}
		table.Render()
		if resp.LastUpdated != "" {
			fmt.Printf("\nLast updated: %s\n", resp.LastUpdated)
		}
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete records older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/cleanup")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func getJSON(endpoint string, out any) error {
	resp, err := http.Get(host + endpoint)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
