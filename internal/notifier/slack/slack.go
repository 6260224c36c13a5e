package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/deadman-allstars/hiscores-tracker/internal/metrics"
	"github.com/deadman-allstars/hiscores-tracker/internal/notifier"
	"github.com/deadman-allstars/hiscores-tracker/internal/processor"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack. When the token or
// channel is not configured it degrades to a no-op that logs and succeeds,
// so deployments without Slack keep working.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{channelID: channelID, metrics: metrics}
	if token != "" {
		n.api = slack.New(token)
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (n *Notifier) configured() bool {
	return n.api != nil && n.channelID != ""
}

func (n *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if !n.configured() {
		log.Debug("Slack is not configured, skipping notification")
		return nil
	}
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", n.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := n.api.PostMessageContext(
		ctx,
		n.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		n.metrics.IncNotificationsFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", n.channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	n.metrics.IncNotificationsSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendQualityAlert posts a warning that the current hiscore data looks degraded.
func (n *Notifier) SendQualityAlert(report *processor.QualityReport, dryRun bool) error {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚠️ Hiscore data quality warning", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	body := report.Warning
	if body == "" {
		body = "Source data quality degraded."
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", body, true, false), nil, nil))

	if len(report.IdenticalSkills) > 0 {
		detail := fmt.Sprintf("%d skill tables mirror the overall table.", len(report.IdenticalSkills))
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", detail, true, false)))
	}

	return n.sendMessage(slack.NewBlockMessage(blocks...), dryRun)
}

// SendStandingsUpdate posts the current team standings.
func (n *Notifier) SendStandingsUpdate(stats *processor.OverallStats, dryRun bool) error {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Team standings", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	medals := []string{"🥇", "🥈", "🥉"}
	for _, standing := range stats.TeamStandings {
		prefix := fmt.Sprintf("%d.", standing.Rank)
		if standing.Rank-1 < len(medals) {
			prefix = medals[standing.Rank-1]
		}
		line := fmt.Sprintf("%s %s: %s total level, %s XP (%d players)",
			prefix,
			standing.Name,
			formatCount(standing.TotalLevel),
			formatCount(standing.TotalXP),
			standing.Players,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}

	footer := fmt.Sprintf("%d players tracked across %d teams", stats.TotalPlayers, stats.TotalTeams)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", footer, true, false)))

	return n.sendMessage(slack.NewBlockMessage(blocks...), dryRun)
}

// formatCount renders large numbers with thousands separators.
func formatCount(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
