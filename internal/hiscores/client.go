package hiscores

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
)

const (
	defaultBaseURL = "https://secure.runescape.com/m=hiscore_oldschool_tournament"
	pagesPerSkill  = 2
	maxAttempts    = 3
)

// APIClient scrapes the public tournament hiscore pages. It implements the
// Client interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	// pause between page requests, to stay polite to the hiscore site
	pageDelay time.Duration
}

// NewClient creates a new hiscores client.
func NewClient(baseURL string) Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    baseURL,
		pageDelay:  500 * time.Millisecond,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// FetchAll scrapes every skill's hiscore table. Skills that fail after
// retries are returned with an empty list rather than failing the whole
// scrape; the caller decides whether the remainder is usable.
func (c *APIClient) FetchAll(ctx context.Context) (RawData, error) {
	all := make(RawData, len(AllSkills))
	var failed []Skill

	for _, skill := range AllSkills {
		records, err := c.FetchSkill(ctx, skill)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Error("Failed to scrape skill", "skill", skill, "error", err)
			failed = append(failed, skill)
			all[skill] = nil
			continue
		}
		all[skill] = records
		log.Debug("Scraped skill", "skill", skill, "players", len(records))
	}

	log.Info("Scrape completed", "skills", len(AllSkills), "failed", len(failed))
	if len(failed) == len(AllSkills) {
		return all, fmt.Errorf("all %d skills failed to scrape", len(AllSkills))
	}
	return all, nil
}

// FetchSkill scrapes the first two pages of a single skill's table.
func (c *APIClient) FetchSkill(ctx context.Context, skill Skill) ([]PlayerRecord, error) {
	var records []PlayerRecord
	for page := 1; page <= pagesPerSkill; page++ {
		pageRecords, err := c.fetchSkillPage(ctx, skill, page)
		if err != nil {
			return nil, fmt.Errorf("fetching %s page %d: %w", skill, page, err)
		}
		records = append(records, pageRecords...)

		if page < pagesPerSkill {
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return records, nil
}

func (c *APIClient) fetchSkillPage(ctx context.Context, skill Skill, page int) ([]PlayerRecord, error) {
	url := fmt.Sprintf("%s/overall?table=%d&page=%d", c.BaseURL, TableID(skill), page)

	var body []byte
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(1*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Warn("Hiscore request failed, retrying", "url", url, "error", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
			if resp.StatusCode >= 500 {
				log.Warn("Hiscore server error, retrying", "url", url, "status", resp.StatusCode)
				return retry.RetryableError(err)
			}
			return err
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ParseSkillTable(body, skill)
}
