package hiscores

import "context"

// Client defines the interface for fetching tournament hiscore data.
// This allows for mock implementations to be used in tests.
type Client interface {
	FetchAll(ctx context.Context) (RawData, error)
	FetchSkill(ctx context.Context, skill Skill) ([]PlayerRecord, error)
}
