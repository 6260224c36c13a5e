package hiscores

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	FetchAllFunc   func(ctx context.Context) (RawData, error)
	FetchSkillFunc func(ctx context.Context, skill Skill) ([]PlayerRecord, error)

	FetchAllCalls   int
	FetchSkillCalls []Skill
}

// NewMock creates a new mock instance.
func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) FetchAll(ctx context.Context) (RawData, error) {
	m.mu.Lock()
	m.FetchAllCalls++
	fn := m.FetchAllFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return RawData{}, nil
}

func (m *MockClient) FetchSkill(ctx context.Context, skill Skill) ([]PlayerRecord, error) {
	m.mu.Lock()
	m.FetchSkillCalls = append(m.FetchSkillCalls, skill)
	fn := m.FetchSkillFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, skill)
	}
	return nil, nil
}
