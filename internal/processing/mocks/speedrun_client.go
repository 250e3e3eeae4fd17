package mocks

import (
	"context"
	"sync"

	"speedrun_pbs/internal/app"
)

// HistoryCall records the arguments of one GetRunHistory call
type HistoryCall struct {
	RunnerID   string
	GameID     string
	CategoryID string
}

// MockSpeedrunClient is a test double for the speedrun.Client.
// It is safe for concurrent use.
type MockSpeedrunClient struct {
	// Responses to return
	UserResponse          *app.User
	PersonalBestsResponse []app.PersonalBest
	// HistoryResponses is keyed by category id
	HistoryResponses map[string][]app.HistoryRun

	// Errors to return
	UserError          error
	PersonalBestsError error
	HistoryError       error

	// Call tracking
	mutex                      sync.Mutex
	GetUserCalledWith          string
	GetPersonalBestsCalledWith string
	HistoryCalls               []HistoryCall
}

// NewMockSpeedrunClient creates a new mock speedrun client
func NewMockSpeedrunClient() *MockSpeedrunClient {
	return &MockSpeedrunClient{HistoryResponses: make(map[string][]app.HistoryRun)}
}

func (m *MockSpeedrunClient) GetUser(ctx context.Context, name string) (*app.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.GetUserCalledWith = name
	return m.UserResponse, m.UserError
}

func (m *MockSpeedrunClient) GetPersonalBests(ctx context.Context, runnerID string) ([]app.PersonalBest, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.GetPersonalBestsCalledWith = runnerID
	return m.PersonalBestsResponse, m.PersonalBestsError
}

func (m *MockSpeedrunClient) GetRunHistory(ctx context.Context, runnerID, gameID, categoryID string) ([]app.HistoryRun, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.HistoryCalls = append(m.HistoryCalls, HistoryCall{RunnerID: runnerID, GameID: gameID, CategoryID: categoryID})
	if m.HistoryError != nil {
		return nil, m.HistoryError
	}
	return m.HistoryResponses[categoryID], nil
}

// HistoryCallCount returns how many times GetRunHistory was called
func (m *MockSpeedrunClient) HistoryCallCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.HistoryCalls)
}
