package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/normalize"
	"speedrun_pbs/internal/processing/mocks"
	"speedrun_pbs/internal/speedrun"
)

// newTestService returns a service over a mock client with a fixed clock
func newTestService(client *mocks.MockSpeedrunClient) *PersonalBestService {
	service := NewPersonalBestService(client, 2)
	service.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return service
}

func TestPersonalBestService_Search(t *testing.T) {
	client := mocks.NewMockSpeedrunClient()
	client.UserResponse = testUser()
	client.PersonalBestsResponse = []app.PersonalBest{
		testPersonalBest("stale", "g1", "Game", "c1", "Any%", "easy", 100),
		testPersonalBest("best", "g1", "Game", "c1", "Any%", "easy", 90),
	}
	service := newTestService(client)

	report, err := service.Search(context.Background(), "RunnerOne")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if client.GetPersonalBestsCalledWith != "u1" {
		t.Errorf("Expected personal bests fetched by runner id, got '%s'", client.GetPersonalBestsCalledWith)
	}
	if report.Runner.RunnerName != "Runner One" {
		t.Errorf("Expected runner name 'Runner One', got '%s'", report.Runner.RunnerName)
	}
	if len(report.Games) != 1 || len(report.Games[0].Rows) != 1 {
		t.Fatalf("Expected 1 game with 1 row, got %+v", report.Games)
	}
	if report.Games[0].Rows[0].RunID != "best" {
		t.Errorf("Expected best run to survive, got %s", report.Games[0].Rows[0].RunID)
	}
	if !report.GeneratedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected fixed clock, got %v", report.GeneratedAt)
	}
}

func TestPersonalBestService_SearchErrors(t *testing.T) {
	malformed := testPersonalBest("r1", "g1", "Game", "c1", "Any%", "", 10)
	malformed.Game = nil

	tests := []struct {
		name    string
		setup   func(*mocks.MockSpeedrunClient)
		wantErr error
	}{
		{
			name: "runner not found",
			setup: func(m *mocks.MockSpeedrunClient) {
				m.UserError = &speedrun.APIError{StatusCode: 404, Body: "not found"}
			},
			wantErr: ErrRunnerNotFound,
		},
		{
			name: "personal bests fail",
			setup: func(m *mocks.MockSpeedrunClient) {
				m.UserResponse = testUser()
				m.PersonalBestsError = &speedrun.APIError{StatusCode: 500, Body: "boom"}
			},
		},
		{
			name: "malformed record",
			setup: func(m *mocks.MockSpeedrunClient) {
				m.UserResponse = testUser()
				m.PersonalBestsResponse = []app.PersonalBest{malformed}
			},
			wantErr: normalize.ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockSpeedrunClient()
			tt.setup(client)

			report, err := newTestService(client).Search(context.Background(), "someone")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if report != nil {
				t.Error("Expected nil report on error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && errors.Is(err, ErrRunnerNotFound) {
				t.Errorf("Expected a non-404 failure, got %v", err)
			}
		})
	}
}

func TestPersonalBestService_History(t *testing.T) {
	client := mocks.NewMockSpeedrunClient()
	client.HistoryResponses["c1"] = []app.HistoryRun{
		testHistoryRun("h1", "c1", "Any%", "easy", "verified", 120),
		testHistoryRun("h2", "c1", "Any%", "hard", "verified", 80),
		testHistoryRun("h3", "c1", "Any%", "easy", "rejected", 95),
	}
	service := newTestService(client)

	rows, err := service.History(context.Background(), "u1", "g1", "c1", app.Combination{"easy"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 || rows[0].RunID != "h3" || rows[1].RunID != "h1" {
		t.Errorf("Expected h3 then h1, got %+v", rows)
	}
	if client.HistoryCalls[0] != (mocks.HistoryCall{RunnerID: "u1", GameID: "g1", CategoryID: "c1"}) {
		t.Errorf("Unexpected history call %+v", client.HistoryCalls[0])
	}
}

func TestPersonalBestService_ExpandAll(t *testing.T) {
	client := mocks.NewMockSpeedrunClient()
	client.UserResponse = testUser()
	client.PersonalBestsResponse = []app.PersonalBest{
		testPersonalBest("r1", "g1", "Game", "c1", "Any%", "easy", 100),
		testPersonalBest("r2", "g1", "Game", "c1", "Any%", "hard", 200),
		testPersonalBest("r3", "g1", "Game", "c2", "100%", "", 300),
	}
	client.HistoryResponses["c1"] = []app.HistoryRun{
		testHistoryRun("h1", "c1", "Any%", "easy", "verified", 100),
		testHistoryRun("h2", "c1", "Any%", "easy", "verified", 110),
		testHistoryRun("h3", "c1", "Any%", "hard", "verified", 200),
	}
	service := newTestService(client)

	ctx := context.Background()
	report, err := service.Search(ctx, "RunnerOne")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := service.ExpandAll(ctx, report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := map[string]int{"r1": 2, "r2": 1, "r3": 0}
	for _, row := range report.Games[0].Rows {
		if len(row.History) != expected[row.RunID] {
			t.Errorf("Row %s: expected %d history rows, got %d", row.RunID, expected[row.RunID], len(row.History))
		}
	}
	if client.HistoryCallCount() != 3 {
		t.Errorf("Expected one history call per row, got %d", client.HistoryCallCount())
	}
}

func TestPersonalBestService_ExpandAllError(t *testing.T) {
	client := mocks.NewMockSpeedrunClient()
	client.UserResponse = testUser()
	client.PersonalBestsResponse = []app.PersonalBest{testPersonalBest("r1", "g1", "Game", "c1", "Any%", "", 10)}
	service := newTestService(client)

	ctx := context.Background()
	report, err := service.Search(ctx, "RunnerOne")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	client.HistoryError = errors.New("upstream down")
	if err := service.ExpandAll(ctx, report); err == nil {
		t.Error("Expected error from ExpandAll, got nil")
	}
}

func TestNewPersonalBestServiceClampsConcurrency(t *testing.T) {
	service := NewPersonalBestService(mocks.NewMockSpeedrunClient(), 0)
	if service.concurrency != 1 {
		t.Errorf("Expected concurrency clamped to 1, got %d", service.concurrency)
	}
}
