package processing

import (
	"context"

	"speedrun_pbs/internal/app"
)

// SpeedrunClientInterface defines the speedrun.com API client methods used by PersonalBestService
type SpeedrunClientInterface interface {
	GetUser(ctx context.Context, name string) (*app.User, error)
	GetPersonalBests(ctx context.Context, runnerID string) ([]app.PersonalBest, error)
	GetRunHistory(ctx context.Context, runnerID, gameID, categoryID string) ([]app.HistoryRun, error)
}

// PersonalBestServiceInterface defines the operations the CLI and HTTP surfaces call
type PersonalBestServiceInterface interface {
	Search(ctx context.Context, name string) (*app.Report, error)
	History(ctx context.Context, runnerID, gameID, categoryID string, combination app.Combination) ([]app.HistoryRow, error)
	ExpandAll(ctx context.Context, report *app.Report) error
}
