package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/history"
	"speedrun_pbs/internal/domain/normalize"
	"speedrun_pbs/internal/metrics"
	"speedrun_pbs/internal/speedrun"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrRunnerNotFound is returned when the searched runner does not exist
var ErrRunnerNotFound = errors.New("runner not found")

// PersonalBestService searches a runner's personal bests and expands run history
type PersonalBestService struct {
	client      SpeedrunClientInterface
	concurrency int
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewPersonalBestService creates a service; concurrency bounds parallel history fetches
func NewPersonalBestService(client SpeedrunClientInterface, concurrency int) *PersonalBestService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PersonalBestService{
		client:      client,
		concurrency: concurrency,
		metrics:     metrics.Default(),
		now:         time.Now,
	}
}

// Search resolves name to a runner, fetches their personal bests and builds a
// fresh report. Nothing is carried over from earlier searches.
func (s *PersonalBestService) Search(ctx context.Context, name string) (*app.Report, error) {
	user, err := s.client.GetUser(ctx, name)
	if err != nil {
		if errors.Is(err, speedrun.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunnerNotFound, name)
		}
		return nil, fmt.Errorf("failed to look up runner %s: %w", name, err)
	}

	records, err := s.client.GetPersonalBests(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personal bests for %s: %w", user.ID, err)
	}

	data, err := normalize.Normalize(records, user.ID)
	if err != nil {
		return nil, err
	}

	runner := app.Runner{
		RunnerID:   user.ID,
		RunnerName: user.Names.International,
		RunnerURL:  user.Weblink,
	}
	report := BuildReport(runner, data, s.now())

	totalRuns := 0
	for _, runs := range data.RunsByGameID {
		totalRuns += len(runs)
	}
	rows := CountRows(report)
	s.metrics.RecordRunsCollapsed(totalRuns - rows)

	log.Info().
		Str("runner", runner.RunnerName).
		Str("runner_id", runner.RunnerID).
		Int("records", len(records)).
		Int("games", report.GameCount).
		Int("rows", rows).
		Int("runs_collapsed", totalRuns-rows).
		Msg("Built personal-best report")

	return report, nil
}

// History fetches the runner's runs for a game category and keeps those whose
// subcategory combination equals combination, fastest first
func (s *PersonalBestService) History(ctx context.Context, runnerID, gameID, categoryID string, combination app.Combination) ([]app.HistoryRow, error) {
	entries, err := s.client.GetRunHistory(ctx, runnerID, gameID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run history for category %s: %w", categoryID, err)
	}

	rows := history.Match(entries, combination)

	log.Debug().
		Str("category_id", categoryID).
		Str("combination", combination.String()).
		Int("entries", len(entries)).
		Int("matched", len(rows)).
		Msg("Matched run history")

	return rows, nil
}

// ExpandAll fills in the history of every row, fetching with bounded
// concurrency. Rows whose category did not resolve are left unexpanded.
func (s *PersonalBestService) ExpandAll(ctx context.Context, report *app.Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for gi := range report.Games {
		game := &report.Games[gi]
		for ri := range game.Rows {
			row := &game.Rows[ri]
			if row.CategoryID == "" {
				log.Warn().
					Str("game_id", game.Game.GameID).
					Str("run_id", row.RunID).
					Msg("Skipping history for row with unresolved category")
				continue
			}

			g.Go(func() error {
				rows, err := s.History(gctx, report.Runner.RunnerID, game.Game.GameID, row.CategoryID, row.Combination)
				if err != nil {
					return err
				}
				row.History = FormatHistory(rows)
				return nil
			})
		}
	}

	return g.Wait()
}
