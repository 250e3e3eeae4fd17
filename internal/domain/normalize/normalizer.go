package normalize

import (
	"errors"
	"fmt"
	"sort"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/collation"
	"speedrun_pbs/internal/domain/subcategory"
)

// ErrMalformedRecord is returned when a personal-best record lacks a nested
// field the normalized model needs
var ErrMalformedRecord = errors.New("malformed personal-best record")

// RecordError identifies the record and field that failed validation
type RecordError struct {
	Index int
	Field string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record %d is missing %s", ErrMalformedRecord, e.Index, e.Field)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

// IsIndividualLevel reports whether a run was recorded against a single level
func IsIndividualLevel(run app.BaseRun) bool {
	return run.Level != ""
}

// Normalize turns a batch of personal-best records into the relational model.
// Individual-level runs are skipped before validation. Any remaining record
// missing its game, category, category variables or run id fails the whole
// batch with a *RecordError.
// Pure function: No I/O, builds a fresh RunData on every call
func Normalize(records []app.PersonalBest, runnerID string) (*app.RunData, error) {
	data := &app.RunData{
		Games:             []app.Game{},
		GameLookup:        make(map[string]app.Game),
		CategoryLookup:    make(map[string]app.Category),
		SubcategoryLookup: make(map[string]app.Subcategory),
		RunsByGameID:      make(map[string][]app.Run),
	}
	var gameOrder []string

	for i, record := range records {
		if IsIndividualLevel(record.Run.BaseRun) {
			continue
		}
		if err := validate(i, record); err != nil {
			return nil, err
		}

		gameData := record.Game.Data
		if _, seen := data.GameLookup[gameData.ID]; !seen {
			gameOrder = append(gameOrder, gameData.ID)
		}
		data.GameLookup[gameData.ID] = app.Game{
			GameID:   gameData.ID,
			GameName: gameData.Names.International,
			GameURL:  gameData.Weblink,
		}

		categoryData := record.Category.Data
		subcategories := subcategory.Extract(categoryData.Variables.Data)
		for id, sub := range subcategories {
			data.SubcategoryLookup[id] = sub
		}

		data.CategoryLookup[categoryData.ID] = app.Category{
			CategoryID:   categoryData.ID,
			CategoryName: categoryData.Name,
			GameID:       gameData.ID,
		}

		run := app.Run{
			RunID:      record.Run.ID,
			GameID:     gameData.ID,
			CategoryID: categoryData.ID,
			UserID:     runnerID,
			RunURL:     record.Run.Weblink,
			Place:      record.Place,
			Times: app.Times{
				PrimaryTime:     record.Run.Times.PrimaryT,
				RealTime:        record.Run.Times.RealtimeT,
				RealTimeNoLoads: record.Run.Times.RealtimeNoloadsT,
				InGameTime:      record.Run.Times.IngameT,
			},
			Subcategories: subcategory.Assignments(subcategories, record.Run.Values),
		}
		data.RunsByGameID[gameData.ID] = append(data.RunsByGameID[gameData.ID], run)
	}

	for _, id := range gameOrder {
		data.Games = append(data.Games, data.GameLookup[id])
	}
	SortGames(data.Games)

	return data, nil
}

// SortGames orders games by name, case-insensitively. Equal names keep
// their first-seen order.
func SortGames(games []app.Game) {
	compare := collation.NewComparer()
	sort.SliceStable(games, func(i, j int) bool {
		return compare(games[i].GameName, games[j].GameName) < 0
	})
}

// validate checks the nested fields the normalizer dereferences
func validate(index int, record app.PersonalBest) error {
	switch {
	case record.Run.ID == "":
		return &RecordError{Index: index, Field: "run.id"}
	case record.Game == nil || record.Game.Data == nil || record.Game.Data.ID == "":
		return &RecordError{Index: index, Field: "game.data"}
	case record.Category == nil || record.Category.Data == nil || record.Category.Data.ID == "":
		return &RecordError{Index: index, Field: "category.data"}
	case record.Category.Data.Variables == nil:
		return &RecordError{Index: index, Field: "category.data.variables"}
	}
	return nil
}
