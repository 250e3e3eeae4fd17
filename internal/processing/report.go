package processing

import (
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/bestrun"
	"speedrun_pbs/internal/domain/timefmt"
)

// BuildReport reduces every game of the normalized model to its summary rows
// and renders their times. Games keep the model's sorted order.
// Pure function: No I/O, generatedAt is supplied by the caller
func BuildReport(runner app.Runner, data *app.RunData, generatedAt time.Time) *app.Report {
	report := &app.Report{
		Runner:      runner,
		GeneratedAt: generatedAt,
		GameCount:   len(data.Games),
		Games:       make([]app.GameReport, 0, len(data.Games)),
	}

	for _, game := range data.Games {
		rows := bestrun.Reduce(data.RunsByGameID[game.GameID], data.CategoryLookup, data.SubcategoryLookup)

		gameReport := app.GameReport{
			Game:          game,
			CategoriesRun: len(rows),
			Rows:          make([]app.RowReport, 0, len(rows)),
		}
		for _, row := range rows {
			gameReport.Rows = append(gameReport.Rows, app.RowReport{
				RunRow:        row,
				DisplayLabel:  row.Label(),
				FormattedTime: timefmt.FormatSeconds(row.Time),
			})
		}
		report.Games = append(report.Games, gameReport)
	}

	return report
}

// FormatHistory renders the time and status of matched history rows
// Pure function: No I/O
func FormatHistory(rows []app.HistoryRow) []app.HistoryReport {
	formatted := make([]app.HistoryReport, 0, len(rows))
	for _, row := range rows {
		formatted = append(formatted, app.HistoryReport{
			HistoryRow:      row,
			FormattedTime:   timefmt.FormatSeconds(row.Time),
			FormattedStatus: timefmt.CapitalizeFirst(row.Status),
		})
	}
	return formatted
}

// CountRows returns the number of summary rows across all games
func CountRows(report *app.Report) int {
	total := 0
	for _, game := range report.Games {
		total += len(game.Rows)
	}
	return total
}
