package sheets

import (
	"context"
	"fmt"

	"speedrun_pbs/internal/app"

	"github.com/rs/zerolog/log"
)

// PersonalBestSheetManager exports a personal-best report to two tabs: one
// summary row per best run, and the expanded history rows when present
type PersonalBestSheetManager struct {
	api SheetsAPI
}

// NewPersonalBestSheetManager creates a manager over the given API client
func NewPersonalBestSheetManager(api SheetsAPI) *PersonalBestSheetManager {
	return &PersonalBestSheetManager{api: api}
}

// SummarySheetName is the summary tab for a runner
func SummarySheetName(runnerName string) string {
	return fmt.Sprintf("PBs - %s", runnerName)
}

// HistorySheetName is the history tab for a runner
func HistorySheetName(runnerName string) string {
	return fmt.Sprintf("History - %s", runnerName)
}

// WriteReport replaces the runner's tabs with the report's contents.
// The history tab is only written when at least one row was expanded.
func (m *PersonalBestSheetManager) WriteReport(ctx context.Context, spreadsheetID string, report *app.Report) error {
	summary := BuildSummaryRows(report)
	if err := m.replaceSheet(ctx, spreadsheetID, SummarySheetName(report.Runner.RunnerName), summary); err != nil {
		return err
	}

	history := BuildHistoryRows(report)
	if len(history) > 1 {
		if err := m.replaceSheet(ctx, spreadsheetID, HistorySheetName(report.Runner.RunnerName), history); err != nil {
			return err
		}
	}

	log.Info().
		Str("spreadsheet_id", spreadsheetID).
		Str("runner", report.Runner.RunnerName).
		Int("summary_rows", len(summary)-1).
		Int("history_rows", len(history)-1).
		Msg("Exported report to Google Sheets")

	return nil
}

// replaceSheet creates the tab if needed, clears it and writes values from A1
func (m *PersonalBestSheetManager) replaceSheet(ctx context.Context, spreadsheetID, sheetName string, values [][]interface{}) error {
	exists, err := m.api.SheetExists(ctx, spreadsheetID, sheetName)
	if err != nil {
		return fmt.Errorf("failed to check if sheet %s exists: %w", sheetName, err)
	}
	if !exists {
		log.Info().Str("sheet_name", sheetName).Msg("Creating sheet")
		if err := m.api.CreateSheet(ctx, spreadsheetID, sheetName); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}
	}

	if err := m.api.ClearRange(ctx, spreadsheetID, fmt.Sprintf("'%s'", sheetName)); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheetName, err)
	}

	cols := 0
	if len(values) > 0 {
		cols = len(values[0])
	}
	if err := m.api.EnsureSheetCapacity(ctx, spreadsheetID, sheetName, len(values), cols); err != nil {
		return fmt.Errorf("failed to size sheet %s: %w", sheetName, err)
	}

	if err := m.api.UpdateRange(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), values); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheetName, err)
	}
	return nil
}

// SummaryHeaders are the columns of the summary tab
func SummaryHeaders() []interface{} {
	return []interface{}{"Game", "Category", "Time", "Place", "Seconds", "Run", "Category ID", "Value IDs"}
}

// HistoryHeaders are the columns of the history tab
func HistoryHeaders() []interface{} {
	return []interface{}{"Game", "Category", "Time", "Status", "Reason", "Date", "Seconds", "Run"}
}

// BuildSummaryRows flattens the report into the summary tab, header first
// Pure function: No I/O
func BuildSummaryRows(report *app.Report) [][]interface{} {
	rows := [][]interface{}{SummaryHeaders()}
	for _, game := range report.Games {
		for _, row := range game.Rows {
			rows = append(rows, []interface{}{
				game.Game.GameName,
				row.DisplayLabel,
				row.FormattedTime,
				row.Place,
				row.Time,
				row.RunURL,
				row.CategoryID,
				row.SubcategoryValueIDs,
			})
		}
	}
	return rows
}

// BuildHistoryRows flattens every expanded history into the history tab, header first
// Pure function: No I/O
func BuildHistoryRows(report *app.Report) [][]interface{} {
	rows := [][]interface{}{HistoryHeaders()}
	for _, game := range report.Games {
		for _, row := range game.Rows {
			for _, entry := range row.History {
				rows = append(rows, []interface{}{
					game.Game.GameName,
					row.DisplayLabel,
					entry.FormattedTime,
					entry.FormattedStatus,
					entry.Reason,
					entry.Date,
					entry.Time,
					entry.RunURL,
				})
			}
		}
	}
	return rows
}
