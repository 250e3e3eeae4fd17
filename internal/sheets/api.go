package sheets

import (
	"context"
)

// SheetsAPI defines the Google Sheets operations the report export needs.
// It keeps the [][]interface{} values of the Sheets API at this boundary.
type SheetsAPI interface {
	// UpdateRange updates values in a sheet range
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error

	// ClearRange clears all values in a sheet range
	ClearRange(ctx context.Context, spreadsheetID, range_ string) error

	// CreateSheet creates a new sheet in the spreadsheet
	CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error

	// SheetExists checks if a sheet with the given name exists
	SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error)

	// EnsureSheetCapacity ensures a sheet has at least the required number of rows and columns
	EnsureSheetCapacity(ctx context.Context, spreadsheetID, sheetName string, requiredRows, requiredCols int) error
}
