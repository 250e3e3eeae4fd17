package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Spare rows and columns added whenever a sheet is resized
const (
	rowBuffer    = 50
	columnBuffer = 2
)

// Client implements SheetsAPI on top of the Google Sheets v4 service
type Client struct {
	service *sheets.Service
}

// NewClient creates a Sheets client authenticated with a service-account credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// UpdateRange writes values starting at the specified range
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", range_, err)
	}
	return nil
}

// ClearRange clears all values in the specified sheet range
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", range_, err)
	}
	return nil
}

// CreateSheet adds a tab with the specified name
func (c *Client) CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	return c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: sheetName},
		},
	})
}

// SheetExists checks if a tab with the given name exists in the spreadsheet
func (c *Client) SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error) {
	sheet, err := c.findSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return false, err
	}
	return sheet != nil, nil
}

// EnsureSheetCapacity grows the tab's grid when it is smaller than required
func (c *Client) EnsureSheetCapacity(ctx context.Context, spreadsheetID, sheetName string, requiredRows, requiredCols int) error {
	sheet, err := c.findSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("sheet %s not found", sheetName)
	}

	grid := sheet.Properties.GridProperties
	if grid == nil {
		grid = &sheets.GridProperties{}
	}
	newRows, newCols := grid.RowCount, grid.ColumnCount
	if int64(requiredRows) > newRows {
		newRows = int64(requiredRows + rowBuffer)
	}
	if int64(requiredCols) > newCols {
		newCols = int64(requiredCols + columnBuffer)
	}
	if newRows == grid.RowCount && newCols == grid.ColumnCount {
		return nil
	}

	log.Debug().
		Str("sheet_name", sheetName).
		Int64("rows", newRows).
		Int64("cols", newCols).
		Msg("Resizing sheet")

	return c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheet.Properties.SheetId,
				GridProperties: &sheets.GridProperties{
					RowCount:    newRows,
					ColumnCount: newCols,
				},
			},
			Fields: "gridProperties.rowCount,gridProperties.columnCount",
		},
	})
}

// findSheet returns the named tab, or nil when it does not exist
func (c *Client) findSheet(ctx context.Context, spreadsheetID, sheetName string) (*sheets.Sheet, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet, nil
		}
	}
	return nil, nil
}

func (c *Client) batchUpdate(ctx context.Context, spreadsheetID string, requests ...*sheets.Request) error {
	_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update spreadsheet: %w", err)
	}
	return nil
}
