package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// Repository mirrors the inventory into an external spreadsheet.
type Repository interface {
	ExportItems(ctx context.Context, items []models.Item) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    cfg.Range,
		logger:        logger,
	}, nil
}

// ExportItems clears the configured range and rewrites it with a header row
// followed by one row per item.
func (r *GoogleSheetRepository) ExportItems(ctx context.Context, items []models.Item) error {
	if r.sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, r.sheetRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", r.sheetRange, err)
	}

	payload := &sheetsapi.ValueRange{Values: ItemRows(items)}
	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, r.sheetRange, payload).
		ValueInputOption("RAW").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("write range %s: %w", r.sheetRange, err)
	}

	r.logger.Debug("inventory exported to sheet", zap.String("range", r.sheetRange), zap.Int("items", len(items)))
	return nil
}

// ItemRows lays out items in the same column order as the inventory file.
func ItemRows(items []models.Item) [][]interface{} {
	rows := make([][]interface{}, 0, len(items)+1)
	rows = append(rows, []interface{}{"ID", "Name", "Category", "Unit Price", "Quantity"})
	for _, item := range items {
		rows = append(rows, []interface{}{item.ID, item.Name, string(item.Category), item.UnitPrice, item.Quantity})
	}
	return rows
}
