package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/cropbook/internal/config"
	"github.com/mamadbah2/cropbook/internal/domain/models"
)

const (
	snapshotRange = "Reports!A:J"
	dateLayout    = "2006-01-02 15:04"
)

// Exporter delivers report snapshots to an external spreadsheet for people
// who live in Sheets rather than dashboards.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
}

// GoogleSheetExporter implements the Exporter interface using the official
// Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one summary row per report run.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	values := []interface{}{
		snapshot.GeneratedAt.Format(dateLayout),
		snapshot.OperationID,
		snapshot.TotalUnits,
		snapshot.ActiveUnits,
		snapshot.TotalExpenses,
		snapshot.TotalRevenue,
		snapshot.ProjectedRevenue,
		snapshot.NetProfit,
		snapshot.AverageROI,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row into range %s: %w", snapshotRange, err)
	}

	e.logger.Debug("snapshot row appended to sheet", zap.String("operation_id", snapshot.OperationID))
	return nil
}
