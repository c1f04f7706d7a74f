package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
)

const (
	// DailySalesRange is where closed days are appended.
	DailySalesRange = "DailySales!A:F"
	// DailySalesDates is the date column of DailySalesRange.
	DailySalesDates = "DailySales!A:A"
)

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
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
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// DailyReportWriter appends closed days to a spreadsheet.
type DailyReportWriter struct {
	repo Repository
}

// NewDailyReportWriter wraps a sheets repository.
func NewDailyReportWriter(repo Repository) *DailyReportWriter {
	return &DailyReportWriter{repo: repo}
}

// SaveDailyReport appends one row per closed day: date, revenue, items sold,
// transactions, inventory value and the comma-separated low stock names.
// A date already present in the sheet is left alone, so closing the same day
// twice keeps a single row.
func (w *DailyReportWriter) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	rows, err := w.repo.ReadRange(ctx, DailySalesDates)
	if err != nil {
		return fmt.Errorf("read closed days: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == report.Date {
			return nil
		}
	}
	return w.repo.WriteRow(ctx, DailySalesRange, ReportRow(report))
}

// ReportRow renders a report as a sheet row.
func ReportRow(report models.DailyReport) []interface{} {
	return []interface{}{
		report.Date,
		report.Revenue,
		report.ItemsSold,
		report.TransactionCount,
		report.InventoryValue,
		strings.Join(report.LowStockItems, ", "),
	}
}
