package reporting

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	summarySheet = "Daily"
	salesSheet   = "Sales"
)

// ExportXLSX writes the daily report for q as a workbook with one sheet of
// daily rollups and one sheet listing the underlying sales.
func (s *Service) ExportXLSX(ctx context.Context, q Query, w io.Writer) error {
	report := s.DailyReport(ctx, q)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(salesSheet); err != nil {
		return fmt.Errorf("create sales sheet: %w", err)
	}

	rows := [][]interface{}{{"Date", "Revenue", "Items sold", "Transactions"}}
	for _, day := range report.Days {
		rows = append(rows, []interface{}{day.Date, day.TotalRevenue, day.ItemsSold, day.TransactionCount})
	}
	rows = append(rows, []interface{}{"Total", report.Summary.TotalRevenue, report.Summary.TotalItemsSold, report.Summary.TotalTransactions})
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Date", "Time", "Item", "Quantity", "Price", "Total"}}
	for _, day := range report.Days {
		for _, sale := range day.Sales {
			rows = append(rows, []interface{}{sale.Date, sale.Time, sale.ItemName, sale.Quantity, sale.Price, sale.Total})
		}
	}
	if err := writeRows(f, salesSheet, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
