package reporting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/repository/kv"
)

const recentSalesLimit = 10

// Service derives reports from the persisted catalog and ledger.
type Service struct {
	store             kv.Store
	location          *time.Location
	lowStockThreshold int
	logger            *zap.Logger
	now               func() time.Time
}

// NewService wires a new reporting service instance. Dates are evaluated in
// location; nil means UTC.
func NewService(store kv.Store, location *time.Location, lowStockThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		store:             store,
		location:          location,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *Service) today() time.Time {
	return s.now().In(s.location)
}

func (s *Service) snapshot(ctx context.Context) ([]models.Item, []models.Sale) {
	s.store.Lock()
	defer s.store.Unlock()
	return s.store.LoadItems(ctx), s.store.LoadSales(ctx)
}

// DailyReport aggregates the whole ledger for the query.
func (s *Service) DailyReport(ctx context.Context, q Query) models.SalesReport {
	_, ledger := s.snapshot(ctx)
	days := Aggregate(ledger, q, s.today())

	s.logger.Debug("daily report computed",
		zap.String("range", q.Window.String()),
		zap.Int("sales", len(ledger)),
		zap.Int("days", len(days)))

	return models.SalesReport{
		Range:   q.Window.String(),
		SortBy:  string(q.SortBy),
		Order:   string(q.Order),
		Days:    days,
		Summary: Summarize(days),
	}
}

// Dashboard summarizes stock levels and today's trading.
func (s *Service) Dashboard(ctx context.Context) models.Dashboard {
	items, ledger := s.snapshot(ctx)
	today := s.today().Format(models.DateLayout)

	board := models.Dashboard{
		TotalItems:      len(items),
		LowStockItems:   []models.Item{},
		OutOfStockItems: []models.Item{},
		RecentSales:     []models.Sale{},
	}

	value := decimal.Zero
	for _, item := range items {
		board.TotalUnits += item.Stock
		value = value.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Stock))))
		switch {
		case item.Stock == 0:
			board.OutOfStockItems = append(board.OutOfStockItems, item)
		case item.Stock <= s.lowStockThreshold:
			board.LowStockItems = append(board.LowStockItems, item)
		}
	}
	board.InventoryValue = value.InexactFloat64()

	revenue := decimal.Zero
	for _, sale := range ledger {
		if sale.Date != today {
			continue
		}
		revenue = revenue.Add(decimal.NewFromFloat(sale.Total))
		board.TodayItemsSold += sale.Quantity
		board.TodayTransactions++
	}
	board.TodayRevenue = revenue.InexactFloat64()

	// The ledger is append-only, so the newest sales are at the end.
	for i := len(ledger) - 1; i >= 0 && len(board.RecentSales) < recentSalesLimit; i-- {
		board.RecentSales = append(board.RecentSales, ledger[i])
	}

	return board
}

// CloseDay snapshots the trading of date (YYYY-MM-DD); empty means today.
func (s *Service) CloseDay(ctx context.Context, date string) (models.DailyReport, error) {
	if date == "" {
		date = s.today().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.DailyReport{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	items, ledger := s.snapshot(ctx)

	var dayLedger []models.Sale
	for _, sale := range ledger {
		if sale.Date == date {
			dayLedger = append(dayLedger, sale)
		}
	}

	report := models.DailyReport{
		Date:          date,
		LowStockItems: []string{},
		CreatedAt:     s.now().UTC(),
	}
	if days := Aggregate(dayLedger, Query{Window: WindowAll, SortBy: SortByDate, Order: OrderAsc}, s.today()); len(days) == 1 {
		report.Revenue = days[0].TotalRevenue
		report.ItemsSold = days[0].ItemsSold
		report.TransactionCount = days[0].TransactionCount
	}

	value := decimal.Zero
	for _, item := range items {
		value = value.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Stock))))
		if item.Stock <= s.lowStockThreshold {
			report.LowStockItems = append(report.LowStockItems, item.Name)
		}
	}
	slices.Sort(report.LowStockItems)
	report.InventoryValue = value.InexactFloat64()

	return report, nil
}

// FormatDailyReport renders a closed day as a chat message.
func FormatDailyReport(shop string, report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - daily close %s\n", shop, report.Date)
	if report.TransactionCount == 0 {
		b.WriteString("No sales recorded.\n")
	} else {
		fmt.Fprintf(&b, "Revenue %.2f from %d sales, %d units sold.\n", report.Revenue, report.TransactionCount, report.ItemsSold)
	}
	fmt.Fprintf(&b, "Stock value %.2f.", report.InventoryValue)
	if len(report.LowStockItems) > 0 {
		fmt.Fprintf(&b, "\nLow stock: %s.", strings.Join(report.LowStockItems, ", "))
	}
	return b.String()
}

// FormatSalesReport renders a report summary as a chat message.
func FormatSalesReport(report models.SalesReport) string {
	var b strings.Builder
	if report.Range == WindowAll.String() {
		b.WriteString("Sales, all time\n")
	} else {
		fmt.Fprintf(&b, "Sales, last %s days\n", report.Range)
	}
	if len(report.Days) == 0 {
		b.WriteString("No sales recorded.")
		return b.String()
	}
	for _, day := range report.Days {
		fmt.Fprintf(&b, "%s: %.2f (%d sales, %d units)\n", day.Date, day.TotalRevenue, day.TransactionCount, day.ItemsSold)
	}
	fmt.Fprintf(&b, "Total %.2f, average %.2f per day.", report.Summary.TotalRevenue, report.Summary.AverageDailyRevenue)
	return b.String()
}
