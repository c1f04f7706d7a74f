package reporting

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// Aggregate groups sales by their recorded date, keeps the days inside the
// query window relative to today and orders them as requested. It has no side
// effects and returns the same result for the same inputs.
//
// A bounded window of N days keeps every date on or after today minus N
// calendar days. Dates that do not parse are only kept by the unbounded window.
func Aggregate(sales []models.Sale, q Query, today time.Time) []models.DailySales {
	type bucket struct {
		day     models.DailySales
		revenue decimal.Decimal
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, sale := range sales {
		b, ok := buckets[sale.Date]
		if !ok {
			b = &bucket{day: models.DailySales{Date: sale.Date}}
			buckets[sale.Date] = b
			order = append(order, sale.Date)
		}
		b.revenue = b.revenue.Add(decimal.NewFromFloat(sale.Total))
		b.day.ItemsSold += sale.Quantity
		b.day.TransactionCount++
		b.day.Sales = append(b.day.Sales, sale)
	}

	cutoff := ""
	if q.Window != WindowAll {
		cutoff = time.Date(today.Year(), today.Month(), today.Day()-int(q.Window), 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
	}

	days := make([]models.DailySales, 0, len(order))
	for _, date := range order {
		if cutoff != "" {
			if _, err := time.Parse(models.DateLayout, date); err != nil || date < cutoff {
				continue
			}
		}
		b := buckets[date]
		b.day.TotalRevenue = b.revenue.InexactFloat64()
		days = append(days, b.day)
	}

	slices.SortStableFunc(days, func(a, b models.DailySales) int {
		var c int
		if q.SortBy == SortByRevenue {
			c = cmp.Compare(a.TotalRevenue, b.TotalRevenue)
		} else {
			c = strings.Compare(a.Date, b.Date)
		}
		if q.Order == OrderDesc {
			return -c
		}
		return c
	})

	return days
}

// Summarize totals a list of daily rollups.
func Summarize(days []models.DailySales) models.ReportSummary {
	revenue := decimal.Zero
	summary := models.ReportSummary{Days: len(days)}
	for _, day := range days {
		revenue = revenue.Add(decimal.NewFromFloat(day.TotalRevenue))
		summary.TotalItemsSold += day.ItemsSold
		summary.TotalTransactions += day.TransactionCount
	}
	summary.TotalRevenue = revenue.InexactFloat64()
	if len(days) > 0 {
		summary.AverageDailyRevenue = revenue.Div(decimal.NewFromInt(int64(len(days)))).Round(2).InexactFloat64()
	}
	return summary
}
