package sales

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/repository/kv"
)

// Service records sales against the catalog and reads the ledger back.
type Service struct {
	store    kv.Store
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs a sales service. Sale dates and times are recorded in
// location; nil means UTC.
func NewService(store kv.Store, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{store: store, location: location, logger: logger, now: time.Now}
}

// Record sells quantity units of the item. quantity is parsed as a positive
// integer; it must not exceed the item's stock. On success the decremented
// catalog and the extended ledger are written together under the store lock.
func (s *Service) Record(ctx context.Context, itemID string, quantity string) (models.Sale, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty <= 0 {
		return models.Sale{}, models.ErrInvalidQuantity
	}

	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Sale{}, models.ErrItemNotFound
	}

	item := items[idx]
	if qty > item.Stock {
		s.logger.Debug("sale rejected", zap.String("item_id", itemID), zap.Int("quantity", qty), zap.Int("stock", item.Stock))
		return models.Sale{}, fmt.Errorf("%w: only %d units of %s available", models.ErrInsufficientStock, item.Stock, item.Name)
	}

	now := s.now().In(s.location)
	sale := models.Sale{
		ID:       "sale-" + uuid.NewString(),
		ItemID:   item.ID,
		ItemName: item.Name,
		Quantity: qty,
		Price:    item.Price,
		Total:    decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(qty))).InexactFloat64(),
		Date:     now.Format(models.DateLayout),
		Time:     now.Format(models.TimeLayout),
	}

	ledger := s.store.LoadSales(ctx)
	items[idx].Stock -= qty

	if err := s.store.SaveItems(ctx, items); err != nil {
		return models.Sale{}, fmt.Errorf("save stock: %w", err)
	}
	if err := s.store.SaveSales(ctx, append(ledger, sale)); err != nil {
		// Put the stock back so a lost ledger write does not leave units missing.
		items[idx].Stock = item.Stock
		if rollbackErr := s.store.SaveItems(ctx, items); rollbackErr != nil {
			s.logger.Error("failed to restore stock after ledger write failure", zap.String("item_id", item.ID), zap.Error(rollbackErr))
		}
		return models.Sale{}, fmt.Errorf("save sale: %w", err)
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("item_id", item.ID),
		zap.Int("quantity", qty),
		zap.Float64("total", sale.Total))
	return sale, nil
}

// ListByDate returns the sales recorded on date (YYYY-MM-DD) and their total.
// An empty date means today.
func (s *Service) ListByDate(ctx context.Context, date string) (models.DaySales, error) {
	if date == "" {
		date = s.Today()
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.DaySales{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	s.store.Lock()
	ledger := s.store.LoadSales(ctx)
	s.store.Unlock()

	day := models.DaySales{Date: date, Sales: []models.Sale{}}
	total := decimal.Zero
	for _, sale := range ledger {
		if sale.Date != date {
			continue
		}
		day.Sales = append(day.Sales, sale)
		total = total.Add(decimal.NewFromFloat(sale.Total))
	}
	day.Total = total.InexactFloat64()
	return day, nil
}

// Today returns the current calendar date in the shop's timezone.
func (s *Service) Today() string {
	return s.now().In(s.location).Format(models.DateLayout)
}

// Reset discards the whole catalog and ledger.
func (s *Service) Reset(ctx context.Context) error {
	s.store.Lock()
	defer s.store.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Warn("all items and sales cleared")
	return nil
}
