package catalog

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/repository/kv"
)

// Service maintains the item catalog.
type Service struct {
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a catalog service over the shop store.
func NewService(store kv.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// List returns the items matching filter in stored order.
func (s *Service) List(ctx context.Context, filter models.ItemFilter) []models.Item {
	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	matched := make([]models.Item, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Sellable returns the items with stock on hand, sorted by name.
func (s *Service) Sellable(ctx context.Context) []models.Item {
	s.store.Lock()
	defer s.store.Unlock()

	sellable := []models.Item{}
	for _, item := range s.store.LoadItems(ctx) {
		if item.Stock > 0 {
			sellable = append(sellable, item)
		}
	}
	slices.SortStableFunc(sellable, func(a, b models.Item) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return sellable
}

// Get returns the item with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Item, error) {
	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return models.Item{}, models.ErrItemNotFound
	}
	return items[idx], nil
}

// FindByName returns the first item whose name matches exactly, ignoring
// case, or failing that the only item whose name contains the query.
func (s *Service) FindByName(ctx context.Context, name string) (models.Item, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return models.Item{}, models.ErrItemNotFound
	}

	s.store.Lock()
	defer s.store.Unlock()

	var partial []models.Item
	for _, item := range s.store.LoadItems(ctx) {
		lowered := strings.ToLower(item.Name)
		if lowered == query {
			return item, nil
		}
		if strings.Contains(lowered, query) {
			partial = append(partial, item)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}
	return models.Item{}, models.ErrItemNotFound
}

// Create validates input and appends a new item.
func (s *Service) Create(ctx context.Context, input models.ItemInput) (models.Item, error) {
	name, category, err := validate(input)
	if err != nil {
		return models.Item{}, err
	}

	s.store.Lock()
	defer s.store.Unlock()

	item := models.Item{
		ID:           "item-" + uuid.NewString(),
		Name:         name,
		Category:     category,
		Price:        input.Price,
		Stock:        input.Stock,
		InitialStock: input.Stock,
		CreatedAt:    s.now().UTC(),
	}

	items := append(s.store.LoadItems(ctx), item)
	if err := s.store.SaveItems(ctx, items); err != nil {
		return models.Item{}, err
	}

	s.logger.Info("item created", zap.String("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// Update replaces the editable fields of an existing item.
func (s *Service) Update(ctx context.Context, id string, input models.ItemInput) (models.Item, error) {
	name, category, err := validate(input)
	if err != nil {
		return models.Item{}, err
	}

	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return models.Item{}, models.ErrItemNotFound
	}

	items[idx].Name = name
	items[idx].Category = category
	items[idx].Price = input.Price
	items[idx].Stock = input.Stock

	if err := s.store.SaveItems(ctx, items); err != nil {
		return models.Item{}, err
	}

	s.logger.Info("item updated", zap.String("item_id", id))
	return items[idx], nil
}

// Delete removes an item. Sales referencing it are left untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return models.ErrItemNotFound
	}

	if err := s.store.SaveItems(ctx, slices.Delete(items, idx, idx+1)); err != nil {
		return err
	}

	s.logger.Info("item deleted", zap.String("item_id", id))
	return nil
}

// AdjustStock overwrites the stock on hand of an item.
func (s *Service) AdjustStock(ctx context.Context, id string, stock int) (models.Item, error) {
	if stock < 0 {
		return models.Item{}, models.ErrInvalidStock
	}

	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return models.Item{}, models.ErrItemNotFound
	}

	previous := items[idx].Stock
	items[idx].Stock = stock
	if err := s.store.SaveItems(ctx, items); err != nil {
		return models.Item{}, err
	}

	s.logger.Info("stock adjusted",
		zap.String("item_id", id),
		zap.Int("previous", previous),
		zap.Int("stock", stock))
	return items[idx], nil
}

// Restock adds quantity units to an item's stock.
func (s *Service) Restock(ctx context.Context, id string, quantity int) (models.Item, error) {
	if quantity <= 0 {
		return models.Item{}, models.ErrInvalidQuantity
	}

	s.store.Lock()
	defer s.store.Unlock()

	items := s.store.LoadItems(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return models.Item{}, models.ErrItemNotFound
	}

	if quantity > math.MaxInt-items[idx].Stock {
		return models.Item{}, models.ErrInvalidQuantity
	}

	items[idx].Stock += quantity
	if err := s.store.SaveItems(ctx, items); err != nil {
		return models.Item{}, err
	}

	s.logger.Info("item restocked", zap.String("item_id", id), zap.Int("added", quantity), zap.Int("stock", items[idx].Stock))
	return items[idx], nil
}

func validate(input models.ItemInput) (string, models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", models.ErrInvalidName
	}

	category, ok := models.ParseCategory(input.Category)
	if !ok {
		return "", "", models.ErrInvalidCategory
	}

	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price <= 0 {
		return "", "", models.ErrInvalidPrice
	}

	if input.Stock < 0 {
		return "", "", models.ErrInvalidStock
	}

	return name, category, nil
}

func indexOf(items []models.Item, id string) int {
	return slices.IndexFunc(items, func(item models.Item) bool { return item.ID == id })
}
