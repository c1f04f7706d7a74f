package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// Keys under which the two collections are persisted.
const (
	ItemsKey = "laxmi_inventory_items"
	SalesKey = "laxmi_inventory_sales"
)

// Store is the persistence boundary used by the catalog, sales and reporting
// services. Callers hold the lock for the whole read-modify-write cycle.
//
// Loads never fail: an absent or malformed collection is returned as empty.
// Saves and Clear report backend failures to the caller.
type Store interface {
	sync.Locker
	LoadItems(ctx context.Context) []models.Item
	SaveItems(ctx context.Context, items []models.Item) error
	LoadSales(ctx context.Context) []models.Sale
	SaveSales(ctx context.Context, sales []models.Sale) error
	Clear(ctx context.Context) error
}

// JSONStore implements Store by JSON encoding whole collections into a Backend.
type JSONStore struct {
	sync.Mutex
	backend Backend
	logger  *zap.Logger
}

// NewJSONStore wraps a backend.
func NewJSONStore(backend Backend, logger *zap.Logger) *JSONStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStore{backend: backend, logger: logger}
}

// LoadItems returns the persisted catalog.
func (s *JSONStore) LoadItems(ctx context.Context) []models.Item {
	items := []models.Item{}
	s.load(ctx, ItemsKey, &items)
	if items == nil {
		items = []models.Item{}
	}
	return items
}

// SaveItems replaces the persisted catalog.
func (s *JSONStore) SaveItems(ctx context.Context, items []models.Item) error {
	if items == nil {
		items = []models.Item{}
	}
	return s.save(ctx, ItemsKey, items)
}

// LoadSales returns the persisted ledger.
func (s *JSONStore) LoadSales(ctx context.Context) []models.Sale {
	sales := []models.Sale{}
	s.load(ctx, SalesKey, &sales)
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales
}

// SaveSales replaces the persisted ledger.
func (s *JSONStore) SaveSales(ctx context.Context, sales []models.Sale) error {
	if sales == nil {
		sales = []models.Sale{}
	}
	return s.save(ctx, SalesKey, sales)
}

// Clear removes both collections.
func (s *JSONStore) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{ItemsKey, SalesKey} {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.logger.Error("failed to clear key", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *JSONStore) load(ctx context.Context, key string, dst any) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("store read failed, using empty collection", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("malformed collection, using empty collection", zap.String("key", key), zap.Error(err))
		resetSlice(dst)
	}
}

func (s *JSONStore) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode collection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.logger.Error("failed to persist collection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// resetSlice discards whatever a failed decode left half-filled.
func resetSlice(dst any) {
	switch v := dst.(type) {
	case *[]models.Item:
		*v = []models.Item{}
	case *[]models.Sale:
		*v = []models.Sale{}
	}
}
