package kv

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

type failingBackend struct {
	*MemoryBackend
	setErr error
}

func (f failingBackend) Set(context.Context, string, []byte) error { return f.setErr }

func sampleItems() []models.Item {
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	return []models.Item{
		{ID: "item-1", Name: "Notebook", Category: models.CategoryStationary, Price: 45.5, Stock: 10, InitialStock: 12, CreatedAt: created},
		{ID: "item-2", Name: "USB cable", Category: models.CategoryElectronics, Price: 120, Stock: 0, CreatedAt: created},
	}
}

func sampleSales() []models.Sale {
	return []models.Sale{
		{ID: "sale-1", ItemID: "item-1", ItemName: "Notebook", Quantity: 2, Price: 45.5, Total: 91, Date: "2026-10-02", Time: "10:15:00"},
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(NewMemoryBackend(), zap.NewNop())

	items, sales := sampleItems(), sampleSales()
	if err := store.SaveItems(ctx, items); err != nil {
		t.Fatalf("SaveItems() error = %v", err)
	}
	if err := store.SaveSales(ctx, sales); err != nil {
		t.Fatalf("SaveSales() error = %v", err)
	}

	if got := store.LoadItems(ctx); !reflect.DeepEqual(got, items) {
		t.Fatalf("LoadItems() = %+v, want %+v", got, items)
	}
	if got := store.LoadSales(ctx); !reflect.DeepEqual(got, sales) {
		t.Fatalf("LoadSales() = %+v, want %+v", got, sales)
	}
}

func TestJSONStoreMissingKeysAreEmpty(t *testing.T) {
	store := NewJSONStore(NewMemoryBackend(), nil)
	ctx := context.Background()

	if got := store.LoadItems(ctx); got == nil || len(got) != 0 {
		t.Fatalf("LoadItems() = %#v, want empty non-nil slice", got)
	}
	if got := store.LoadSales(ctx); got == nil || len(got) != 0 {
		t.Fatalf("LoadSales() = %#v, want empty non-nil slice", got)
	}
}

func TestJSONStoreMalformedDataIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	core, logs := observer.New(zap.WarnLevel)
	store := NewJSONStore(backend, zap.New(core))

	cases := map[string][]byte{
		ItemsKey: []byte(`[{"id":"item-1","name":`),
		SalesKey: []byte(`{"not":"an array"}`),
	}
	for key, raw := range cases {
		if err := backend.Set(ctx, key, raw); err != nil {
			t.Fatal(err)
		}
	}

	if got := store.LoadItems(ctx); len(got) != 0 {
		t.Fatalf("LoadItems() = %+v, want empty", got)
	}
	if got := store.LoadSales(ctx); len(got) != 0 {
		t.Fatalf("LoadSales() = %+v, want empty", got)
	}
	if logs.FilterMessage("malformed collection, using empty collection").Len() != 2 {
		t.Fatalf("expected two malformed warnings, got %v", logs.All())
	}
}

func TestJSONStoreNullIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Set(ctx, ItemsKey, []byte("null"))
	store := NewJSONStore(backend, nil)

	if got := store.LoadItems(ctx); got == nil || len(got) != 0 {
		t.Fatalf("LoadItems() = %#v, want empty non-nil slice", got)
	}
}

func TestJSONStoreSaveSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("disk full")
	store := NewJSONStore(failingBackend{MemoryBackend: NewMemoryBackend(), setErr: boom}, nil)

	err := store.SaveItems(context.Background(), sampleItems())
	if !errors.Is(err, boom) {
		t.Fatalf("SaveItems() error = %v, want %v", err, boom)
	}
}

func TestJSONStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(NewMemoryBackend(), nil)
	_ = store.SaveItems(ctx, sampleItems())
	_ = store.SaveSales(ctx, sampleSales())

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(store.LoadItems(ctx)) != 0 || len(store.LoadSales(ctx)) != 0 {
		t.Fatal("collections should be empty after Clear")
	}
}

func TestJSONStorePersistsOriginalFieldNames(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewJSONStore(backend, nil)
	_ = store.SaveSales(ctx, sampleSales())

	raw, ok, _ := backend.Get(ctx, SalesKey)
	if !ok {
		t.Fatal("sales key missing")
	}
	want := `[{"id":"sale-1","itemId":"item-1","itemName":"Notebook","quantity":2,"price":45.5,"total":91,"date":"2026-10-02","time":"10:15:00"}]`
	if string(raw) != want {
		t.Fatalf("persisted sales = %s\nwant %s", raw, want)
	}
}
