package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/repository/kv"
)

func newTestService(t *testing.T) (*Service, kv.Store) {
	t.Helper()
	store := kv.NewJSONStore(kv.NewMemoryBackend(), nil)
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return svc, store
}

func mustCreate(t *testing.T, svc *Service, name string, price float64, stock int) models.Item {
	t.Helper()
	item, err := svc.Create(context.Background(), models.ItemInput{Name: name, Category: "stationary", Price: price, Stock: stock})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return item
}

func TestCreate(t *testing.T) {
	svc, store := newTestService(t)

	item, err := svc.Create(context.Background(), models.ItemInput{Name: "  Gel pen ", Category: "Stationary", Price: 10, Stock: 5})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !strings.HasPrefix(item.ID, "item-") {
		t.Errorf("ID = %q, want item- prefix", item.ID)
	}
	if item.Name != "Gel pen" || item.Category != models.CategoryStationary {
		t.Errorf("item = %+v", item)
	}
	if item.InitialStock != 5 || !item.CreatedAt.Equal(svc.now()) {
		t.Errorf("initial stock / created at not set: %+v", item)
	}
	if got := store.LoadItems(context.Background()); len(got) != 1 || got[0].ID != item.ID {
		t.Fatalf("stored items = %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		input models.ItemInput
		want  error
	}{
		{"empty name", models.ItemInput{Name: "  ", Category: "other", Price: 1, Stock: 1}, models.ErrInvalidName},
		{"unknown category", models.ItemInput{Name: "x", Category: "food", Price: 1, Stock: 1}, models.ErrInvalidCategory},
		{"zero price", models.ItemInput{Name: "x", Category: "other", Price: 0, Stock: 1}, models.ErrInvalidPrice},
		{"negative price", models.ItemInput{Name: "x", Category: "other", Price: -3, Stock: 1}, models.ErrInvalidPrice},
		{"negative stock", models.ItemInput{Name: "x", Category: "other", Price: 1, Stock: -1}, models.ErrInvalidStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService(t)
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("Create() error = %v, want %v", err, tc.want)
			}
			if len(store.LoadItems(context.Background())) != 0 {
				t.Fatal("rejected create must not write")
			}
		})
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	original := mustCreate(t, svc, "Stapler", 80, 3)

	updated, err := svc.Update(context.Background(), original.ID, models.ItemInput{Name: "Heavy stapler", Category: "accessories", Price: 95, Stock: 7})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != original.ID || !updated.CreatedAt.Equal(original.CreatedAt) || updated.InitialStock != 3 {
		t.Fatalf("identity fields changed: %+v", updated)
	}
	if updated.Name != "Heavy stapler" || updated.Price != 95 || updated.Stock != 7 || updated.Category != models.CategoryAccessories {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := svc.Update(context.Background(), "item-missing", models.ItemInput{Name: "x", Category: "other", Price: 1}); !errors.Is(err, models.ErrItemNotFound) {
		t.Fatalf("Update(missing) error = %v", err)
	}
}

func TestDeleteLeavesSales(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "Eraser", 5, 10)
	_ = store.SaveSales(ctx, []models.Sale{{ID: "sale-1", ItemID: item.ID, ItemName: "Eraser", Quantity: 1, Price: 5, Total: 5, Date: "2026-10-19"}})

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.LoadItems(ctx)) != 0 {
		t.Fatal("item should be gone")
	}
	if len(store.LoadSales(ctx)) != 1 {
		t.Fatal("sales must survive item deletion")
	}
	if err := svc.Delete(ctx, item.ID); !errors.Is(err, models.ErrItemNotFound) {
		t.Fatalf("second Delete() error = %v", err)
	}
}

func TestAdjustStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "Ruler", 12, 4)

	for _, v := range []int{0, 9, 250} {
		if _, err := svc.AdjustStock(ctx, item.ID, v); err != nil {
			t.Fatalf("AdjustStock(%d) error = %v", v, err)
		}
		got, _ := svc.Get(ctx, item.ID)
		if got.Stock != v {
			t.Fatalf("stock = %d, want %d", got.Stock, v)
		}
	}

	if _, err := svc.AdjustStock(ctx, item.ID, -1); !errors.Is(err, models.ErrInvalidStock) {
		t.Fatalf("AdjustStock(-1) error = %v", err)
	}
	if got, _ := svc.Get(ctx, item.ID); got.Stock != 250 {
		t.Fatalf("negative adjustment changed stock to %d", got.Stock)
	}
}

func TestRestock(t *testing.T) {
	svc, _ := newTestService(t)
	item := mustCreate(t, svc, "Glue", 30, 2)

	got, err := svc.Restock(context.Background(), item.ID, 8)
	if err != nil || got.Stock != 10 {
		t.Fatalf("Restock() = %+v, %v", got, err)
	}
	if _, err := svc.Restock(context.Background(), item.ID, 0); !errors.Is(err, models.ErrInvalidQuantity) {
		t.Fatalf("Restock(0) error = %v", err)
	}
}

func TestRestockRejectsOverflow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "Pen", 10, 5)

	if _, err := svc.Restock(ctx, item.ID, math.MaxInt); !errors.Is(err, models.ErrInvalidQuantity) {
		t.Fatalf("Restock(MaxInt) error = %v", err)
	}
	if got := store.LoadItems(ctx)[0].Stock; got != 5 {
		t.Fatalf("stock = %d, want 5 untouched", got)
	}

	got, err := svc.Restock(ctx, item.ID, math.MaxInt-5)
	if err != nil || got.Stock != math.MaxInt {
		t.Fatalf("Restock(MaxInt-5) = %+v, %v", got, err)
	}
}

func TestListAndSellable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "pencil", 5, 0)
	mustCreate(t, svc, "Marker", 25, 4)
	if _, err := svc.Create(ctx, models.ItemInput{Name: "Earphones", Category: "electronics", Price: 300, Stock: 2}); err != nil {
		t.Fatal(err)
	}

	if got := svc.List(ctx, models.ItemFilter{Search: "PEN"}); len(got) != 1 || got[0].Name != "pencil" {
		t.Fatalf("search = %+v", got)
	}
	if got := svc.List(ctx, models.ItemFilter{Category: "electronics"}); len(got) != 1 || got[0].Name != "Earphones" {
		t.Fatalf("category filter = %+v", got)
	}
	if got := svc.List(ctx, models.ItemFilter{Category: "all"}); len(got) != 3 {
		t.Fatalf("all = %d items", len(got))
	}

	sellable := svc.Sellable(ctx)
	if len(sellable) != 2 || sellable[0].Name != "Earphones" || sellable[1].Name != "Marker" {
		t.Fatalf("sellable = %+v", sellable)
	}
}

func TestFindByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Blue pen", 10, 1)
	mustCreate(t, svc, "Red pen", 10, 1)
	mustCreate(t, svc, "Notebook", 40, 1)

	if got, err := svc.FindByName(ctx, "notebook"); err != nil || got.Name != "Notebook" {
		t.Fatalf("exact = %+v, %v", got, err)
	}
	if got, err := svc.FindByName(ctx, "blue"); err != nil || got.Name != "Blue pen" {
		t.Fatalf("partial = %+v, %v", got, err)
	}
	if _, err := svc.FindByName(ctx, "pen"); !errors.Is(err, models.ErrItemNotFound) {
		t.Fatalf("ambiguous error = %v", err)
	}
}
