package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/pantrypal/internal/db"
	"github.com/erazemk/pantrypal/internal/model"
)

var day0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time {
	return day0.Add(time.Duration(n) * 24 * time.Hour)
}

func mustItem(t *testing.T, database *sql.DB, item model.Item) *model.Item {
	t.Helper()
	created, err := CreateItem(context.Background(), database, item)
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", item.Name, err)
	}
	return created
}

func mustBatch(t *testing.T, database *sql.DB, itemID int64, qty float64, expires *time.Time) *model.Batch {
	t.Helper()
	b, err := AddBatch(context.Background(), database, itemID, qty, "", day0, expires)
	if err != nil {
		t.Fatalf("AddBatch: %v", err)
	}
	return b
}

func TestAddBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Flour", DefaultUnit: "kg"})
	expires := days(30)

	b, err := AddBatch(ctx, database, item.ID, 2.5, "", day0, &expires)
	if err != nil {
		t.Fatalf("AddBatch: %v", err)
	}
	if b.Unit != "kg" {
		t.Errorf("expected unit to default to item unit 'kg', got %q", b.Unit)
	}
	if b.Quantity != 2.5 {
		t.Errorf("expected quantity 2.5, got %v", b.Quantity)
	}
	if !b.AddedAt.Equal(day0) {
		t.Errorf("expected added_at %v, got %v", day0, b.AddedAt)
	}
	if b.ExpiresAt == nil || !b.ExpiresAt.Equal(expires) {
		t.Errorf("expected expires_at %v, got %v", expires, b.ExpiresAt)
	}
	if b.Item == nil || b.Item.Name != "Flour" {
		t.Errorf("expected joined item Flour, got %+v", b.Item)
	}
	if got := b.QuantityLabel(); got != "2.5 kg" {
		t.Errorf("expected label '2.5 kg', got %q", got)
	}
}

func TestAddBatchUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)

	if _, err := AddBatch(context.Background(), database, 77, 1, "", day0, nil); err == nil {
		t.Fatal("expected error for unknown item")
	}
}

func TestAddBatchNegativeQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	item := mustItem(t, database, model.Item{Name: "Eggs"})

	if _, err := AddBatch(context.Background(), database, item.ID, -1, "", day0, nil); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestListBatchesOrdering(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	milk := mustItem(t, database, model.Item{Name: "Milk"})
	beans := mustItem(t, database, model.Item{Name: "Beans"})
	apples := mustItem(t, database, model.Item{Name: "Apples"})

	soon, later := days(2), days(10)
	mustBatch(t, database, beans.ID, 1, nil)
	mustBatch(t, database, milk.ID, 1, &later)
	mustBatch(t, database, apples.ID, 1, &soon)

	batches, err := ListBatches(ctx, database)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	want := []string{"Apples", "Milk", "Beans"}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(batches))
	}
	for i, name := range want {
		if batches[i].Item.Name != name {
			t.Errorf("batch %d: expected %s, got %s", i, name, batches[i].Item.Name)
		}
	}
}

func TestItemAndBarcodeBatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tea := mustItem(t, database, model.Item{Name: "Tea", Barcode: "4001"})
	coffee := mustItem(t, database, model.Item{Name: "Coffee"})
	mustBatch(t, database, tea.ID, 1, nil)
	mustBatch(t, database, tea.ID, 2, nil)
	mustBatch(t, database, coffee.ID, 1, nil)

	teaBatches, _ := ItemBatches(ctx, database, tea.ID)
	if len(teaBatches) != 2 {
		t.Errorf("expected 2 tea batches, got %d", len(teaBatches))
	}

	byCode, err := BatchesByBarcode(ctx, database, "4001")
	if err != nil {
		t.Fatalf("BatchesByBarcode: %v", err)
	}
	if len(byCode) != 2 {
		t.Errorf("expected 2 batches for barcode, got %d", len(byCode))
	}

	none, _ := BatchesByBarcode(ctx, database, "9999")
	if len(none) != 0 {
		t.Errorf("expected no batches, got %d", len(none))
	}
}

func TestExpiringBatchesStrictlyBefore(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Ham"})
	edge, inside, outside := days(2), days(1), days(5)
	mustBatch(t, database, item.ID, 1, &edge)
	mustBatch(t, database, item.ID, 1, &inside)
	mustBatch(t, database, item.ID, 1, &outside)
	mustBatch(t, database, item.ID, 1, nil)

	expiring, err := ExpiringBatches(ctx, database, days(2))
	if err != nil {
		t.Fatalf("ExpiringBatches: %v", err)
	}
	if len(expiring) != 1 {
		t.Fatalf("expected 1 expiring batch, got %d", len(expiring))
	}
	if !expiring[0].ExpiresAt.Equal(inside) {
		t.Errorf("expected batch expiring at %v, got %v", inside, expiring[0].ExpiresAt)
	}
}

func TestItemIDsWithStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := mustItem(t, database, model.Item{Name: "A"})
	b := mustItem(t, database, model.Item{Name: "B"})
	c := mustItem(t, database, model.Item{Name: "C"})
	mustBatch(t, database, a.ID, 1, nil)
	mustBatch(t, database, a.ID, 3, nil)
	mustBatch(t, database, c.ID, 0, nil)

	ids, err := ItemIDsWithStock(ctx, database, []int64{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("ItemIDsWithStock: %v", err)
	}
	// A zero-quantity batch still counts as stock.
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != c.ID {
		t.Errorf("expected [%d %d], got %v", a.ID, c.ID, ids)
	}

	empty, err := ItemIDsWithStock(ctx, database, nil)
	if err != nil {
		t.Fatalf("ItemIDsWithStock(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no ids, got %v", empty)
	}
}
