package store

import (
	"context"
	"testing"

	"github.com/erazemk/pantrypal/internal/db"
	"github.com/erazemk/pantrypal/internal/model"
)

// TestLedgerRoundTrip checks that what the ledger reports back matches what
// was written through the regular store functions.
func TestLedgerRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(database)

	a := mustItem(t, database, model.Item{Name: "A"})
	b := mustItem(t, database, model.Item{Name: "B"})

	for _, n := range []int{0, 7, 14} {
		bt := mustBatch(t, database, a.ID, 1, nil)
		if _, err := ConsumeBatch(ctx, database, Consumption{BatchID: bt.ID, Type: model.ConsumptionFinished, At: days(n)}); err != nil {
			t.Fatalf("ConsumeBatch: %v", err)
		}
	}
	for _, n := range []int{0, 10, 20} {
		LogConsumption(ctx, database, model.ConsumptionEvent{ItemID: b.ID, ConsumedAt: days(n), Quantity: 1, Type: model.ConsumptionFinished})
	}
	mustBatch(t, database, a.ID, 1, nil)

	events, err := ledger.HistoryOf(ctx, model.ConsumptionFinished)
	if err != nil {
		t.Fatalf("HistoryOf: %v", err)
	}
	perItem := map[int64]int{}
	for _, e := range events {
		perItem[e.ItemID]++
	}
	if perItem[a.ID] != 3 || perItem[b.ID] != 3 {
		t.Errorf("unexpected per-item counts: %v", perItem)
	}

	stocked, err := ledger.ItemIDsWithStock(ctx, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("ItemIDsWithStock: %v", err)
	}
	if len(stocked) != 1 || stocked[0] != a.ID {
		t.Errorf("expected only A in stock, got %v", stocked)
	}

	items, err := ledger.ItemsByID(ctx, []int64{b.ID})
	if err != nil {
		t.Fatalf("ItemsByID: %v", err)
	}
	if len(items) != 1 || items[0].Name != "B" {
		t.Errorf("unexpected items: %+v", items)
	}
}
