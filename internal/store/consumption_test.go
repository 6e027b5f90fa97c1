package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/pantrypal/internal/db"
	"github.com/erazemk/pantrypal/internal/model"
)

func TestConsumeBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Cereal"})
	b := mustBatch(t, database, item.ID, 3, nil)

	event, err := ConsumeBatch(ctx, database, Consumption{
		BatchID: b.ID,
		Type:    model.ConsumptionFinished,
		At:      days(4),
	})
	if err != nil {
		t.Fatalf("ConsumeBatch: %v", err)
	}
	if event.ItemID != item.ID {
		t.Errorf("expected item %d, got %d", item.ID, event.ItemID)
	}
	if event.Quantity != 3 {
		t.Errorf("expected quantity to default to batch quantity 3, got %v", event.Quantity)
	}
	if !event.ConsumedAt.Equal(days(4)) {
		t.Errorf("expected consumed_at %v, got %v", days(4), event.ConsumedAt)
	}

	gone, _ := GetBatch(ctx, database, b.ID)
	if gone != nil {
		t.Error("expected batch to be removed after consumption")
	}

	// A second consume of the same batch fails.
	_, err = ConsumeBatch(ctx, database, Consumption{BatchID: b.ID, Type: model.ConsumptionFinished, At: days(5)})
	if !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestConsumeBatchPartialQuantityStillRemovesBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Lettuce"})
	b := mustBatch(t, database, item.ID, 5, nil)

	event, err := ConsumeBatch(ctx, database, Consumption{
		BatchID:  b.ID,
		Type:     model.ConsumptionWasted,
		Quantity: 2,
		Reason:   "wilted",
		At:       days(1),
	})
	if err != nil {
		t.Fatalf("ConsumeBatch: %v", err)
	}
	if event.Quantity != 2 || event.Reason != "wilted" {
		t.Errorf("unexpected event: %+v", event)
	}

	batches, _ := ItemBatches(ctx, database, item.ID)
	if len(batches) != 0 {
		t.Errorf("expected no batches left, got %d", len(batches))
	}
}

func TestConsumeBatchUnknownType(t *testing.T) {
	database := db.NewTestDB(t)
	item := mustItem(t, database, model.Item{Name: "Soup"})
	b := mustBatch(t, database, item.ID, 1, nil)

	_, err := ConsumeBatch(context.Background(), database, Consumption{BatchID: b.ID, Type: "EATEN", At: day0})
	if !errors.Is(err, model.ErrUnknownConsumptionType) {
		t.Fatalf("expected ErrUnknownConsumptionType, got %v", err)
	}

	still, _ := GetBatch(context.Background(), database, b.ID)
	if still == nil {
		t.Error("batch should survive a rejected consumption")
	}
}

func TestHistoryOf(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Coffee"})
	for _, e := range []model.ConsumptionEvent{
		{ItemID: item.ID, ConsumedAt: days(14), Quantity: 1, Type: model.ConsumptionFinished},
		{ItemID: item.ID, ConsumedAt: days(0), Quantity: 1, Type: model.ConsumptionFinished},
		{ItemID: item.ID, ConsumedAt: days(7), Quantity: 1, Type: model.ConsumptionWasted, Reason: "spilled"},
	} {
		if _, err := LogConsumption(ctx, database, e); err != nil {
			t.Fatalf("LogConsumption: %v", err)
		}
	}

	finished, err := HistoryOf(ctx, database, model.ConsumptionFinished)
	if err != nil {
		t.Fatalf("HistoryOf: %v", err)
	}
	if len(finished) != 2 {
		t.Fatalf("expected 2 finished events, got %d", len(finished))
	}
	if !finished[0].ConsumedAt.Equal(days(0)) || !finished[1].ConsumedAt.Equal(days(14)) {
		t.Errorf("expected events oldest first, got %v, %v", finished[0].ConsumedAt, finished[1].ConsumedAt)
	}

	wasted, _ := HistoryOf(ctx, database, model.ConsumptionWasted)
	if len(wasted) != 1 || wasted[0].Reason != "spilled" {
		t.Errorf("unexpected wasted history: %+v", wasted)
	}
}

func TestListHistoryJoinsItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Jam", Category: "Spreads"})
	LogConsumption(ctx, database, model.ConsumptionEvent{ItemID: item.ID, ConsumedAt: days(1), Type: model.ConsumptionFinished})
	LogConsumption(ctx, database, model.ConsumptionEvent{ItemID: item.ID, ConsumedAt: days(3), Type: model.ConsumptionWasted})

	all, err := ListHistory(ctx, database, "")
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}
	if all[0].Type != model.ConsumptionWasted {
		t.Errorf("expected newest first, got %s", all[0].Type)
	}
	if all[0].ItemName != "Jam" || all[0].Category != "Spreads" {
		t.Errorf("expected joined item fields, got %+v", all[0])
	}

	wasted, _ := ListHistory(ctx, database, model.ConsumptionWasted)
	if len(wasted) != 1 {
		t.Errorf("expected 1 wasted event, got %d", len(wasted))
	}

	forItem, _ := HistoryForItem(ctx, database, item.ID)
	if len(forItem) != 2 || !forItem[0].ConsumedAt.Equal(days(3)) {
		t.Errorf("unexpected item history: %+v", forItem)
	}
}

func TestHistorySkipsUnknownType(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := mustItem(t, database, model.Item{Name: "Bread"})
	LogConsumption(ctx, database, model.ConsumptionEvent{ItemID: item.ID, ConsumedAt: days(1), Type: model.ConsumptionFinished})

	// Simulate a row written by an older client with a type this build does not know.
	if _, err := database.Exec(`PRAGMA ignore_check_constraints = ON`); err != nil {
		t.Fatalf("disabling check constraints: %v", err)
	}
	if _, err := database.Exec(
		`INSERT INTO consumption_events (item_id, consumed_at, quantity, type) VALUES (?, ?, 1, 'DONATED')`,
		item.ID, millis(days(2)),
	); err != nil {
		t.Fatalf("inserting legacy row: %v", err)
	}

	all, err := ListHistory(ctx, database, "")
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(all) != 1 || all[0].Type != model.ConsumptionFinished {
		t.Errorf("expected only the finished event, got %+v", all)
	}

	finished, _ := HistoryOf(ctx, database, model.ConsumptionFinished)
	if len(finished) != 1 {
		t.Errorf("unknown type must not be counted as finished, got %d events", len(finished))
	}
}

func TestLogConsumptionValidation(t *testing.T) {
	database := db.NewTestDB(t)
	item := mustItem(t, database, model.Item{Name: "Tofu"})

	_, err := LogConsumption(context.Background(), database, model.ConsumptionEvent{
		ItemID: item.ID, ConsumedAt: day0, Quantity: -1, Type: model.ConsumptionFinished,
	})
	if err == nil {
		t.Error("expected error for negative quantity")
	}

	_, err = LogConsumption(context.Background(), database, model.ConsumptionEvent{
		ItemID: item.ID, ConsumedAt: day0, Type: "",
	})
	if !errors.Is(err, model.ErrUnknownConsumptionType) {
		t.Errorf("expected ErrUnknownConsumptionType, got %v", err)
	}
}
