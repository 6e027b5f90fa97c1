package restock

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
)

// LedgerStore is the read-only query surface the engine needs.
// *store.Ledger implements it.
type LedgerStore interface {
	StockChecker
	HistoryOf(ctx context.Context, t model.ConsumptionType) ([]model.ConsumptionEvent, error)
	ItemsByID(ctx context.Context, ids []int64) ([]model.Item, error)
}

// Engine produces restock suggestions from the consumption ledger.
type Engine struct {
	ledger LedgerStore
}

func NewEngine(ledger LedgerStore) *Engine {
	return &Engine{ledger: ledger}
}

// SuggestRestocks returns the items that are due by cadence at now and have
// no batch on hand, ordered by name then ID. Store errors are returned
// unchanged and no partial result is produced.
func (e *Engine) SuggestRestocks(ctx context.Context, now time.Time) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := e.ledger.HistoryOf(ctx, model.ConsumptionFinished)
	if err != nil {
		return nil, err
	}

	candidates := DueItems(events, now)
	if len(candidates) == 0 {
		return []model.Item{}, nil
	}

	missing, err := OutOfStock(ctx, e.ledger, candidates)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return []model.Item{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := e.ledger.ItemsByID(ctx, missing)
	if err != nil {
		return nil, err
	}

	// Unresolvable ids are dropped; each item is returned once.
	seen := make(map[int64]bool, len(items))
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		result = append(result, item)
	}
	slices.SortFunc(result, func(a, b model.Item) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

// DueItems groups FINISHED events by item and returns the ids of items due
// at now, sorted. Events of any other type are ignored.
func DueItems(events []model.ConsumptionEvent, now time.Time) []int64 {
	byItem := make(map[int64][]time.Time)
	for _, ev := range events {
		if ev.Type != model.ConsumptionFinished {
			continue
		}
		byItem[ev.ItemID] = append(byItem[ev.ItemID], ev.ConsumedAt)
	}

	var due []int64
	for id, timestamps := range byItem {
		if IsDue(timestamps, now) {
			due = append(due, id)
		}
	}
	slices.Sort(due)
	return due
}
