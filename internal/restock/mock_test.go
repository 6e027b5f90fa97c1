package restock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/erazemk/pantrypal/internal/model"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) HistoryOf(ctx context.Context, t model.ConsumptionType) ([]model.ConsumptionEvent, error) {
	args := m.Called(ctx, t)
	events, _ := args.Get(0).([]model.ConsumptionEvent)
	return events, args.Error(1)
}

func (m *mockLedger) ItemIDsWithStock(ctx context.Context, candidates []int64) ([]int64, error) {
	args := m.Called(ctx, candidates)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockLedger) ItemsByID(ctx context.Context, ids []int64) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func finished(itemID int64, ts ...time.Time) []model.ConsumptionEvent {
	out := make([]model.ConsumptionEvent, len(ts))
	for i, t := range ts {
		out[i] = model.ConsumptionEvent{ItemID: itemID, ConsumedAt: t, Quantity: 1, Type: model.ConsumptionFinished}
	}
	return out
}
