package restock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pantrypal/internal/model"
)

func day(n int) time.Time {
	return t0.AddDate(0, 0, n)
}

func TestSuggestRestocksScenario(t *testing.T) {
	ledger := &mockLedger{}
	a := model.Item{ID: 1, Name: "Apples"}
	b := model.Item{ID: 2, Name: "Bread"}

	events := append(finished(a.ID, day(0), day(10), day(20)), finished(b.ID, day(0), day(5))...)
	ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(events, nil).Once()
	ledger.On("ItemIDsWithStock", mock.Anything, []int64{1, 2}).Return([]int64{1}, nil).Once()
	ledger.On("ItemsByID", mock.Anything, []int64{2}).Return([]model.Item{b}, nil).Once()

	got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(35))
	require.NoError(t, err)
	assert.Equal(t, []model.Item{b}, got)
	ledger.AssertExpectations(t)
}

func TestSuggestRestocksInStockExcluded(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).
		Return(finished(7, day(0), day(1), day(2)), nil)
	ledger.On("ItemIDsWithStock", mock.Anything, []int64{7}).Return([]int64{7}, nil)

	got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(30))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	ledger.AssertNotCalled(t, "ItemsByID", mock.Anything, mock.Anything)
}

func TestSuggestRestocksIgnoresWasted(t *testing.T) {
	ledger := &mockLedger{}
	wasted := []model.ConsumptionEvent{
		{ItemID: 3, ConsumedAt: day(0), Type: model.ConsumptionWasted},
		{ItemID: 3, ConsumedAt: day(1), Type: model.ConsumptionWasted},
		{ItemID: 3, ConsumedAt: day(2), Type: model.ConsumptionWasted},
	}
	ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(wasted, nil)

	got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(365))
	require.NoError(t, err)
	assert.Empty(t, got)
	ledger.AssertNotCalled(t, "ItemIDsWithStock", mock.Anything, mock.Anything)
}

func TestSuggestRestocksNothingDueSkipsStockCheck(t *testing.T) {
	ledger := &mockLedger{}
	events := append(finished(1, day(0)), finished(2, day(0), day(10))...)
	ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(events, nil)

	// Item 2 is next needed at day 20; item 1 has a single event.
	got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(15))
	require.NoError(t, err)
	assert.Empty(t, got)
	ledger.AssertNumberOfCalls(t, "HistoryOf", 1)
	ledger.AssertNumberOfCalls(t, "ItemIDsWithStock", 0)
	ledger.AssertNumberOfCalls(t, "ItemsByID", 0)
}

func TestSuggestRestocksStoreErrors(t *testing.T) {
	errStore := errors.New("disk I/O error")

	t.Run("history", func(t *testing.T) {
		ledger := &mockLedger{}
		ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(nil, errStore)

		got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(30))
		assert.ErrorIs(t, err, errStore)
		assert.Nil(t, got)
	})

	t.Run("stock check", func(t *testing.T) {
		ledger := &mockLedger{}
		ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(finished(1, day(0), day(1)), nil)
		ledger.On("ItemIDsWithStock", mock.Anything, []int64{1}).Return(nil, errStore)

		got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(30))
		assert.ErrorIs(t, err, errStore)
		assert.Nil(t, got)
	})

	t.Run("resolve", func(t *testing.T) {
		ledger := &mockLedger{}
		ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(finished(1, day(0), day(1)), nil)
		ledger.On("ItemIDsWithStock", mock.Anything, []int64{1}).Return(nil, nil)
		ledger.On("ItemsByID", mock.Anything, []int64{1}).Return(nil, errStore)

		got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(30))
		assert.ErrorIs(t, err, errStore)
		assert.Nil(t, got)
	})
}

func TestSuggestRestocksUnresolvedAndDuplicateItems(t *testing.T) {
	ledger := &mockLedger{}
	events := append(finished(1, day(0), day(1)), finished(2, day(0), day(1))...)
	events = append(events, finished(3, day(0), day(1))...)
	ledger.On("HistoryOf", mock.Anything, model.ConsumptionFinished).Return(events, nil)
	ledger.On("ItemIDsWithStock", mock.Anything, []int64{1, 2, 3}).Return([]int64{}, nil)
	// Item 2 no longer exists; item 3 comes back twice.
	ledger.On("ItemsByID", mock.Anything, []int64{1, 2, 3}).Return([]model.Item{
		{ID: 3, Name: "Coffee"},
		{ID: 1, Name: "Milk"},
		{ID: 3, Name: "Coffee"},
	}, nil)

	got, err := NewEngine(ledger).SuggestRestocks(context.Background(), day(10))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Coffee", got[0].Name)
	assert.Equal(t, "Milk", got[1].Name)
}

func TestSuggestRestocksCancelled(t *testing.T) {
	ledger := &mockLedger{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(ledger).SuggestRestocks(ctx, day(30))
	assert.ErrorIs(t, err, context.Canceled)
	ledger.AssertNotCalled(t, "HistoryOf", mock.Anything, mock.Anything)
}

func TestDueItems(t *testing.T) {
	events := append(finished(5, day(0), day(2)), finished(4, day(0), day(2))...)
	events = append(events, model.ConsumptionEvent{ItemID: 9, ConsumedAt: day(0), Type: model.ConsumptionFinished})

	assert.Equal(t, []int64{4, 5}, DueItems(events, day(5)))
	assert.Empty(t, DueItems(events, day(4)))
	assert.Empty(t, DueItems(nil, day(4)))
}
