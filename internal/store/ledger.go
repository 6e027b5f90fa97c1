package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/pantrypal/internal/model"
)

// Ledger exposes the read-only queries the restock engine runs against the
// pantry database.
type Ledger struct {
	DB *sql.DB
}

// NewLedger wraps db.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

// HistoryOf returns all events of type t.
func (l *Ledger) HistoryOf(ctx context.Context, t model.ConsumptionType) ([]model.ConsumptionEvent, error) {
	return HistoryOf(ctx, l.DB, t)
}

// ItemIDsWithStock returns the ids among candidates with at least one batch on hand.
func (l *Ledger) ItemIDsWithStock(ctx context.Context, candidates []int64) ([]int64, error) {
	return ItemIDsWithStock(ctx, l.DB, candidates)
}

// ItemsByID resolves ids to items.
func (l *Ledger) ItemsByID(ctx context.Context, ids []int64) ([]model.Item, error) {
	return ItemsByID(ctx, l.DB, ids)
}
