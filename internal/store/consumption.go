package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
)

// Consumption describes one consume action on a batch.
type Consumption struct {
	BatchID  int64
	Type     model.ConsumptionType
	Quantity float64 // <= 0 means the whole batch
	Reason   string
	At       time.Time
}

// ConsumeBatch appends a consumption event for the batch's item and removes
// the batch, in a single transaction. The batch row is always deleted,
// whatever the consumed quantity.
func ConsumeBatch(ctx context.Context, db *sql.DB, c Consumption) (*model.ConsumptionEvent, error) {
	if _, err := model.ParseConsumptionType(string(c.Type)); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	var batchQty float64
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, quantity FROM batches WHERE id = ?`, c.BatchID,
	).Scan(&itemID, &batchQty)
	if err == sql.ErrNoRows {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking batch: %w", err)
	}

	qty := c.Quantity
	if qty <= 0 {
		qty = batchQty
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO consumption_events (item_id, consumed_at, quantity, type, reason) VALUES (?, ?, ?, ?, ?)`,
		itemID, millis(c.At), qty, string(c.Type), nullString(c.Reason),
	)
	if err != nil {
		return nil, fmt.Errorf("logging consumption: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, c.BatchID); err != nil {
		return nil, fmt.Errorf("removing batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing consumption: %w", err)
	}

	id, _ := result.LastInsertId()
	return &model.ConsumptionEvent{
		ID:         id,
		ItemID:     itemID,
		ConsumedAt: fromMillis(millis(c.At)),
		Quantity:   qty,
		Type:       c.Type,
		Reason:     c.Reason,
	}, nil
}

// LogConsumption appends a consumption event without touching batches.
func LogConsumption(ctx context.Context, db *sql.DB, e model.ConsumptionEvent) (*model.ConsumptionEvent, error) {
	if _, err := model.ParseConsumptionType(string(e.Type)); err != nil {
		return nil, err
	}
	if e.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO consumption_events (item_id, consumed_at, quantity, type, reason) VALUES (?, ?, ?, ?, ?)`,
		e.ItemID, millis(e.ConsumedAt), e.Quantity, string(e.Type), nullString(e.Reason),
	)
	if err != nil {
		return nil, fmt.Errorf("logging consumption: %w", err)
	}

	e.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting event id: %w", err)
	}
	e.ConsumedAt = fromMillis(millis(e.ConsumedAt))
	return &e, nil
}

// HistoryOf returns every event of the given type across all items, oldest first.
func HistoryOf(ctx context.Context, db *sql.DB, t model.ConsumptionType) ([]model.ConsumptionEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, consumed_at, quantity, type, reason
		 FROM consumption_events WHERE type = ? ORDER BY consumed_at, id`, string(t),
	)
	if err != nil {
		return nil, fmt.Errorf("getting %s history: %w", t, err)
	}
	defer rows.Close()

	return scanEvents(rows, false)
}

// HistoryForItem returns an item's events, newest first.
func HistoryForItem(ctx context.Context, db *sql.DB, itemID int64) ([]model.ConsumptionEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, consumed_at, quantity, type, reason
		 FROM consumption_events WHERE item_id = ? ORDER BY consumed_at DESC, id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, false)
}

// ListHistory returns events joined with item name and category, newest
// first, optionally filtered by type.
func ListHistory(ctx context.Context, db *sql.DB, t model.ConsumptionType) ([]model.ConsumptionEvent, error) {
	query := `SELECT e.id, e.item_id, e.consumed_at, e.quantity, e.type, e.reason, i.name, i.category
	          FROM consumption_events e
	          JOIN items i ON i.id = e.item_id`
	var args []any
	if t != "" {
		query += ` WHERE e.type = ?`
		args = append(args, string(t))
	}
	query += ` ORDER BY e.consumed_at DESC, e.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, true)
}

// scanEvents reads event rows. Rows with an unrecognised type are skipped
// with a warning rather than reclassified.
func scanEvents(rows *sql.Rows, joined bool) ([]model.ConsumptionEvent, error) {
	var events []model.ConsumptionEvent
	for rows.Next() {
		var e model.ConsumptionEvent
		var consumedAt int64
		var rawType string
		var reason sql.NullString
		dest := []any{&e.ID, &e.ItemID, &consumedAt, &e.Quantity, &rawType, &reason}
		if joined {
			dest = append(dest, &e.ItemName, &e.Category)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning consumption event: %w", err)
		}

		t, err := model.ParseConsumptionType(rawType)
		if err != nil {
			slog.Warn("skipping consumption event", "id", e.ID, "error", err)
			continue
		}
		e.Type = t
		e.ConsumedAt = fromMillis(consumedAt)
		e.Reason = reason.String
		events = append(events, e)
	}
	return events, rows.Err()
}
