package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
)

// ErrBatchNotFound is returned when a batch does not exist (or was already consumed).
var ErrBatchNotFound = errors.New("batch not found")

const batchJoinedQuery = `SELECT b.id, b.item_id, b.quantity, b.unit, b.added_at, b.expires_at,
	        i.id, i.name, i.barcode, i.default_unit, i.category, i.vegetarian, i.gluten_free, i.usual,
	        i.image_url, i.image_mime, i.created_at
	 FROM batches b
	 JOIN items i ON i.id = b.item_id`

const batchOrder = ` ORDER BY b.expires_at IS NULL, b.expires_at, i.name, b.id`

// AddBatch records a new batch of an item on hand.
func AddBatch(ctx context.Context, db *sql.DB, itemID int64, quantity float64, unit string, addedAt time.Time, expiresAt *time.Time) (*model.Batch, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var defaultUnit string
	err = tx.QueryRowContext(ctx, `SELECT default_unit FROM items WHERE id = ?`, itemID).Scan(&defaultUnit)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if unit == "" {
		unit = defaultUnit
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO batches (item_id, quantity, unit, added_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		itemID, quantity, unit, millis(addedAt), nullMillis(expiresAt),
	)
	if err != nil {
		return nil, fmt.Errorf("adding batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting batch id: %w", err)
	}
	return GetBatch(ctx, db, id)
}

// GetBatch returns a batch with its item.
func GetBatch(ctx context.Context, db *sql.DB, id int64) (*model.Batch, error) {
	row := db.QueryRowContext(ctx, batchJoinedQuery+` WHERE b.id = ?`, id)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting batch: %w", err)
	}
	return b, nil
}

// ListBatches returns every batch on hand, soonest expiry first.
func ListBatches(ctx context.Context, db *sql.DB) ([]model.Batch, error) {
	rows, err := db.QueryContext(ctx, batchJoinedQuery+batchOrder)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// ItemBatches returns the batches on hand for one item.
func ItemBatches(ctx context.Context, db *sql.DB, itemID int64) ([]model.Batch, error) {
	rows, err := db.QueryContext(ctx, batchJoinedQuery+` WHERE b.item_id = ?`+batchOrder, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing item batches: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// BatchesByBarcode returns the batches on hand for the item with barcode.
func BatchesByBarcode(ctx context.Context, db *sql.DB, barcode string) ([]model.Batch, error) {
	rows, err := db.QueryContext(ctx, batchJoinedQuery+` WHERE i.barcode = ?`+batchOrder, barcode)
	if err != nil {
		return nil, fmt.Errorf("listing batches by barcode: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// ExpiringBatches returns batches whose expiration is strictly before the given instant.
func ExpiringBatches(ctx context.Context, db *sql.DB, before time.Time) ([]model.Batch, error) {
	rows, err := db.QueryContext(ctx,
		batchJoinedQuery+` WHERE b.expires_at IS NOT NULL AND b.expires_at < ?`+batchOrder,
		millis(before),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expiring batches: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// ItemIDsWithStock returns the subset of ids that have at least one batch on hand.
func ItemIDsWithStock(ctx context.Context, db *sql.DB, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	in, args := inClause(ids)
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT item_id FROM batches WHERE item_id IN `+in+` ORDER BY item_id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("checking stock: %w", err)
	}
	defer rows.Close()

	var inStock []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		inStock = append(inStock, id)
	}
	return inStock, rows.Err()
}

func scanBatch(row rowScanner) (*model.Batch, error) {
	b := &model.Batch{Item: &model.Item{}}
	var addedAt int64
	var expiresAt sql.NullInt64
	var barcode, imageURL, imageMime sql.NullString
	err := row.Scan(&b.ID, &b.ItemID, &b.Quantity, &b.Unit, &addedAt, &expiresAt,
		&b.Item.ID, &b.Item.Name, &barcode, &b.Item.DefaultUnit, &b.Item.Category,
		&b.Item.Vegetarian, &b.Item.GlutenFree, &b.Item.Usual, &imageURL, &imageMime, &b.Item.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.AddedAt = fromMillis(addedAt)
	b.ExpiresAt = timePtr(expiresAt)
	b.Item.Barcode = barcode.String
	b.Item.ImageURL = imageURL.String
	b.Item.ImageMime = imageMime.String
	return b, nil
}

func scanBatches(rows *sql.Rows) ([]model.Batch, error) {
	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}
