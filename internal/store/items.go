package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/pantrypal/internal/model"
)

// ErrDuplicateBarcode is returned when an item with the same barcode exists.
var ErrDuplicateBarcode = errors.New("barcode already registered")

const itemColumns = `id, name, barcode, default_unit, category, vegetarian, gluten_free, usual,
	image_url, image_mime, created_at`

// CreateItem creates a new item. Empty unit and category fall back to defaults.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.Name == "" {
		return nil, fmt.Errorf("item name required")
	}
	if item.DefaultUnit == "" {
		item.DefaultUnit = model.DefaultUnit
	}
	if item.Category == "" {
		item.Category = model.DefaultCategory
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, barcode, default_unit, category, vegetarian, gluten_free, usual, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, nullString(item.Barcode), item.DefaultUnit, item.Category,
		item.Vegetarian, item.GlutenFree, item.Usual, nullString(item.ImageURL),
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateBarcode
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByBarcode returns the item registered under barcode.
func GetItemByBarcode(ctx context.Context, db *sql.DB, barcode string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE barcode = ?`, barcode)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by barcode: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by name, optionally filtered by category.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ItemsByID resolves ids to items. Unknown ids are skipped and each item is
// returned once; the order is by id.
func ItemsByID(ctx context.Context, db *sql.DB, ids []int64) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	in, args := inClause(ids)
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id IN `+in+` ORDER BY id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("getting items by id: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var barcode, imageURL, imageMime sql.NullString
	err := row.Scan(&item.ID, &item.Name, &barcode, &item.DefaultUnit, &item.Category,
		&item.Vegetarian, &item.GlutenFree, &item.Usual, &imageURL, &imageMime, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Barcode = barcode.String
	item.ImageURL = imageURL.String
	item.ImageMime = imageMime.String
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
