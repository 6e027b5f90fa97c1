package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
)

// AddShoppingItem puts an entry on the shopping list.
func AddShoppingItem(ctx context.Context, db *sql.DB, s model.ShoppingItem) (*model.ShoppingItem, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return nil, fmt.Errorf("shopping item name required")
	}
	if s.Quantity <= 0 {
		s.Quantity = 1
	}
	if s.Unit == "" {
		s.Unit = model.DefaultUnit
	}
	if s.Frequency == "" {
		s.Frequency = model.FrequencyOneOff
	}
	if s.AddedAt.IsZero() {
		s.AddedAt = time.Now()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO shopping_items (name, quantity, unit, checked, frequency, added_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.Name, s.Quantity, s.Unit, s.Checked, string(s.Frequency), millis(s.AddedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("adding shopping item: %w", err)
	}

	s.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shopping item id: %w", err)
	}
	s.AddedAt = fromMillis(millis(s.AddedAt))
	return &s, nil
}

// ListShoppingItems returns the shopping list, unchecked entries first and
// newest first within each group.
func ListShoppingItems(ctx context.Context, db *sql.DB) ([]model.ShoppingItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, quantity, unit, checked, frequency, added_at
		 FROM shopping_items ORDER BY checked, added_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		var s model.ShoppingItem
		var freq string
		var addedAt int64
		if err := rows.Scan(&s.ID, &s.Name, &s.Quantity, &s.Unit, &s.Checked, &freq, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning shopping item: %w", err)
		}
		s.Frequency = model.Frequency(freq)
		s.AddedAt = fromMillis(addedAt)
		items = append(items, s)
	}
	return items, rows.Err()
}

// ToggleShoppingItem flips the checked flag of an entry. It reports whether
// the entry exists.
func ToggleShoppingItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE shopping_items SET checked = NOT checked WHERE id = ?`, id,
	)
	if err != nil {
		return false, fmt.Errorf("toggling shopping item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggling shopping item: %w", err)
	}
	return n > 0, nil
}

// DeleteShoppingItem removes an entry.
func DeleteShoppingItem(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting shopping item: %w", err)
	}
	return nil
}

// ClearCheckedShoppingItems removes every checked entry and returns how many were removed.
func ClearCheckedShoppingItems(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM shopping_items WHERE checked = 1`)
	if err != nil {
		return 0, fmt.Errorf("clearing checked shopping items: %w", err)
	}
	return result.RowsAffected()
}
