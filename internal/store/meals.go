package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/pantrypal/internal/model"
)

// CreateMeal adds a meal to the rotation.
func CreateMeal(ctx context.Context, db *sql.DB, name string, week model.Week, ingredients []string) (*model.Meal, error) {
	if name == "" {
		return nil, fmt.Errorf("meal name required")
	}
	if _, err := model.ParseWeek(string(week)); err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []string{}
	}

	encoded, err := json.Marshal(ingredients)
	if err != nil {
		return nil, fmt.Errorf("encoding ingredients: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO meals (name, week, ingredients) VALUES (?, ?, ?)`,
		name, string(week), string(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting meal id: %w", err)
	}
	return &model.Meal{ID: id, Name: name, Week: week, Ingredients: ingredients}, nil
}

// ListMeals returns meals, optionally only those of one week.
func ListMeals(ctx context.Context, db *sql.DB, week model.Week) ([]model.Meal, error) {
	query := `SELECT id, name, week, ingredients FROM meals`
	var args []any
	if week != "" {
		query += ` WHERE week = ?`
		args = append(args, string(week))
	}
	query += ` ORDER BY week, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		var w, ingredients string
		if err := rows.Scan(&m.ID, &m.Name, &w, &ingredients); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		m.Week = model.Week(w)
		if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
			return nil, fmt.Errorf("decoding ingredients of meal %d: %w", m.ID, err)
		}
		if m.Ingredients == nil {
			m.Ingredients = []string{}
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// DeleteMeal removes a meal.
func DeleteMeal(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	return nil
}
