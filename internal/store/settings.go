package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/pantrypal/internal/model"
)

// Settings keys.
const (
	settingJWTSecret     = "jwt_secret"
	settingCurrentWeek   = "current_week"
	settingMealPlanStyle = "meal_plan_style"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	// Try to generate and insert first (safe against races).
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingJWTSecret, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingJWTSecret,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// GetPreferences loads the household preferences, filling in defaults for
// anything never saved.
func GetPreferences(ctx context.Context, db *sql.DB) (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	rows, err := db.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE key IN (?, ?)`,
		settingCurrentWeek, settingMealPlanStyle,
	)
	if err != nil {
		return prefs, fmt.Errorf("loading preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scanning preference: %w", err)
		}
		switch key {
		case settingCurrentWeek:
			if w, err := model.ParseWeek(value); err == nil {
				prefs.CurrentWeek = w
			}
		case settingMealPlanStyle:
			prefs.MealPlanStyle = value
		}
	}
	return prefs, rows.Err()
}

// SavePreferences validates and stores the household preferences.
func SavePreferences(ctx context.Context, db *sql.DB, prefs model.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO settings (key, value) VALUES (?, ?)
	           ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, settingCurrentWeek, string(prefs.CurrentWeek)); err != nil {
		return fmt.Errorf("saving current week: %w", err)
	}
	if prefs.MealPlanStyle == "" {
		_, err = tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, settingMealPlanStyle)
	} else {
		_, err = tx.ExecContext(ctx, upsert, settingMealPlanStyle, prefs.MealPlanStyle)
	}
	if err != nil {
		return fmt.Errorf("saving meal plan style: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preferences: %w", err)
	}
	return nil
}
