package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/store"
)

// SettingsHandler handles household preferences.
type SettingsHandler struct {
	DB *sql.DB
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.GetPreferences(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to load preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	jsonResponse(w, http.StatusOK, prefs)
}

// Update handles PUT /api/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := prefs.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SavePreferences(r.Context(), h.DB, prefs); err != nil {
		slog.Error("failed to save preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	slog.Info("settings updated", "user", GetClaims(r.Context()).Username, "week", prefs.CurrentWeek)
	jsonResponse(w, http.StatusOK, prefs)
}
