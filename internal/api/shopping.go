package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/pantry"
	"github.com/erazemk/pantrypal/internal/store"
)

// ShoppingHandler handles the shopping list.
type ShoppingHandler struct {
	DB     *sql.DB
	Pantry *pantry.Service
}

type createShoppingRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Frequency string  `json:"frequency"`
}

// List handles GET /api/shopping?week=A|B|current. Without a week every
// entry is returned.
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	var week model.Week
	switch v := r.URL.Query().Get("week"); v {
	case "":
	case "current":
		prefs, err := store.GetPreferences(r.Context(), h.DB)
		if err != nil {
			slog.Error("failed to load preferences", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to list shopping items")
			return
		}
		week = prefs.CurrentWeek
	default:
		parsed, err := model.ParseWeek(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		week = parsed
	}

	items, err := h.Pantry.ShoppingList(r.Context(), week)
	if err != nil {
		slog.Error("failed to list shopping items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list shopping items")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}

// Create handles POST /api/shopping.
func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShoppingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}
	freq, err := model.ParseFrequency(req.Frequency)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := store.AddShoppingItem(r.Context(), h.DB, model.ShoppingItem{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Frequency: freq,
		AddedAt:   h.Pantry.Clock.Now(),
	})
	if err != nil {
		slog.Error("failed to add shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to add shopping item")
		return
	}
	jsonResponse(w, http.StatusCreated, entry)
}

// Toggle handles POST /api/shopping/{id}/toggle.
func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shopping item id")
		return
	}

	found, err := store.ToggleShoppingItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to toggle shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to toggle shopping item")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "shopping item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shopping item toggled"})
}

// Delete handles DELETE /api/shopping/{id}.
func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shopping item id")
		return
	}

	if err := store.DeleteShoppingItem(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete shopping item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shopping item deleted"})
}

// ClearChecked handles DELETE /api/shopping/checked.
func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	n, err := store.ClearCheckedShoppingItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to clear shopping items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to clear shopping items")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"removed": n})
}
