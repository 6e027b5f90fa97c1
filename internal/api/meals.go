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

// MealsHandler handles the meal rotation.
type MealsHandler struct {
	DB     *sql.DB
	Pantry *pantry.Service
}

type createMealRequest struct {
	Name        string   `json:"name"`
	Week        string   `json:"week"`
	Ingredients []string `json:"ingredients"`
}

type createMealResponse struct {
	Meal  *model.Meal          `json:"meal"`
	Added []model.ShoppingItem `json:"added"`
}

// List handles GET /api/meals?week=A|B.
func (h *MealsHandler) List(w http.ResponseWriter, r *http.Request) {
	var week model.Week
	if v := r.URL.Query().Get("week"); v != "" {
		parsed, err := model.ParseWeek(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		week = parsed
	}

	meals, err := store.ListMeals(r.Context(), h.DB, week)
	if err != nil {
		slog.Error("failed to list meals", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(meals))
}

// Create handles POST /api/meals. Ingredients go on the shopping list for
// the meal's week.
func (h *MealsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	week, err := model.ParseWeek(req.Week)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	meal, added, err := h.Pantry.AddMeal(r.Context(), req.Name, week, req.Ingredients)
	if err != nil && meal == nil {
		slog.Error("failed to create meal", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}
	if err != nil {
		slog.Warn("meal created but shopping list incomplete", "meal", meal.Name, "error", err)
	}

	slog.Info("meal created", "user", GetClaims(r.Context()).Username, "meal", meal.Name, "week", week, "added", len(added))
	jsonResponse(w, http.StatusCreated, createMealResponse{Meal: meal, Added: emptyIfNil(added)})
}

// Delete handles DELETE /api/meals/{id}.
func (h *MealsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid meal id")
		return
	}

	if err := store.DeleteMeal(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete meal", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "meal deleted"})
}
