package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/pantry"
	"github.com/erazemk/pantrypal/internal/store"
)

// InventoryHandler handles the batches on hand and their consumption.
type InventoryHandler struct {
	DB           *sql.DB
	Pantry       *pantry.Service
	ExpiryWindow time.Duration
}

type batchView struct {
	model.Batch
	Label string   `json:"label"`
	Tags  []string `json:"tags"`
}

type consumeRequest struct {
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason"`
}

type consumeManyRequest struct {
	BatchIDs []int64 `json:"batch_ids"`
	Type     string  `json:"type"`
}

type consumeManyResponse struct {
	Consumed int    `json:"consumed"`
	Error    string `json:"error,omitempty"`
}

func newBatchViews(batches []model.Batch) []batchView {
	views := make([]batchView, 0, len(batches))
	for _, b := range batches {
		v := batchView{Batch: b, Label: b.QuantityLabel(), Tags: []string{}}
		if b.Item != nil {
			v.Tags = b.Item.Tags()
		}
		views = append(views, v)
	}
	return views
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := store.ListBatches(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list batches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	jsonResponse(w, http.StatusOK, newBatchViews(batches))
}

// Add handles POST /api/inventory.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req pantry.Intake
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Barcode) == "" {
		jsonError(w, http.StatusBadRequest, "name or barcode required")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if strings.TrimSpace(req.Name) == "" {
		item, err := h.Pantry.ResolveBarcode(r.Context(), req.Barcode)
		if err != nil {
			slog.Error("failed to resolve barcode", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to add batch")
			return
		}
		if item == nil {
			jsonError(w, http.StatusBadRequest, "unknown barcode, name required")
			return
		}
		req.Name = item.Name
		if req.ImageURL == "" {
			req.ImageURL = item.ImageURL
		}
	}

	batch, err := h.Pantry.AddItem(r.Context(), req)
	if err != nil {
		slog.Error("failed to add batch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to add batch")
		return
	}

	slog.Info("inventory added", "user", GetClaims(r.Context()).Username, "batch", batch.ID)
	jsonResponse(w, http.StatusCreated, newBatchViews([]model.Batch{*batch})[0])
}

// Expiring handles GET /api/inventory/expiring?within=48h.
func (h *InventoryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	within := h.ExpiryWindow
	if v := r.URL.Query().Get("within"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid within duration")
			return
		}
		within = d
	}

	batches, err := h.Pantry.Expiring(r.Context(), within)
	if err != nil {
		slog.Error("failed to list expiring batches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list expiring batches")
		return
	}
	jsonResponse(w, http.StatusOK, newBatchViews(batches))
}

// ByBarcode handles GET /api/inventory/barcode/{barcode}.
func (h *InventoryHandler) ByBarcode(w http.ResponseWriter, r *http.Request) {
	batches, err := store.BatchesByBarcode(r.Context(), h.DB, r.PathValue("barcode"))
	if err != nil {
		slog.Error("failed to list batches by barcode", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	jsonResponse(w, http.StatusOK, newBatchViews(batches))
}

// Consume handles POST /api/inventory/{id}/consume. The batch is removed
// whatever quantity is reported.
func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	var req consumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := model.ParseConsumptionType(req.Type)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.Pantry.Consume(r.Context(), id, t, req.Quantity, req.Reason)
	if errors.Is(err, store.ErrBatchNotFound) {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}
	if err != nil {
		slog.Error("failed to consume batch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to consume batch")
		return
	}

	slog.Info("batch consumed", "user", GetClaims(r.Context()).Username, "batch", id, "type", t)
	jsonResponse(w, http.StatusOK, event)
}

// ConsumeMany handles POST /api/inventory/consume. Batches that fail do not
// stop the others; the response reports how many were consumed.
func (h *InventoryHandler) ConsumeMany(w http.ResponseWriter, r *http.Request) {
	var req consumeManyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.BatchIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "batch_ids required")
		return
	}

	t, err := model.ParseConsumptionType(req.Type)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.Pantry.ConsumeMany(r.Context(), req.BatchIDs, t)
	resp := consumeManyResponse{Consumed: n}
	status := http.StatusOK
	if err != nil {
		slog.Warn("bulk consume incomplete", "consumed", n, "requested", len(req.BatchIDs), "error", err)
		resp.Error = err.Error()
		if n == 0 {
			status = http.StatusUnprocessableEntity
		}
	}
	jsonResponse(w, status, resp)
}

// History handles GET /api/history?type=FINISHED|WASTED.
func (h *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	var t model.ConsumptionType
	if v := r.URL.Query().Get("type"); v != "" {
		parsed, err := model.ParseConsumptionType(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		t = parsed
	}

	history, err := store.ListHistory(r.Context(), h.DB, t)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(history))
}
