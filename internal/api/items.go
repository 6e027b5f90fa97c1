package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/pantrypal/internal/clock"
	"github.com/erazemk/pantrypal/internal/imaging"
	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/pantry"
	"github.com/erazemk/pantrypal/internal/restock"
	"github.com/erazemk/pantrypal/internal/store"
)

// ItemsHandler handles product definitions and their photos.
type ItemsHandler struct {
	DB     *sql.DB
	Pantry *pantry.Service
	Clock  clock.Clock
}

type createItemRequest struct {
	Name        string `json:"name"`
	Barcode     string `json:"barcode"`
	DefaultUnit string `json:"default_unit"`
	Category    string `json:"category"`
	Vegetarian  bool   `json:"vegetarian"`
	GlutenFree  bool   `json:"gluten_free"`
	Usual       bool   `json:"usual"`
	ImageURL    string `json:"image_url"`
}

type itemView struct {
	model.Item
	Tags []string `json:"tags"`
}

type itemDetail struct {
	Item    itemView      `json:"item"`
	Batches []model.Batch `json:"batches"`
}

type cadenceView struct {
	ItemID          int64     `json:"item_id"`
	Events          int       `json:"events"`
	Known           bool      `json:"known"`
	First           time.Time `json:"first,omitzero"`
	Last            time.Time `json:"last,omitzero"`
	Interval        string    `json:"interval,omitempty"`
	IntervalSeconds float64   `json:"interval_seconds,omitempty"`
	NextNeed        time.Time `json:"next_need,omitzero"`
	Due             bool      `json:"due"`
}

func newItemView(item model.Item) itemView {
	return itemView{Item: item, Tags: item.Tags()}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	jsonResponse(w, http.StatusOK, views)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, model.Item{
		Name:        req.Name,
		Barcode:     req.Barcode,
		DefaultUnit: req.DefaultUnit,
		Category:    req.Category,
		Vegetarian:  req.Vegetarian,
		GlutenFree:  req.GlutenFree,
		Usual:       req.Usual,
		ImageURL:    req.ImageURL,
	})
	if errors.Is(err, store.ErrDuplicateBarcode) {
		jsonError(w, http.StatusConflict, "barcode already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("item created", "user", GetClaims(r.Context()).Username, "item", item.Name)
	jsonResponse(w, http.StatusCreated, newItemView(*item))
}

// Get handles GET /api/items/{id}. The response includes the batches on hand.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	batches, err := store.ItemBatches(r.Context(), h.DB, item.ID)
	if err != nil {
		slog.Error("failed to list item batches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item batches")
		return
	}

	jsonResponse(w, http.StatusOK, itemDetail{Item: newItemView(*item), Batches: emptyIfNil(batches)})
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	history, err := store.HistoryForItem(r.Context(), h.DB, item.ID)
	if err != nil {
		slog.Error("failed to get item history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item history")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(history))
}

// Cadence handles GET /api/items/{id}/cadence: the replenishment interval
// inferred from the item's FINISHED events and whether it is due now.
func (h *ItemsHandler) Cadence(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	history, err := store.HistoryForItem(r.Context(), h.DB, item.ID)
	if err != nil {
		slog.Error("failed to get item history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item history")
		return
	}

	var finished []time.Time
	for _, e := range history {
		if e.Type == model.ConsumptionFinished {
			finished = append(finished, e.ConsumedAt)
		}
	}

	view := cadenceView{ItemID: item.ID, Events: len(finished)}
	if c, ok := restock.Estimate(finished); ok {
		view.Known = true
		view.First = c.First
		view.Last = c.Last
		view.Interval = c.Interval.String()
		view.IntervalSeconds = c.Interval.Seconds()
		view.NextNeed = c.NextNeed
		view.Due = c.DueAt(h.Clock.Now())
	}
	jsonResponse(w, http.StatusOK, view)
}

// UploadImage handles PUT /api/items/{id}/image. The photo is normalised to
// a bounded JPEG before it is stored.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if errors.Is(err, imaging.ErrTooLarge) {
		jsonError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, item.ID, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	slog.Info("item image uploaded", "item", item.Name, "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// ResolveBarcode handles GET /api/barcodes/{barcode}. A product known only
// to the product database comes back as a draft with id 0.
func (h *ItemsHandler) ResolveBarcode(w http.ResponseWriter, r *http.Request) {
	item, err := h.Pantry.ResolveBarcode(r.Context(), r.PathValue("barcode"))
	if err != nil {
		slog.Error("failed to resolve barcode", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to resolve barcode")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "unknown barcode")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item))
}

// loadItem resolves the {id} path value, writing the error response itself.
func (h *ItemsHandler) loadItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil, false
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	return item, true
}
