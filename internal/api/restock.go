package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/pantrypal/internal/restock"
)

// RestockHandler serves the published restock suggestions.
type RestockHandler struct {
	Board     *restock.Board
	Refresher RestockRefresher
}

type restockResponse struct {
	restock.Snapshot
	Ready bool `json:"ready"`
}

// Latest handles GET /api/restock. Before the first computation it returns
// an empty list with ready set to false.
func (h *RestockHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Board.Latest()
	snap.Items = emptyIfNil(snap.Items)
	jsonResponse(w, http.StatusOK, restockResponse{Snapshot: snap, Ready: ok})
}

// Refresh handles POST /api/restock/refresh.
func (h *RestockHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Refresher == nil {
		jsonError(w, http.StatusServiceUnavailable, "restock refresh unavailable")
		return
	}

	if err := h.Refresher.RefreshRestock(r.Context()); err != nil {
		slog.Error("failed to refresh restock suggestions", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to refresh restock suggestions")
		return
	}

	snap, ok := h.Board.Latest()
	jsonResponse(w, http.StatusOK, restockResponse{Snapshot: snap, Ready: ok})
}
