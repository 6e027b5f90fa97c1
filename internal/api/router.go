package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/pantrypal/internal/clock"
	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/pantry"
	"github.com/erazemk/pantrypal/internal/restock"
)

// RestockRefresher recomputes and publishes restock suggestions on demand.
type RestockRefresher interface {
	RefreshRestock(ctx context.Context) error
}

// Deps are the collaborators the handlers need.
type Deps struct {
	DB           *sql.DB
	JWTSecret    string
	Pantry       *pantry.Service
	Board        *restock.Board
	Restock      RestockRefresher
	Clock        clock.Clock
	ExpiryWindow time.Duration
	// Metrics, when set, is served unauthenticated at GET /metrics.
	Metrics http.Handler
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.ExpiryWindow <= 0 {
		d.ExpiryWindow = 48 * time.Hour
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret, Clock: d.Clock}
	usersHandler := &UsersHandler{DB: d.DB}
	itemsHandler := &ItemsHandler{DB: d.DB, Pantry: d.Pantry, Clock: d.Clock}
	inventoryHandler := &InventoryHandler{DB: d.DB, Pantry: d.Pantry, ExpiryWindow: d.ExpiryWindow}
	restockHandler := &RestockHandler{Board: d.Board, Refresher: d.Restock}
	shoppingHandler := &ShoppingHandler{DB: d.DB, Pantry: d.Pantry}
	mealsHandler := &MealsHandler{DB: d.DB, Pantry: d.Pantry}
	settingsHandler := &SettingsHandler{DB: d.DB}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireMember := RequireRole(model.RoleMember)

	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireMember(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Items.
	mux.Handle("GET /api/items", read(itemsHandler.List))
	mux.Handle("POST /api/items", write(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", read(itemsHandler.Get))
	mux.Handle("GET /api/items/{id}/history", read(itemsHandler.History))
	mux.Handle("GET /api/items/{id}/cadence", read(itemsHandler.Cadence))
	mux.Handle("PUT /api/items/{id}/image", write(itemsHandler.UploadImage))
	mux.Handle("GET /api/items/{id}/image", read(itemsHandler.GetImage))
	mux.Handle("GET /api/barcodes/{barcode}", read(itemsHandler.ResolveBarcode))

	// Inventory.
	mux.Handle("GET /api/inventory", read(inventoryHandler.List))
	mux.Handle("POST /api/inventory", write(inventoryHandler.Add))
	mux.Handle("GET /api/inventory/expiring", read(inventoryHandler.Expiring))
	mux.Handle("GET /api/inventory/barcode/{barcode}", read(inventoryHandler.ByBarcode))
	mux.Handle("POST /api/inventory/{id}/consume", write(inventoryHandler.Consume))
	mux.Handle("POST /api/inventory/consume", write(inventoryHandler.ConsumeMany))
	mux.Handle("GET /api/history", read(inventoryHandler.History))

	// Restock suggestions.
	mux.Handle("GET /api/restock", read(restockHandler.Latest))
	mux.Handle("POST /api/restock/refresh", write(restockHandler.Refresh))

	// Shopping list.
	mux.Handle("GET /api/shopping", read(shoppingHandler.List))
	mux.Handle("POST /api/shopping", write(shoppingHandler.Create))
	mux.Handle("POST /api/shopping/{id}/toggle", write(shoppingHandler.Toggle))
	mux.Handle("DELETE /api/shopping/checked", write(shoppingHandler.ClearChecked))
	mux.Handle("DELETE /api/shopping/{id}", write(shoppingHandler.Delete))

	// Meal plan.
	mux.Handle("GET /api/meals", read(mealsHandler.List))
	mux.Handle("POST /api/meals", write(mealsHandler.Create))
	mux.Handle("DELETE /api/meals/{id}", write(mealsHandler.Delete))

	// Household preferences.
	mux.Handle("GET /api/settings", read(settingsHandler.Get))
	mux.Handle("PUT /api/settings", write(settingsHandler.Update))

	return LoggingMiddleware(mux)
}
