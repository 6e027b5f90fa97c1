// Package pantry implements the household operations that span several
// ledger tables: intake, consumption, barcode resolution and meal planning.
package pantry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/pantrypal/internal/clock"
	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/productlookup"
	"github.com/erazemk/pantrypal/internal/store"
)

// ProductLookup resolves barcodes the pantry has never seen.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*productlookup.Product, error)
}

// Service carries the dependencies of the pantry operations.
type Service struct {
	DB     *sql.DB
	Lookup ProductLookup // optional
	Clock  clock.Clock
}

func New(db *sql.DB, lookup ProductLookup, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{DB: db, Lookup: lookup, Clock: clk}
}

// Intake describes groceries being put away.
type Intake struct {
	Name       string     `json:"name"`
	Barcode    string     `json:"barcode,omitempty"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit,omitempty"`
	Category   string     `json:"category,omitempty"`
	Vegetarian bool       `json:"vegetarian"`
	GlutenFree bool       `json:"gluten_free"`
	Usual      bool       `json:"usual"`
	ImageURL   string     `json:"image_url,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// AddItem records a new batch. A known barcode reuses its item; otherwise
// the item is created from the intake fields first.
func (s *Service) AddItem(ctx context.Context, in Intake) (*model.Batch, error) {
	if in.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}
	in.Barcode = strings.TrimSpace(in.Barcode)

	item, err := s.findOrCreateItem(ctx, in)
	if err != nil {
		return nil, err
	}

	b, err := store.AddBatch(ctx, s.DB, item.ID, in.Quantity, in.Unit, s.Clock.Now(), in.ExpiresAt)
	if err != nil {
		return nil, err
	}
	slog.Info("batch added", "item", item.Name, "quantity", b.QuantityLabel())
	return b, nil
}

func (s *Service) findOrCreateItem(ctx context.Context, in Intake) (*model.Item, error) {
	if in.Barcode != "" {
		existing, err := store.GetItemByBarcode(ctx, s.DB, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	item, err := store.CreateItem(ctx, s.DB, model.Item{
		Name:        strings.TrimSpace(in.Name),
		Barcode:     in.Barcode,
		DefaultUnit: in.Unit,
		Category:    in.Category,
		Vegetarian:  in.Vegetarian,
		GlutenFree:  in.GlutenFree,
		Usual:       in.Usual,
		ImageURL:    in.ImageURL,
	})
	if errors.Is(err, store.ErrDuplicateBarcode) {
		// Registered concurrently.
		return store.GetItemByBarcode(ctx, s.DB, in.Barcode)
	}
	return item, err
}

// ResolveBarcode returns the local item for barcode, or an unsaved draft
// built from the product database (ID 0). It returns nil when neither
// knows the barcode. Lookup failures are logged and treated as unknown.
func (s *Service) ResolveBarcode(ctx context.Context, barcode string) (*model.Item, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("barcode required")
	}

	item, err := store.GetItemByBarcode(ctx, s.DB, barcode)
	if err != nil {
		return nil, err
	}
	if item != nil || s.Lookup == nil {
		return item, nil
	}

	product, err := s.Lookup.Lookup(ctx, barcode)
	if err != nil {
		slog.Warn("product lookup failed", "barcode", barcode, "error", err)
		return nil, nil
	}
	if product == nil {
		return nil, nil
	}

	name := product.Name
	if name == "" {
		name = model.UnknownProduct
	}
	return &model.Item{
		Name:        name,
		Barcode:     barcode,
		DefaultUnit: model.DefaultUnit,
		Category:    model.DefaultCategory,
		ImageURL:    product.ImageURL,
	}, nil
}

// Consume logs a consumption of a batch and removes the batch. Finishing a
// "usual" item puts it back on the shopping list.
func (s *Service) Consume(ctx context.Context, batchID int64, t model.ConsumptionType, quantity float64, reason string) (*model.ConsumptionEvent, error) {
	event, err := store.ConsumeBatch(ctx, s.DB, store.Consumption{
		BatchID:  batchID,
		Type:     t,
		Quantity: quantity,
		Reason:   reason,
		At:       s.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if t == model.ConsumptionFinished {
		s.replenishUsual(ctx, event.ItemID)
	}
	return event, nil
}

// replenishUsual adds a one-off shopping entry for a usual item. The
// consumption is already committed, so failures are only logged.
func (s *Service) replenishUsual(ctx context.Context, itemID int64) {
	item, err := store.GetItem(ctx, s.DB, itemID)
	if err != nil {
		slog.Warn("loading consumed item", "item_id", itemID, "error", err)
		return
	}
	if item == nil || !item.Usual {
		return
	}

	_, err = store.AddShoppingItem(ctx, s.DB, model.ShoppingItem{
		Name:      item.Name,
		Quantity:  1,
		Unit:      item.DefaultUnit,
		Frequency: model.FrequencyOneOff,
		AddedAt:   s.Clock.Now(),
	})
	if err != nil {
		slog.Warn("adding usual item to shopping list", "item", item.Name, "error", err)
		return
	}
	slog.Info("usual item added to shopping list", "item", item.Name)
}

// ConsumeMany consumes each batch with quantity 1. It returns how many
// succeeded; failures are joined into the error.
func (s *Service) ConsumeMany(ctx context.Context, batchIDs []int64, t model.ConsumptionType) (int, error) {
	if _, err := model.ParseConsumptionType(string(t)); err != nil {
		return 0, err
	}

	var errs error
	done := 0
	for _, id := range batchIDs {
		if err := ctx.Err(); err != nil {
			return done, errors.Join(errs, err)
		}
		if _, err := s.Consume(ctx, id, t, 1, ""); err != nil {
			errs = errors.Join(errs, fmt.Errorf("batch %d: %w", id, err))
			continue
		}
		done++
	}
	return done, errs
}

// AddMeal stores a meal and puts each distinct ingredient on the shopping
// list with the meal's week frequency, unless an entry with the same name
// and frequency is already there. It returns the entries it added.
func (s *Service) AddMeal(ctx context.Context, name string, week model.Week, ingredients []string) (*model.Meal, []model.ShoppingItem, error) {
	var cleaned []string
	seen := make(map[string]bool)
	for _, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		key := strings.ToLower(ing)
		if ing == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, ing)
	}

	meal, err := store.CreateMeal(ctx, s.DB, strings.TrimSpace(name), week, cleaned)
	if err != nil {
		return nil, nil, err
	}

	list, err := store.ListShoppingItems(ctx, s.DB)
	if err != nil {
		return meal, nil, err
	}
	freq := week.Frequency()
	onList := make(map[string]bool)
	for _, entry := range list {
		if entry.Frequency == freq {
			onList[strings.ToLower(entry.Name)] = true
		}
	}

	var added []model.ShoppingItem
	for _, ing := range cleaned {
		if onList[strings.ToLower(ing)] {
			continue
		}
		entry, err := store.AddShoppingItem(ctx, s.DB, model.ShoppingItem{
			Name:      ing,
			Frequency: freq,
			AddedAt:   s.Clock.Now(),
		})
		if err != nil {
			return meal, added, fmt.Errorf("adding ingredient %q: %w", ing, err)
		}
		added = append(added, *entry)
	}
	return meal, added, nil
}

// ShoppingList returns the entries visible in week. An empty week returns
// every entry.
func (s *Service) ShoppingList(ctx context.Context, week model.Week) ([]model.ShoppingItem, error) {
	all, err := store.ListShoppingItems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if week == "" {
		return all, nil
	}

	visible := make([]model.ShoppingItem, 0, len(all))
	for _, entry := range all {
		if entry.VisibleInWeek(week) {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

// Expiring returns the batches expiring within d of now.
func (s *Service) Expiring(ctx context.Context, d time.Duration) ([]model.Batch, error) {
	return s.ExpiringBefore(ctx, s.Clock.Now().Add(d))
}

// ExpiringBefore returns the batches expiring strictly before the given instant.
func (s *Service) ExpiringBefore(ctx context.Context, before time.Time) ([]model.Batch, error) {
	return store.ExpiringBatches(ctx, s.DB, before)
}
