package restock

import (
	"slices"
	"sync"
	"time"

	"github.com/erazemk/pantrypal/internal/model"
)

// Snapshot is one published suggestion run.
type Snapshot struct {
	Items      []model.Item `json:"items"`
	ComputedAt time.Time    `json:"computed_at"`
}

// Board holds the latest published suggestions and lets readers wait for
// the next publication.
type Board struct {
	mu      sync.RWMutex
	latest  Snapshot
	ok      bool
	changed chan struct{}
}

func NewBoard() *Board {
	return &Board{changed: make(chan struct{})}
}

// Publish replaces the current snapshot and wakes all waiters.
func (b *Board) Publish(items []model.Item, at time.Time) {
	if items == nil {
		items = []model.Item{}
	}

	b.mu.Lock()
	b.latest = Snapshot{Items: slices.Clone(items), ComputedAt: at}
	b.ok = true
	close(b.changed)
	b.changed = make(chan struct{})
	b.mu.Unlock()
}

// Latest returns the most recent snapshot, and false if nothing has been
// published yet.
func (b *Board) Latest() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{Items: slices.Clone(b.latest.Items), ComputedAt: b.latest.ComputedAt}, b.ok
}

// Changed returns a channel that is closed on the next Publish.
func (b *Board) Changed() <-chan struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.changed
}
