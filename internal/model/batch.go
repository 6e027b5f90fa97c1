package model

import (
	"strconv"
	"time"
)

// Batch is one physical lot of an item currently on hand.
type Batch struct {
	ID        int64      `json:"id"`
	ItemID    int64      `json:"item_id"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit"`
	AddedAt   time.Time  `json:"added_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Joined item fields (not always populated).
	Item *Item `json:"item,omitempty"`
}

// QuantityLabel formats the quantity with its unit, e.g. "2 pcs" or "0.5 L".
func (b Batch) QuantityLabel() string {
	return strconv.FormatFloat(b.Quantity, 'f', -1, 64) + " " + b.Unit
}

// ExpiresBefore reports whether the batch has an expiration strictly before t.
func (b Batch) ExpiresBefore(t time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(t)
}
