package model

import (
	"errors"
	"fmt"
	"time"
)

// ConsumptionType says how an item left the pantry.
type ConsumptionType string

// Consumption types.
const (
	ConsumptionFinished ConsumptionType = "FINISHED"
	ConsumptionWasted   ConsumptionType = "WASTED"
)

// ErrUnknownConsumptionType is returned when a stored or submitted type is
// not one of the known values.
var ErrUnknownConsumptionType = errors.New("unknown consumption type")

// ParseConsumptionType parses a consumption type. Unknown values are an
// error; they are never coerced to FINISHED.
func ParseConsumptionType(s string) (ConsumptionType, error) {
	switch ConsumptionType(s) {
	case ConsumptionFinished:
		return ConsumptionFinished, nil
	case ConsumptionWasted:
		return ConsumptionWasted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConsumptionType, s)
	}
}

// ConsumptionEvent records that an item was finished or wasted. Events are
// append-only.
type ConsumptionEvent struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item_id"`
	ConsumedAt time.Time       `json:"consumed_at"`
	Quantity   float64         `json:"quantity"`
	Type       ConsumptionType `json:"type"`
	Reason     string          `json:"reason,omitempty"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
	Category string `json:"category,omitempty"`
}
