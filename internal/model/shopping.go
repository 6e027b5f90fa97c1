package model

import (
	"fmt"
	"time"
)

// Frequency controls when a shopping list entry is shown.
type Frequency string

// Shopping frequencies.
const (
	FrequencyOneOff    Frequency = "ONE_OFF"
	FrequencyEssential Frequency = "ESSENTIAL"
	FrequencyWeekA     Frequency = "WEEK_A"
	FrequencyWeekB     Frequency = "WEEK_B"
)

// ParseFrequency parses a shopping frequency; empty means one-off.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case "":
		return FrequencyOneOff, nil
	case FrequencyOneOff, FrequencyEssential, FrequencyWeekA, FrequencyWeekB:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// ShoppingItem is an entry on the shopping list.
type ShoppingItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Checked   bool      `json:"checked"`
	Frequency Frequency `json:"frequency"`
	AddedAt   time.Time `json:"added_at"`
}

// VisibleInWeek reports whether the entry belongs on the list for the given
// rotation week. One-off and essential entries are always shown.
func (s ShoppingItem) VisibleInWeek(week Week) bool {
	switch s.Frequency {
	case FrequencyOneOff, FrequencyEssential:
		return true
	case FrequencyWeekA:
		return week == WeekA
	case FrequencyWeekB:
		return week == WeekB
	default:
		return false
	}
}
