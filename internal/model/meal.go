package model

import "fmt"

// Week is one half of the two-week meal rotation.
type Week string

// Rotation weeks.
const (
	WeekA Week = "A"
	WeekB Week = "B"
)

// ParseWeek parses a rotation week.
func ParseWeek(s string) (Week, error) {
	switch w := Week(s); w {
	case WeekA, WeekB:
		return w, nil
	default:
		return "", fmt.Errorf("unknown week %q", s)
	}
}

// Frequency returns the shopping frequency for ingredients of this week.
func (w Week) Frequency() Frequency {
	if w == WeekB {
		return FrequencyWeekB
	}
	return FrequencyWeekA
}

// Meal is a planned meal in the rotation.
type Meal struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Week        Week     `json:"week"`
	Ingredients []string `json:"ingredients"`
}
