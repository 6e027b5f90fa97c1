package model

import "fmt"

// Meal plan styles.
const (
	StyleRandom    = "Random"
	StyleWeekAhead = "Week ahead"
	StyleTwoWeeks  = "Two week schedule"
)

// Preferences holds household settings that outlive a session.
type Preferences struct {
	CurrentWeek   Week   `json:"current_week"`
	MealPlanStyle string `json:"meal_plan_style,omitempty"`
}

// DefaultPreferences returns the settings of a fresh household.
func DefaultPreferences() Preferences {
	return Preferences{CurrentWeek: WeekA}
}

// Validate checks the preference values.
func (p Preferences) Validate() error {
	if _, err := ParseWeek(string(p.CurrentWeek)); err != nil {
		return err
	}
	switch p.MealPlanStyle {
	case "", StyleRandom, StyleWeekAhead, StyleTwoWeeks:
		return nil
	default:
		return fmt.Errorf("unknown meal plan style %q", p.MealPlanStyle)
	}
}
