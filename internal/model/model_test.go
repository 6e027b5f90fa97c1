package model

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseConsumptionType(t *testing.T) {
	tests := []struct {
		in      string
		want    ConsumptionType
		wantErr bool
	}{
		{"FINISHED", ConsumptionFinished, false},
		{"WASTED", ConsumptionWasted, false},
		// No silent fallback to FINISHED.
		{"UNKNOWN", "", true},
		{"finished", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseConsumptionType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseConsumptionType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownConsumptionType) {
			t.Errorf("ParseConsumptionType(%q) error = %v, want ErrUnknownConsumptionType", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseConsumptionType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestItemTags(t *testing.T) {
	tests := []struct {
		item Item
		want []string
	}{
		{Item{}, []string{}},
		{Item{Vegetarian: true}, []string{"Veg"}},
		{Item{GlutenFree: true}, []string{"GF"}},
		{Item{Vegetarian: true, GlutenFree: true}, []string{"Veg", "GF"}},
	}

	for _, tt := range tests {
		if got := tt.item.Tags(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tags() = %v, want %v", got, tt.want)
		}
	}
}

func TestBatchQuantityLabel(t *testing.T) {
	tests := []struct {
		batch Batch
		want  string
	}{
		{Batch{Quantity: 2, Unit: "pcs"}, "2 pcs"},
		{Batch{Quantity: 0.5, Unit: "L"}, "0.5 L"},
		{Batch{Quantity: 1.25, Unit: "kg"}, "1.25 kg"},
	}

	for _, tt := range tests {
		if got := tt.batch.QuantityLabel(); got != tt.want {
			t.Errorf("QuantityLabel() = %q, want %q", got, tt.want)
		}
	}
}

func TestBatchExpiresBefore(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(time.Hour)

	if (Batch{}).ExpiresBefore(now) {
		t.Error("batch without expiration should never expire")
	}
	if !(Batch{ExpiresAt: &now}).ExpiresBefore(soon) {
		t.Error("expected batch to expire before a later instant")
	}
	if (Batch{ExpiresAt: &now}).ExpiresBefore(now) {
		t.Error("expiration equal to the instant is not before it")
	}
}

func TestShoppingItemVisibleInWeek(t *testing.T) {
	tests := []struct {
		freq Frequency
		week Week
		want bool
	}{
		{FrequencyOneOff, WeekA, true},
		{FrequencyOneOff, WeekB, true},
		{FrequencyEssential, WeekB, true},
		{FrequencyWeekA, WeekA, true},
		{FrequencyWeekA, WeekB, false},
		{FrequencyWeekB, WeekB, true},
		{FrequencyWeekB, WeekA, false},
	}

	for _, tt := range tests {
		got := ShoppingItem{Frequency: tt.freq}.VisibleInWeek(tt.week)
		if got != tt.want {
			t.Errorf("VisibleInWeek(%s, %s) = %v, want %v", tt.freq, tt.week, got, tt.want)
		}
	}
}

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		prefs   Preferences
		wantErr bool
	}{
		{DefaultPreferences(), false},
		{Preferences{CurrentWeek: WeekB, MealPlanStyle: StyleTwoWeeks}, false},
		{Preferences{CurrentWeek: "C"}, true},
		{Preferences{CurrentWeek: WeekA, MealPlanStyle: "Daily"}, true},
	}

	for _, tt := range tests {
		if err := tt.prefs.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.prefs, err, tt.wantErr)
		}
	}
}
