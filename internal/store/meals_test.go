package store

import (
	"context"
	"testing"

	"github.com/erazemk/pantrypal/internal/db"
	"github.com/erazemk/pantrypal/internal/model"
)

func TestCreateAndListMeals(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateMeal(ctx, database, "Lasagne", model.WeekA, []string{"Pasta", "Tomatoes"}); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := CreateMeal(ctx, database, "Toast", model.WeekB, nil); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}

	all, err := ListMeals(ctx, database, "")
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(all))
	}
	if len(all[0].Ingredients) != 2 || all[0].Ingredients[1] != "Tomatoes" {
		t.Errorf("unexpected ingredients: %v", all[0].Ingredients)
	}
	if all[1].Ingredients == nil {
		t.Error("expected empty ingredient list, got nil")
	}

	weekB, _ := ListMeals(ctx, database, model.WeekB)
	if len(weekB) != 1 || weekB[0].Name != "Toast" {
		t.Errorf("unexpected week B meals: %+v", weekB)
	}

	if err := DeleteMeal(ctx, database, weekB[0].ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	weekB, _ = ListMeals(ctx, database, model.WeekB)
	if len(weekB) != 0 {
		t.Errorf("expected no week B meals, got %d", len(weekB))
	}
}

func TestCreateMealValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateMeal(ctx, database, "", model.WeekA, nil); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := CreateMeal(ctx, database, "Stew", "C", nil); err == nil {
		t.Error("expected error for unknown week")
	}
}
