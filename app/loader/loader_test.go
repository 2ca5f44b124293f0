package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/campusdining/menu-comb/app/database"
	"github.com/campusdining/menu-comb/app/menu"
)

type fakeRepository struct {
	batches   [][]database.FoodItem
	failBatch map[int]error // 1-based batch number -> error
}

func (f *fakeRepository) UpsertBatch(_ context.Context, items []database.FoodItem) error {
	f.batches = append(f.batches, items)
	if err, ok := f.failBatch[len(f.batches)]; ok {
		return err
	}
	return nil
}

func (f *fakeRepository) GetItems(context.Context, database.ItemFilter) ([]database.FoodItem, error) {
	return nil, nil
}

func (f *fakeRepository) GetItemCount(context.Context) (int, error) { return 0, nil }

func (f *fakeRepository) GetLocationStats(context.Context) ([]database.LocationStat, error) {
	return nil, nil
}

func (f *fakeRepository) GetDates(context.Context, string) ([]string, error) { return nil, nil }

func menusWithItems(location string, count int) menu.AllMenus {
	items := make([]menu.Item, count)
	for i := range items {
		items[i] = menu.Item{Name: fmt.Sprintf("Item %d", i)}
	}
	return menu.AllMenus{
		location: {
			{
				Date:     "Monday, September 1, 2025",
				Location: location,
				Meals: []menu.Meal{
					{Name: "Lunch", Categories: []menu.Category{{Name: "Entrees", Items: items}}},
				},
			},
		},
	}
}

func TestFlatten(t *testing.T) {
	all := menu.AllMenus{
		"worcester": {
			{
				Date:     "Monday, September 1, 2025",
				Location: "Worcester Commons", // page heading, must not win
				Meals: []menu.Meal{
					{
						Name: "Breakfast",
						Categories: []menu.Category{
							{
								Name: "Grill",
								Items: []menu.Item{
									{
										Name: "Scrambled Eggs",
										Nutrition: menu.NutritionRecord{
											Calories:    "210 kcal",
											TotalFat:    "12.5g",
											Sodium:      "310mg",
											ServingSize: "2 eggs",
										},
									},
								},
							},
						},
					},
				},
			},
		},
		"berkshire": {
			{
				Date: "Monday, September 1, 2025",
				Meals: []menu.Meal{
					{
						Name: "Dinner",
						Categories: []menu.Category{
							{Name: "Pizza", Items: []menu.Item{{Name: ""}}},
						},
					},
				},
			},
		},
	}

	items := Flatten(all)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	// Sorted location keys: berkshire first.
	unnamed := items[0]
	if unnamed.Name != "Unknown" {
		t.Errorf("expected empty name to default to Unknown, got %q", unnamed.Name)
	}
	if unnamed.Location != "berkshire" {
		t.Errorf("expected location berkshire, got %q", unnamed.Location)
	}
	if unnamed.ServingSize != "1 serving" {
		t.Errorf("expected default serving size, got %q", unnamed.ServingSize)
	}

	eggs := items[1]
	if eggs.Name != "Scrambled Eggs" {
		t.Errorf("expected Scrambled Eggs, got %q", eggs.Name)
	}
	if eggs.Location != "worcester" {
		t.Errorf("expected configured location key, got %q", eggs.Location)
	}
	if eggs.Date != "Monday, September 1, 2025" {
		t.Errorf("unexpected date %q", eggs.Date)
	}
	if eggs.MealType != "Breakfast" {
		t.Errorf("unexpected meal type %q", eggs.MealType)
	}
	if eggs.Calories != 210 {
		t.Errorf("expected calories 210, got %d", eggs.Calories)
	}
	if eggs.TotalFat != 12.5 {
		t.Errorf("expected total fat 12.5, got %v", eggs.TotalFat)
	}
	if eggs.Sodium != 310 {
		t.Errorf("expected sodium 310, got %v", eggs.Sodium)
	}
	if eggs.Protein != 0 {
		t.Errorf("expected missing protein to normalize to 0, got %v", eggs.Protein)
	}
	if eggs.ServingSize != "2 eggs" {
		t.Errorf("unexpected serving size %q", eggs.ServingSize)
	}
}

func TestFlattenEmpty(t *testing.T) {
	if items := Flatten(menu.AllMenus{}); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}

	all := menu.AllMenus{"franklin": {}}
	if items := Flatten(all); len(items) != 0 {
		t.Errorf("expected no items for empty location, got %d", len(items))
	}
}

func TestRunBatchSplitting(t *testing.T) {
	repo := &fakeRepository{}
	loader := NewLoader(repo)

	loaded := loader.Run(context.Background(), menusWithItems("worcester", 250))

	if loaded != 250 {
		t.Errorf("expected 250 loaded, got %d", loaded)
	}
	if len(repo.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(repo.batches))
	}
	if len(repo.batches[0]) != 100 || len(repo.batches[1]) != 100 || len(repo.batches[2]) != 50 {
		t.Errorf("unexpected batch sizes: %d, %d, %d",
			len(repo.batches[0]), len(repo.batches[1]), len(repo.batches[2]))
	}
}

func TestRunFailingBatchSkipped(t *testing.T) {
	repo := &fakeRepository{
		failBatch: map[int]error{2: errors.New("database locked")},
	}
	loader := NewLoader(repo)

	loaded := loader.Run(context.Background(), menusWithItems("worcester", 250))

	if loaded != 150 {
		t.Errorf("expected 150 loaded with one failed batch, got %d", loaded)
	}
	if len(repo.batches) != 3 {
		t.Errorf("expected all 3 batches attempted, got %d", len(repo.batches))
	}
}

func TestRunEmptyInput(t *testing.T) {
	repo := &fakeRepository{}
	loader := NewLoader(repo)

	if loaded := loader.Run(context.Background(), menu.AllMenus{}); loaded != 0 {
		t.Errorf("expected 0 loaded, got %d", loaded)
	}
	if len(repo.batches) != 0 {
		t.Errorf("expected no batches, got %d", len(repo.batches))
	}
}

func TestBatchLoadError(t *testing.T) {
	cause := errors.New("disk full")
	err := &BatchLoadError{Batch: 3, Err: cause}

	if err.Error() != "failed to load batch 3: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
}
