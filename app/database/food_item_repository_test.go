package database

import (
	"context"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func sampleItem(name, location, date, mealType string) FoodItem {
	return FoodItem{
		Name:        name,
		ServingSize: "1 serving",
		Calories:    310,
		TotalFat:    12.5,
		Sodium:      310,
		TotalCarb:   25.9,
		Protein:     18,
		Location:    location,
		Date:        date,
		MealType:    mealType,
	}
}

func TestUpsertBatchInsertsAndCounts(t *testing.T) {
	repo := NewFoodItemRepository(testDB(t))
	ctx := context.Background()

	items := []FoodItem{
		sampleItem("Scrambled Eggs", "Worcester", "Nov 7", "Breakfast"),
		sampleItem("Home Fries", "Worcester", "Nov 7", "Breakfast"),
		sampleItem("Scrambled Eggs", "Franklin", "Nov 7", "Breakfast"),
	}

	if err := repo.UpsertBatch(ctx, items); err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}

	count, err := repo.GetItemCount(ctx)
	if err != nil {
		t.Fatalf("GetItemCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows, got %d", count)
	}
}

func TestUpsertBatchUpdatesExistingKey(t *testing.T) {
	repo := NewFoodItemRepository(testDB(t))
	ctx := context.Background()

	original := sampleItem("Scrambled Eggs", "Worcester", "Nov 7", "Breakfast")
	if err := repo.UpsertBatch(ctx, []FoodItem{original}); err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}

	updated := original
	updated.Calories = 350
	updated.Protein = 20
	if err := repo.UpsertBatch(ctx, []FoodItem{updated}); err != nil {
		t.Fatalf("UpsertBatch of duplicate key failed: %v", err)
	}

	count, _ := repo.GetItemCount(ctx)
	if count != 1 {
		t.Fatalf("Expected duplicate key to update in place, got %d rows", count)
	}

	items, err := repo.GetItems(ctx, ItemFilter{Location: "Worcester"})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Calories != 350 {
		t.Errorf("Expected updated calories 350, got %d", items[0].Calories)
	}
	if items[0].Protein != 20 {
		t.Errorf("Expected updated protein 20, got %v", items[0].Protein)
	}
}

func TestGetItemsFilters(t *testing.T) {
	repo := NewFoodItemRepository(testDB(t))
	ctx := context.Background()

	err := repo.UpsertBatch(ctx, []FoodItem{
		sampleItem("Scrambled Eggs", "Worcester", "Nov 7", "Breakfast"),
		sampleItem("Cheese Pizza", "Worcester", "Nov 7", "Lunch"),
		sampleItem("Roast Chicken", "Berkshire", "Nov 8", "Dinner"),
	})
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}

	lunch, err := repo.GetItems(ctx, ItemFilter{Location: "Worcester", MealType: "Lunch"})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(lunch) != 1 || lunch[0].Name != "Cheese Pizza" {
		t.Errorf("Unexpected filtered result: %+v", lunch)
	}

	all, err := repo.GetItems(ctx, ItemFilter{})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 items unfiltered, got %d", len(all))
	}

	limited, err := repo.GetItems(ctx, ItemFilter{Limit: 2})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected limit 2 respected, got %d", len(limited))
	}
}

func TestGetLocationStatsAndDates(t *testing.T) {
	repo := NewFoodItemRepository(testDB(t))
	ctx := context.Background()

	err := repo.UpsertBatch(ctx, []FoodItem{
		sampleItem("Scrambled Eggs", "Worcester", "Nov 7", "Breakfast"),
		sampleItem("Cheese Pizza", "Worcester", "Nov 8", "Lunch"),
		sampleItem("Roast Chicken", "Berkshire", "Nov 7", "Dinner"),
	})
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}

	stats, err := repo.GetLocationStats(ctx)
	if err != nil {
		t.Fatalf("GetLocationStats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 locations, got %d", len(stats))
	}
	if stats[0].Location != "Berkshire" || stats[0].ItemCount != 1 {
		t.Errorf("Unexpected first stat: %+v", stats[0])
	}
	if stats[1].Location != "Worcester" || stats[1].Dates != 2 || stats[1].ItemCount != 2 {
		t.Errorf("Unexpected second stat: %+v", stats[1])
	}

	dates, err := repo.GetDates(ctx, "Worcester")
	if err != nil {
		t.Fatalf("GetDates failed: %v", err)
	}
	if len(dates) != 2 {
		t.Errorf("Expected 2 dates for Worcester, got %d", len(dates))
	}
}

func TestUpsertEmptyBatch(t *testing.T) {
	repo := NewFoodItemRepository(testDB(t))
	if err := repo.UpsertBatch(context.Background(), nil); err != nil {
		t.Errorf("Expected empty batch to be a no-op, got: %v", err)
	}
}
