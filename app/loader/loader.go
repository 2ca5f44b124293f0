// Package loader flattens a scrape result into food-item records and
// upserts them in fixed-size batches. One failing batch never blocks the
// rest; the returned count covers only batches that loaded.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/campusdining/menu-comb/app/database"
	"github.com/campusdining/menu-comb/app/menu"
)

const (
	DefaultBatchSize = 100

	// Each batch gets its own bounded context so one hanging database
	// call cannot stall the whole load step.
	batchTimeout = 30 * time.Second
)

// BatchLoadError reports one failed upsert batch. The load continues with
// the remaining batches.
type BatchLoadError struct {
	Batch int
	Err   error
}

func (e *BatchLoadError) Error() string {
	return fmt.Sprintf("failed to load batch %d: %v", e.Batch, e.Err)
}

func (e *BatchLoadError) Unwrap() error { return e.Err }

type Loader struct {
	repo      database.FoodItemRepository
	batchSize int
}

func NewLoader(repo database.FoodItemRepository) *Loader {
	return &Loader{
		repo:      repo,
		batchSize: DefaultBatchSize,
	}
}

// Run flattens the scrape result and upserts it batch by batch. The return
// value is the number of records submitted in batches that did not fail —
// an upsert that overwrote an unchanged row still counts, which keeps the
// reporting intentionally loose.
func (l *Loader) Run(ctx context.Context, all menu.AllMenus) int {
	items := Flatten(all)
	if len(items) == 0 {
		slog.Info("Nothing to load")
		return 0
	}

	slog.Info("Loading food items", "count", len(items), "batch_size", l.batchSize)

	loaded := 0
	for start := 0; start < len(items); start += l.batchSize {
		end := start + l.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		batchNumber := start/l.batchSize + 1

		batchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
		err := l.repo.UpsertBatch(batchCtx, batch)
		cancel()

		if err != nil {
			loadErr := &BatchLoadError{Batch: batchNumber, Err: err}
			slog.Error("Batch load failed", "batch", batchNumber, "size", len(batch), "error", loadErr)
			continue
		}

		loaded += len(batch)
		slog.Debug("Batch loaded", "batch", batchNumber, "size", len(batch))
	}

	slog.Info("Load finished", "loaded", loaded, "total", len(items))
	return loaded
}

// Flatten turns the nested location -> day -> meal -> category -> item
// structure into flat records with normalized nutrition values. The
// persisted location is the orchestrator's key for the location, not the
// page-reported heading, so records stay queryable by configured name.
// Locations are visited in sorted-key order for deterministic output.
func Flatten(all menu.AllMenus) []database.FoodItem {
	locations := make([]string, 0, len(all))
	for location := range all {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	var items []database.FoodItem
	for _, location := range locations {
		for _, dayMenu := range all[location] {
			for _, meal := range dayMenu.Meals {
				for _, category := range meal.Categories {
					for _, item := range category.Items {
						items = append(items, flattenItem(item, location, dayMenu.Date, meal.Name))
					}
				}
			}
		}
	}
	return items
}

func flattenItem(item menu.Item, location, date, mealType string) database.FoodItem {
	name := item.Name
	if name == "" {
		name = "Unknown"
	}

	nutrition := item.Nutrition.Normalize()

	return database.FoodItem{
		Name:         name,
		ServingSize:  nutrition.ServingSize,
		Calories:     nutrition.Calories,
		TotalFat:     nutrition.TotalFat,
		Sodium:       nutrition.Sodium,
		TotalCarb:    nutrition.TotalCarb,
		DietaryFiber: nutrition.DietaryFiber,
		Sugars:       nutrition.Sugars,
		Protein:      nutrition.Protein,
		Location:     location,
		Date:         date,
		MealType:     mealType,
	}
}
