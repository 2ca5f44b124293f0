package database

import (
	"context"
)

type FoodItemRepository interface {
	// UpsertBatch inserts the records in one transaction, overwriting rows
	// that match an existing (name, location, date, meal_type) key.
	UpsertBatch(ctx context.Context, items []FoodItem) error

	GetItems(ctx context.Context, filter ItemFilter) ([]FoodItem, error)
	GetItemCount(ctx context.Context) (int, error)
	GetLocationStats(ctx context.Context) ([]LocationStat, error)
	GetDates(ctx context.Context, location string) ([]string, error)
}
