package database

import (
	"context"
	"fmt"
	"strings"
)

var _ FoodItemRepository = (*foodItemRepository)(nil)

type foodItemRepository struct {
	db *DB
}

func NewFoodItemRepository(db *DB) FoodItemRepository {
	return &foodItemRepository{db: db}
}

// UpsertBatch writes one batch of flattened menu records inside a single
// transaction. A record whose (name, location, date, meal_type) key already
// exists overwrites the stored row instead of failing or duplicating it, so
// re-scraping the same week is idempotent.
func (r *foodItemRepository) UpsertBatch(ctx context.Context, items []FoodItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO food_items (
			name, serving_size, calories, total_fat, sodium, total_carb,
			dietary_fiber, sugars, protein, location, date, meal_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, location, date, meal_type) DO UPDATE SET
			serving_size = excluded.serving_size,
			calories = excluded.calories,
			total_fat = excluded.total_fat,
			sodium = excluded.sodium,
			total_carb = excluded.total_carb,
			dietary_fiber = excluded.dietary_fiber,
			sugars = excluded.sugars,
			protein = excluded.protein,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			item.Name, item.ServingSize, item.Calories, item.TotalFat,
			item.Sodium, item.TotalCarb, item.DietaryFiber, item.Sugars,
			item.Protein, item.Location, item.Date, item.MealType)
		if err != nil {
			return fmt.Errorf("failed to upsert item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (r *foodItemRepository) GetItems(ctx context.Context, filter ItemFilter) ([]FoodItem, error) {
	query := `
		SELECT id, name, serving_size, calories, total_fat, sodium,
		       total_carb, dietary_fiber, sugars, protein,
		       location, date, meal_type, created_at, updated_at
		FROM food_items`

	var conditions []string
	var args []interface{}

	if filter.Location != "" {
		conditions = append(conditions, "location = ?")
		args = append(args, filter.Location)
	}
	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.MealType != "" {
		conditions = append(conditions, "meal_type = ?")
		args = append(args, filter.MealType)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY location, date, meal_type, name"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []FoodItem
	for rows.Next() {
		var item FoodItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.ServingSize, &item.Calories,
			&item.TotalFat, &item.Sodium, &item.TotalCarb, &item.DietaryFiber,
			&item.Sugars, &item.Protein, &item.Location, &item.Date,
			&item.MealType, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *foodItemRepository) GetItemCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM food_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *foodItemRepository) GetLocationStats(ctx context.Context) ([]LocationStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT location, COUNT(DISTINCT date) AS dates, COUNT(*) AS items
		FROM food_items
		GROUP BY location
		ORDER BY location
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get location stats: %w", err)
	}
	defer rows.Close()

	var stats []LocationStat
	for rows.Next() {
		var stat LocationStat
		if err := rows.Scan(&stat.Location, &stat.Dates, &stat.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stat rows: %w", err)
	}
	return stats, nil
}

func (r *foodItemRepository) GetDates(ctx context.Context, location string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT date FROM food_items WHERE location = ? ORDER BY date
	`, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan date row: %w", err)
		}
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating date rows: %w", err)
	}
	return dates, nil
}
