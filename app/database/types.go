package database

import (
	"time"
)

// FoodItem is one persisted menu item. The business key is
// (name, location, date, meal_type); the surrogate id is storage-assigned
// and carries no meaning to the scraping pipeline.
type FoodItem struct {
	ID           int64
	Name         string
	ServingSize  string
	Calories     int
	TotalFat     float64
	Sodium       float64
	TotalCarb    float64
	DietaryFiber float64
	Sugars       float64
	Protein      float64
	Location     string
	Date         string // site's native date label, not guaranteed ISO
	MealType     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemFilter narrows GetItems queries. Zero-valued fields are ignored.
type ItemFilter struct {
	Location string
	Date     string
	MealType string
	Limit    int
}

// LocationStat is one row of the per-location statistics summary.
type LocationStat struct {
	Location  string
	Dates     int
	ItemCount int
}
