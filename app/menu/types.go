package menu

// Menu structures produced by the parser. Ordering of meals, categories and
// items follows page layout order and is preserved end to end.

type NutritionRecord struct {
	Calories        string `json:"calories"`
	CaloriesFromFat string `json:"calories_from_fat"`
	TotalFat        string `json:"total_fat"`
	SatFat          string `json:"sat_fat"`
	TransFat        string `json:"trans_fat"`
	Cholesterol     string `json:"cholesterol"`
	Sodium          string `json:"sodium"`
	TotalCarb       string `json:"total_carb"`
	DietaryFiber    string `json:"dietary_fiber"`
	Sugars          string `json:"sugars"`
	Protein         string `json:"protein"`
	ServingSize     string `json:"serving_size"`
}

type Item struct {
	Name          string          `json:"name"`
	Nutrition     NutritionRecord `json:"nutrition"`
	Allergens     string          `json:"allergens"`
	Diet          string          `json:"diet"`
	CarbonRating  string          `json:"carbon_rating"`
	Healthfulness string          `json:"healthfulness"`
	Ingredients   string          `json:"ingredients"`
}

// Category holds the items listed under one category heading. Duplicate item
// names within a category are kept verbatim.
type Category struct {
	Name  string
	Items []Item
}

// Meal is one meal period (Breakfast, Lunch, Dinner) with its categories in
// page order.
type Meal struct {
	Name       string
	Categories []Category
}

// DayMenu is the parsed menu of one dining hall location for one date. Date
// carries the site's native label and is not guaranteed to be ISO formatted.
// Degraded marks menus where expected markup was missing and sections were
// silently reduced to empty, so callers can tell "genuinely empty" from
// "parser could not find structure".
type DayMenu struct {
	Date     string
	Location string
	Meals    []Meal
	Degraded bool
}

// LocationMenus is the ordered sequence of day menus for one location, one
// entry per scraped date.
type LocationMenus []DayMenu

// AllMenus maps location name to its scraped menus. Built fresh on every
// scrape run and never persisted in this shape.
type AllMenus map[string]LocationMenus

// PrimaryMealTypes are the meal labels kept when a location restricts
// scraping to primary meals.
var PrimaryMealTypes = map[string]bool{
	"Breakfast": true,
	"Lunch":     true,
	"Dinner":    true,
}

// ItemCount returns the total number of items across all meals and categories.
func (d DayMenu) ItemCount() int {
	count := 0
	for _, meal := range d.Meals {
		for _, category := range meal.Categories {
			count += len(category.Items)
		}
	}
	return count
}

// Meal returns the meal with the given name, or nil when absent.
func (d DayMenu) Meal(name string) *Meal {
	for i := range d.Meals {
		if d.Meals[i].Name == name {
			return &d.Meals[i]
		}
	}
	return nil
}

// Category returns the category with the given name, or nil when absent.
func (m Meal) Category(name string) *Category {
	for i := range m.Categories {
		if m.Categories[i].Name == name {
			return &m.Categories[i]
		}
	}
	return nil
}
