package config

// Location is one dining-hall menu page to scrape, loaded from a YAML file
// in the locations directory. Name is derived from the filename and is only
// a fallback: the page-reported location heading wins during parsing.
type Location struct {
	Name     string   // Derived from filename (without .yml extension)
	URL      string   `yaml:"url"`
	Settings Settings `yaml:"settings"`
}

type Settings struct {
	Enabled bool `yaml:"enabled"`

	// RestrictToPrimaryMeals drops meal sections other than Breakfast,
	// Lunch and Dinner. Defaults to true when omitted.
	RestrictToPrimaryMeals *bool `yaml:"restrict_to_primary_meals"`

	SettleDelay       int `yaml:"settle_delay"`       // seconds to wait after a date re-render
	NavigationTimeout int `yaml:"navigation_timeout"` // seconds to wait for the date control
}

// PrimaryMealsOnly resolves the tri-state YAML flag to its default.
func (s Settings) PrimaryMealsOnly() bool {
	return s.RestrictToPrimaryMeals == nil || *s.RestrictToPrimaryMeals
}
