package scraper

import "fmt"

// Error taxonomy for a scrape run. Navigation and date-selection failures
// are contained: the affected location or date degrades to an empty result
// and the run continues. Dependency-setup failures abort the whole run.

// NavigationTimeoutError reports that a location's date-selection control
// never appeared within the bounded wait. The location is skipped.
type NavigationTimeoutError struct {
	Location string
	Err      error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation timeout for location %q: %v", e.Location, e.Err)
}

func (e *NavigationTimeoutError) Unwrap() error { return e.Err }

// DateSelectionError reports that one date failed to select or render. The
// date is skipped and the location continues.
type DateSelectionError struct {
	Date string
	Err  error
}

func (e *DateSelectionError) Error() string {
	return fmt.Sprintf("failed to render date %q: %v", e.Date, e.Err)
}

func (e *DateSelectionError) Unwrap() error { return e.Err }

// DependencySetupError reports that the browser runtime could not be
// launched or connected to. Fatal for the whole run.
type DependencySetupError struct {
	Err error
}

func (e *DependencySetupError) Error() string {
	return fmt.Sprintf("browser setup failed: %v", e.Err)
}

func (e *DependencySetupError) Unwrap() error { return e.Err }
