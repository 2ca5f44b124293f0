package scraper

import (
	"context"

	"github.com/campusdining/menu-comb/app/config"
)

// DateOption is one entry of the menu page's date-selection control, in DOM
// order. Value is what gets selected programmatically; Label is the
// human-readable date used as the DayMenu date.
type DateOption struct {
	Value string
	Label string
}

// Session is a live browser page bound to one location's menu URL. Each
// location owns exactly one session for the duration of its scrape and must
// release it on every exit path.
type Session interface {
	ListDates(ctx context.Context) ([]DateOption, error)
	RenderForDate(ctx context.Context, value string) (string, error)
	Close() error
}

// BrowserProvider owns the browser process shared by the per-location
// sessions. Start failures mean the scraping dependency itself is broken and
// abort the whole run.
type BrowserProvider interface {
	Start(ctx context.Context) error
	Open(ctx context.Context, location config.Location) (Session, error)
	Close() error
}
