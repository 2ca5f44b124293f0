package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/menu"
)

// Scraper walks every configured location sequentially, drives a browser
// session per location and parses each rendered date into a DayMenu. One
// location failing never aborts the run: its entry in the result is an empty
// LocationMenus and the remaining locations still get scraped.
type Scraper struct {
	provider  BrowserProvider
	parser    *menu.Parser
	locations []config.Location
}

func NewScraper(provider BrowserProvider, parser *menu.Parser, locations []config.Location) *Scraper {
	return &Scraper{
		provider:  provider,
		parser:    parser,
		locations: locations,
	}
}

// LocationCount returns how many locations this scraper covers.
func (s *Scraper) LocationCount() int {
	return len(s.locations)
}

// Run scrapes all locations in configuration order. The returned AllMenus
// has one key per configured location; a failed location maps to an empty
// sequence. The only fatal error is the browser provider failing to start.
func (s *Scraper) Run(ctx context.Context) (menu.AllMenus, error) {
	if err := s.provider.Start(ctx); err != nil {
		return nil, err
	}
	defer s.provider.Close()

	all := make(menu.AllMenus, len(s.locations))
	for _, location := range s.locations {
		menus, err := s.scrapeLocation(ctx, location)
		if err != nil {
			slog.Error("Location scrape failed", "location", location.Name, "error", err)
			all[location.Name] = menu.LocationMenus{}
			continue
		}
		all[location.Name] = menus
		slog.Info("Location scraped", "location", location.Name, "dates", len(menus))
	}

	logSummary(all)
	return all, nil
}

// scrapeLocation opens a session for one location, enumerates the available
// dates and renders each in turn. A date that fails to render is skipped;
// the session is released on every exit path.
func (s *Scraper) scrapeLocation(ctx context.Context, location config.Location) (menu.LocationMenus, error) {
	session, err := s.provider.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	dates, err := session.ListDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	slog.Debug("Dates discovered", "location", location.Name, "count", len(dates))

	opts := menu.ParseOptions{PrimaryMealsOnly: location.Settings.PrimaryMealsOnly()}
	menus := make(menu.LocationMenus, 0, len(dates))

	for _, date := range dates {
		html, err := session.RenderForDate(ctx, date.Value)
		if err != nil {
			slog.Warn("Date skipped", "location", location.Name, "date", date.Label, "error", err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			slog.Warn("Rendered page unreadable, date skipped",
				"location", location.Name, "date", date.Label, "error", err)
			continue
		}

		dayMenu, err := s.parser.Run(doc, date.Label, location.Name, opts)
		if err != nil {
			slog.Warn("Parse failed, date skipped",
				"location", location.Name, "date", date.Label, "error", err)
			continue
		}
		if dayMenu.Degraded {
			slog.Warn("Menu parsed with degraded sections",
				"location", location.Name, "date", date.Label)
		}

		menus = append(menus, *dayMenu)
	}

	return menus, nil
}

func logSummary(all menu.AllMenus) {
	for location, menus := range all {
		total := 0
		for _, dayMenu := range menus {
			total += dayMenu.ItemCount()
		}
		slog.Info("Scrape summary", "location", location, "days", len(menus), "items", total)
	}
}
