package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/menu"
)

const testPage = `
<div class="singlepage-content-padding"><h1>%s</h1></div>
<div id="lunch_menu">
  <h2>Lunch</h2>
  <div id="content_text">
    <h2 class="menu_category_name">Entree</h2>
    <li class="lightbox-nutrition"><a data-calories="450" data-protein="21g">Cheese Pizza</a></li>
    <li class="lightbox-nutrition"><a data-calories="380">Garden Salad</a></li>
  </div>
</div>`

type fakeSession struct {
	dates     []DateOption
	pages     map[string]string
	listErr   error
	renderErr map[string]error
	closed    bool
}

func (s *fakeSession) ListDates(ctx context.Context) ([]DateOption, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.dates, nil
}

func (s *fakeSession) RenderForDate(ctx context.Context, value string) (string, error) {
	if err := s.renderErr[value]; err != nil {
		return "", err
	}
	return s.pages[value], nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeProvider struct {
	sessions map[string]*fakeSession
	startErr error
	openErr  map[string]error
	started  bool
	closed   bool
}

func (p *fakeProvider) Start(ctx context.Context) error {
	if p.startErr != nil {
		return p.startErr
	}
	p.started = true
	return nil
}

func (p *fakeProvider) Open(ctx context.Context, location config.Location) (Session, error) {
	if err := p.openErr[location.Name]; err != nil {
		return nil, err
	}
	session, ok := p.sessions[location.Name]
	if !ok {
		return nil, fmt.Errorf("no session for %s", location.Name)
	}
	return session, nil
}

func (p *fakeProvider) Close() error {
	p.closed = true
	return nil
}

func testLocation(name string) config.Location {
	return config.Location{
		Name:     name,
		URL:      "https://umassdining.com/menu/" + name + "-menu",
		Settings: config.Settings{Enabled: true},
	}
}

func renderedPage(location string) string {
	return fmt.Sprintf(testPage, location)
}

func TestScrapeAllLocations(t *testing.T) {
	provider := &fakeProvider{
		sessions: map[string]*fakeSession{
			"worcester": {
				dates: []DateOption{
					{Value: "11/07/2025", Label: "Friday, November 7, 2025"},
					{Value: "11/08/2025", Label: "Saturday, November 8, 2025"},
				},
				pages: map[string]string{
					"11/07/2025": renderedPage("Worcester Commons"),
					"11/08/2025": renderedPage("Worcester Commons"),
				},
			},
			"franklin": {
				dates: []DateOption{{Value: "11/07/2025", Label: "Friday, November 7, 2025"}},
				pages: map[string]string{"11/07/2025": renderedPage("Franklin")},
			},
		},
	}

	s := NewScraper(provider, menu.NewParser(), []config.Location{
		testLocation("worcester"), testLocation("franklin"),
	})

	all, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("Expected 2 locations, got %d", len(all))
	}
	if len(all["worcester"]) != 2 {
		t.Errorf("Expected 2 day menus for worcester, got %d", len(all["worcester"]))
	}
	if len(all["franklin"]) != 1 {
		t.Errorf("Expected 1 day menu for franklin, got %d", len(all["franklin"]))
	}

	first := all["worcester"][0]
	if first.Date != "Friday, November 7, 2025" {
		t.Errorf("Expected DOM-order first date label, got %q", first.Date)
	}
	if first.Location != "Worcester Commons" {
		t.Errorf("Expected page-reported location, got %q", first.Location)
	}
	if first.ItemCount() != 2 {
		t.Errorf("Expected 2 items, got %d", first.ItemCount())
	}

	if !provider.closed {
		t.Error("Expected provider closed after the run")
	}
	for name, session := range provider.sessions {
		if !session.closed {
			t.Errorf("Expected session for %s closed", name)
		}
	}
}

func TestScrapeToleratesLocationFailure(t *testing.T) {
	provider := &fakeProvider{
		sessions: map[string]*fakeSession{
			"berkshire": {listErr: errors.New("control never loaded")},
			"hampshire": {
				dates: []DateOption{{Value: "11/07/2025", Label: "Friday, November 7, 2025"}},
				pages: map[string]string{"11/07/2025": renderedPage("Hampshire")},
			},
		},
	}

	s := NewScraper(provider, menu.NewParser(), []config.Location{
		testLocation("berkshire"), testLocation("hampshire"),
	})

	all, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected partial-failure run to succeed, got: %v", err)
	}

	menus, ok := all["berkshire"]
	if !ok {
		t.Fatal("Expected failed location to keep its key")
	}
	if len(menus) != 0 {
		t.Errorf("Expected empty menus for failed location, got %d", len(menus))
	}
	if len(all["hampshire"]) != 1 {
		t.Errorf("Expected healthy location scraped, got %d menus", len(all["hampshire"]))
	}
	if !provider.sessions["berkshire"].closed {
		t.Error("Expected failed location's session released")
	}
}

func TestScrapeSkipsFailingDate(t *testing.T) {
	provider := &fakeProvider{
		sessions: map[string]*fakeSession{
			"worcester": {
				dates: []DateOption{
					{Value: "11/07/2025", Label: "Friday, November 7, 2025"},
					{Value: "11/08/2025", Label: "Saturday, November 8, 2025"},
				},
				pages:     map[string]string{"11/08/2025": renderedPage("Worcester Commons")},
				renderErr: map[string]error{"11/07/2025": &DateSelectionError{Date: "11/07/2025", Err: errors.New("stale element")}},
			},
		},
	}

	s := NewScraper(provider, menu.NewParser(), []config.Location{testLocation("worcester")})

	all, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	menus := all["worcester"]
	if len(menus) != 1 {
		t.Fatalf("Expected the failing date skipped, got %d menus", len(menus))
	}
	if menus[0].Date != "Saturday, November 8, 2025" {
		t.Errorf("Expected the surviving date, got %q", menus[0].Date)
	}
}

func TestScrapeProviderStartFailureIsFatal(t *testing.T) {
	provider := &fakeProvider{
		startErr: &DependencySetupError{Err: errors.New("chrome not found")},
	}

	s := NewScraper(provider, menu.NewParser(), []config.Location{testLocation("worcester")})

	_, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("Expected fatal error when the browser cannot start")
	}

	var setupErr *DependencySetupError
	if !errors.As(err, &setupErr) {
		t.Errorf("Expected DependencySetupError, got %T: %v", err, err)
	}
}
