package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/scraper"
)

// dateControlSelector is the menu page's date dropdown. The page re-renders
// the menu client-side when its value changes.
const dateControlSelector = "#upcoming-foodpro"

// selectDateJS sets the dropdown value and fires a change event so the
// page's own handler re-renders the menu for the selected date.
const selectDateJS = `(value) => {
	const control = document.querySelector('#upcoming-foodpro');
	control.value = value;
	control.dispatchEvent(new Event('change', { bubbles: true }));
}`

const navigateTimeout = 30 * time.Second

var _ scraper.Session = (*Session)(nil)

// Session is one location's live page. It stays on the location's base URL;
// dates are switched in place through the dropdown.
type Session struct {
	page        *rod.Page
	location    string
	settleDelay time.Duration
}

// Open creates a stealth page, navigates to the location's menu URL and
// waits (bounded) for the date-selection control to appear. When the
// control never shows up the location is not scrapeable and the caller gets
// a NavigationTimeoutError.
func (d *Driver) Open(ctx context.Context, location config.Location) (scraper.Session, error) {
	if d.browser == nil {
		return nil, &scraper.DependencySetupError{Err: fmt.Errorf("browser not started")}
	}

	page, err := stealth.Page(d.browser)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if d.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: d.cfg.UserAgent}); err != nil {
			slog.Warn("User agent override failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(location.URL); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigate %s: %w", location.URL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		slog.Warn("Page load wait timed out", "url", location.URL, "error", err)
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, location.Settings.GetNavigationTimeout())
	defer cancelWait()

	if _, err := page.Context(waitCtx).Element(dateControlSelector); err != nil {
		page.Close()
		return nil, &scraper.NavigationTimeoutError{Location: location.Name, Err: err}
	}

	return &Session{
		page:        page,
		location:    location.Name,
		settleDelay: location.Settings.GetSettleDelay(),
	}, nil
}

// ListDates reads the dropdown options as (value, label) pairs in DOM order.
func (s *Session) ListDates(ctx context.Context) ([]scraper.DateOption, error) {
	options, err := s.page.Context(ctx).Elements(dateControlSelector + " option")
	if err != nil {
		return nil, fmt.Errorf("read date options: %w", err)
	}

	dates := make([]scraper.DateOption, 0, len(options))
	for _, option := range options {
		value, err := option.Attribute("value")
		if err != nil {
			return nil, fmt.Errorf("read option value: %w", err)
		}
		label, err := option.Text()
		if err != nil {
			return nil, fmt.Errorf("read option label: %w", err)
		}

		date := scraper.DateOption{Label: strings.TrimSpace(label)}
		if value != nil {
			date.Value = *value
		}
		dates = append(dates, date)
	}

	slog.Debug("Date options read", "location", s.location, "count", len(dates))
	return dates, nil
}

// RenderForDate selects the given date value, waits the settle delay for
// the client-side re-render and returns the full page markup.
func (s *Session) RenderForDate(ctx context.Context, value string) (string, error) {
	if _, err := s.page.Context(ctx).Eval(selectDateJS, value); err != nil {
		return "", &scraper.DateSelectionError{Date: value, Err: err}
	}

	// The page gives no reliable completion signal; a fixed settle delay
	// is what keeps re-renders from being captured half-done.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.settleDelay):
	}

	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", &scraper.DateSelectionError{Date: value, Err: err}
	}
	return res.Value.Str(), nil
}

// Close releases the page. Safe to call on every exit path.
func (s *Session) Close() error {
	if s.page != nil {
		return s.page.Close()
	}
	return nil
}
