// Package browser drives headless Chrome via Rod to render the date-driven
// menu pages. A single Chrome process is shared by a run; each location gets
// its own stealth page, opened through the scraper.BrowserProvider surface.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/campusdining/menu-comb/app/scraper"
)

var _ scraper.BrowserProvider = (*Driver)(nil)

// Config configures the browser driver.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless runs Chrome without a window. On by default in production.
	Headless bool

	// NoSandbox disables the Chrome sandbox, required in most containers.
	NoSandbox bool

	// UserAgent overrides the page user agent when non-empty.
	UserAgent string
}

// Driver owns the Chrome process for the duration of one scrape run.
type Driver struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func NewDriver(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance). Failures are
// reported as DependencySetupError: without a working browser the whole run
// is not possible.
func (d *Driver) Start(ctx context.Context) error {
	var wsURL string

	if d.cfg.RemoteURL != "" {
		wsURL = d.cfg.RemoteURL
		slog.Info("Connecting to remote browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(d.cfg.Headless)
		if d.cfg.NoSandbox {
			l = l.Set("no-sandbox").Set("disable-dev-shm-usage")
		}
		// Anti-detection flag.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return &scraper.DependencySetupError{Err: fmt.Errorf("launch chrome: %w", err)}
		}
		wsURL = u
		d.lnch = l
		slog.Info("Launched local browser", "headless", d.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		d.cleanup()
		return &scraper.DependencySetupError{Err: fmt.Errorf("connect to chrome: %w", err)}
	}
	d.browser = b

	return nil
}

// Close shuts down Chrome and releases launcher resources.
func (d *Driver) Close() error {
	d.cleanup()
	return nil
}

func (d *Driver) cleanup() {
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			slog.Warn("Browser close failed", "error", err)
		}
		d.browser = nil
	}
	if d.lnch != nil {
		d.lnch.Cleanup()
		d.lnch = nil
	}
}
