package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./menu-comb.db" description:"Path to the SQLite database file"`

	// Application configuration
	LocationsDir   string `long:"locations-dir" env:"LOCATIONS_DIR" default:"./locations" description:"Directory containing dining-hall location configuration files"`
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the manual scrape endpoint (optional)"`
	ScrapeInterval int    `long:"scrape-interval" env:"SCRAPE_INTERVAL" default:"168" description:"Hours between scheduled scrape runs (default: weekly)"`
	TimeBudget     int    `long:"time-budget" env:"TIME_BUDGET" default:"840" description:"Advisory per-run time budget in seconds (logged, not enforced)"`

	// Browser configuration
	BrowserURL string `long:"browser-url" env:"BROWSER_URL" description:"WebSocket URL of an external Chrome instance (empty launches a local one)"`
	Headful    bool   `long:"headful" env:"HEADFUL" description:"Run the browser with a visible window instead of headless"`
	Sandbox    bool   `long:"sandbox" env:"BROWSER_SANDBOX" description:"Keep the Chrome sandbox enabled (disabled by default for containers)"`

	// Snapshot configuration
	SnapshotFile string `long:"snapshot-file" env:"SNAPSHOT_FILE" description:"Write scraped menus to this JSON file after each run (optional)"`

	// One-shot modes
	RunOnce    bool   `long:"run-once" env:"RUN_ONCE" description:"Scrape and load once, then exit without starting the server"`
	ReplayFile string `long:"replay" env:"REPLAY_FILE" description:"Load menus from a snapshot file instead of scraping, then exit"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Menu Comb/1.0" description:"User agent string for page loads"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		LocationsDir:   raw.LocationsDir,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		ScrapeInterval: raw.ScrapeInterval,
		TimeBudget:     raw.TimeBudget,
		BrowserURL:     raw.BrowserURL,
		Headless:       !raw.Headful,
		NoSandbox:      !raw.Sandbox,
		SnapshotFile:   raw.SnapshotFile,
		RunOnce:        raw.RunOnce,
		ReplayFile:     raw.ReplayFile,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
