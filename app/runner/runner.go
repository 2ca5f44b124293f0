// Package runner wraps one full scrape-and-load pass in a structured
// outcome record. Partial location failures are absorbed upstream; the
// runner only fails an invocation outright when the whole pass cannot
// produce anything, and it classifies that failure for the caller.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusdining/menu-comb/app/menu"
	"github.com/campusdining/menu-comb/app/scraper"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// Error kinds classify failed invocations for the outcome record.
	ErrorKindConfiguration   = "configuration"
	ErrorKindDependencySetup = "dependency_setup"
	ErrorKindInternal        = "internal"
)

// Trigger identifies what started an invocation: the scheduler, an API
// call, or a one-shot command-line run.
type Trigger struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// Outcome is the structured record of one invocation. ErrorKind and Error
// are empty on success; ItemsLoaded and LocationsScraped are zero on
// failure.
type Outcome struct {
	Status           string  `json:"status"`
	Message          string  `json:"message"`
	ErrorKind        string  `json:"error_kind,omitempty"`
	Error            string  `json:"error,omitempty"`
	ItemsLoaded      int     `json:"items_loaded"`
	LocationsScraped int     `json:"locations_scraped"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	Timestamp        string  `json:"timestamp"`
	TriggerID        string  `json:"trigger_id,omitempty"`
}

// MenuScraper produces menus for every enabled location.
type MenuScraper interface {
	Run(ctx context.Context) (menu.AllMenus, error)
	LocationCount() int
}

// MenuLoader persists a scrape result and reports how many records went in.
type MenuLoader interface {
	Run(ctx context.Context, all menu.AllMenus) int
}

// SnapshotWriter persists a scrape result to a file for later replay.
type SnapshotWriter func(path string, all menu.AllMenus) error

type Runner struct {
	scraper      MenuScraper
	loader       MenuLoader
	timeBudget   time.Duration
	snapshotFile string
	writeFile    SnapshotWriter
}

func NewRunner(menuScraper MenuScraper, menuLoader MenuLoader, timeBudget time.Duration, snapshotFile string) *Runner {
	return &Runner{
		scraper:      menuScraper,
		loader:       menuLoader,
		timeBudget:   timeBudget,
		snapshotFile: snapshotFile,
		writeFile:    scraper.WriteSnapshot,
	}
}

// Run executes one scrape-and-load pass and always returns a populated
// Outcome, even when the pass fails. The time budget is advisory: an
// overrun is logged on the way out, never enforced mid-flight.
func (r *Runner) Run(ctx context.Context, trigger Trigger) Outcome {
	start := time.Now()

	slog.Info("Starting scrape run", "trigger_id", trigger.ID, "source", trigger.Source,
		"locations", r.scraper.LocationCount())

	if r.scraper.LocationCount() == 0 {
		return r.failure(trigger, start, ErrorKindConfiguration,
			errors.New("no enabled locations configured"))
	}

	all, err := r.scraper.Run(ctx)
	if err != nil {
		return r.failure(trigger, start, classify(err), err)
	}

	if r.snapshotFile != "" {
		if err := r.writeFile(r.snapshotFile, all); err != nil {
			slog.Warn("Failed to write snapshot", "path", r.snapshotFile, "error", err)
		}
	}

	loaded := r.loader.Run(ctx, all)
	elapsed := time.Since(start)

	if r.timeBudget > 0 && elapsed > r.timeBudget {
		slog.Warn("Run exceeded time budget", "elapsed", elapsed, "budget", r.timeBudget)
	}

	outcome := Outcome{
		Status:           StatusSuccess,
		Message:          fmt.Sprintf("Loaded %d items from %d dining locations", loaded, len(all)),
		ItemsLoaded:      loaded,
		LocationsScraped: len(all),
		ElapsedSeconds:   elapsed.Seconds(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		TriggerID:        trigger.ID,
	}

	slog.Info("Scrape run finished", "items_loaded", outcome.ItemsLoaded,
		"locations_scraped", outcome.LocationsScraped, "elapsed", elapsed)

	return outcome
}

func (r *Runner) failure(trigger Trigger, start time.Time, kind string, err error) Outcome {
	elapsed := time.Since(start)

	slog.Error("Scrape run failed", "error_kind", kind, "error", err, "elapsed", elapsed)

	return Outcome{
		Status:         StatusError,
		Message:        "Scrape run failed",
		ErrorKind:      kind,
		Error:          err.Error(),
		ElapsedSeconds: elapsed.Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		TriggerID:      trigger.ID,
	}
}

func classify(err error) string {
	var setupErr *scraper.DependencySetupError
	if errors.As(err, &setupErr) {
		return ErrorKindDependencySetup
	}
	return ErrorKindInternal
}
