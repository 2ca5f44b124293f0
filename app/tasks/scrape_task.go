package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusdining/menu-comb/app/runner"
)

// ScrapeTask runs one scrape-and-load pass through the runner. A scrape
// is never retried by the scheduler: the next interval tick covers it,
// and re-running a half-finished pass is safe but expensive.
type ScrapeTask struct {
	Task
	runner ScrapeRunner
	source string
}

func NewScrapeTask(scrapeRunner ScrapeRunner, source string) *ScrapeTask {
	return &ScrapeTask{
		Task:   NewTask(TaskTypeScrape),
		runner: scrapeRunner,
		source: source,
	}
}

func (t *ScrapeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	outcome := t.runner.Run(ctx, runner.Trigger{ID: t.ID, Source: t.source})

	if outcome.Status == runner.StatusError {
		return fmt.Errorf("scrape run failed (%s): %s", outcome.ErrorKind, outcome.Error)
	}

	slog.Info("Task completed",
		"type", "Scrape",
		"source", t.source,
		"duration", t.GetDuration(),
		"items_loaded", outcome.ItemsLoaded,
		"locations_scraped", outcome.LocationsScraped)

	return nil
}
