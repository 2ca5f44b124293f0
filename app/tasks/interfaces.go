package tasks

import (
	"context"

	"github.com/campusdining/menu-comb/app/runner"
)

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application and the API to manage the
// scrape queue.
// Example usage:
//
//	scheduler := NewScheduler(scrapeRunner)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeTask(scrapeRunner, "api"))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// ScrapeRunner executes one full scrape-and-load pass.
type ScrapeRunner interface {
	Run(ctx context.Context, trigger runner.Trigger) runner.Outcome
}
