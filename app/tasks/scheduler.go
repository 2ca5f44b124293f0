package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campusdining/menu-comb/app/cfg"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Hard cap on a single task. A scrape drives a real browser across every
// location and date, so this sits well above the advisory time budget.
const taskTimeout = 30 * time.Minute

// Scheduler runs scrape tasks on a fixed interval with a single worker.
// One browser-driven pass at a time: queued triggers wait rather than
// racing a second browser against the first.
type Scheduler struct {
	runner    ScrapeRunner
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(scrapeRunner ScrapeRunner) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		runner:    scrapeRunner,
		interval:  time.Duration(cfg.ScrapeInterval) * time.Hour,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 10),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueScrape("startup")

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueScrape("scheduler")
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueScrape(source string) {
	task := NewScrapeTask(s.runner, source)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue ScrapeTask", "source", source, "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()),
			"id", task.GetID(), "duration", task.GetDuration(), "error", err)
	}
}
