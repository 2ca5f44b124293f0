package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusdining/menu-comb/app/api"
	"github.com/campusdining/menu-comb/app/browser"
	"github.com/campusdining/menu-comb/app/cfg"
	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/database"
	"github.com/campusdining/menu-comb/app/loader"
	"github.com/campusdining/menu-comb/app/menu"
	"github.com/campusdining/menu-comb/app/runner"
	"github.com/campusdining/menu-comb/app/scraper"
	"github.com/campusdining/menu-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Menu Comb", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	itemRepo := database.NewFoodItemRepository(db)
	menuLoader := loader.NewLoader(itemRepo)

	if appCfg.ReplayFile != "" {
		os.Exit(replaySnapshot(appCfg.ReplayFile, menuLoader))
	}

	configLoader := config.NewLoader(appCfg.LocationsDir)
	locations, err := configLoader.LoadAll()
	if err != nil {
		slog.Error("Failed to load location configurations", "dir", appCfg.LocationsDir, "error", err)
		os.Exit(1)
	}
	enabled := config.Enabled(locations)
	slog.Info("Loaded location configurations", "total", len(locations), "enabled", len(enabled))

	driver := browser.NewDriver(browser.Config{
		RemoteURL: appCfg.BrowserURL,
		Headless:  appCfg.Headless,
		NoSandbox: appCfg.NoSandbox,
		UserAgent: appCfg.UserAgent,
	})

	menuScraper := scraper.NewScraper(driver, menu.NewParser(), enabled)
	scrapeRunner := runner.NewRunner(menuScraper, menuLoader,
		time.Duration(appCfg.TimeBudget)*time.Second, appCfg.SnapshotFile)

	if appCfg.RunOnce {
		os.Exit(runOnce(scrapeRunner))
	}

	scheduler := tasks.NewScheduler(scrapeRunner)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "interval_hours", appCfg.ScrapeInterval)

	apiHandler := api.NewHandler(itemRepo, locations, scheduler, scrapeRunner)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// runOnce executes a single scrape-and-load pass and maps the outcome to an
// exit code.
func runOnce(scrapeRunner *runner.Runner) int {
	outcome := scrapeRunner.Run(context.Background(), runner.Trigger{
		ID:     fmt.Sprintf("cli-%d", time.Now().Unix()),
		Source: "cli",
	})

	if outcome.Status != runner.StatusSuccess {
		slog.Error("Run failed", "error_kind", outcome.ErrorKind, "error", outcome.Error)
		return 1
	}

	slog.Info("Run complete", "items_loaded", outcome.ItemsLoaded,
		"locations_scraped", outcome.LocationsScraped,
		"elapsed_seconds", outcome.ElapsedSeconds)
	return 0
}

// replaySnapshot loads a previously written snapshot file through the
// persistence loader without touching a browser.
func replaySnapshot(path string, menuLoader *loader.Loader) int {
	all, err := scraper.ReadSnapshot(path)
	if err != nil {
		slog.Error("Failed to read snapshot", "path", path, "error", err)
		return 1
	}

	loaded := menuLoader.Run(context.Background(), all)
	slog.Info("Replay complete", "path", path, "locations", len(all), "items_loaded", loaded)
	return 0
}
