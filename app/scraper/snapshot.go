package scraper

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/campusdining/menu-comb/app/menu"
)

// Snapshot files hold a full scrape result as JSON: top-level keys are
// location names, each an ordered array of day menus. A snapshot can be
// replayed through the persistence loader without re-scraping.

func WriteSnapshot(path string, all menu.AllMenus) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

func ReadSnapshot(path string) (menu.AllMenus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var all menu.AllMenus
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return all, nil
}
