package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads dining-hall location configurations from a directory of YAML
// files, one file per location. Locations are returned in sorted filename
// order, which is the order the orchestrator scrapes them in.
type Loader struct {
	locationsDir string
}

func NewLoader(locationsDir string) *Loader {
	return &Loader{locationsDir: locationsDir}
}

// LoadAll loads every *.yml / *.yaml file in the locations directory. A
// missing directory yields an empty slice, not an error.
func (l *Loader) LoadAll() ([]Location, error) {
	if _, err := os.Stat(l.locationsDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.locationsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(l.locationsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	var locations []Location
	for _, file := range files {
		location, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(location); err != nil {
			return nil, fmt.Errorf("invalid location config %s: %w", file, err)
		}

		locations = append(locations, *location)
		slog.Debug("Location configuration loaded", "location", location.Name,
			"url", location.URL, "enabled", location.Settings.Enabled)
	}

	return locations, nil
}

// Enabled filters a loaded slice down to the locations that should be
// scraped, preserving order.
func Enabled(locations []Location) []Location {
	var enabled []Location
	for _, location := range locations {
		if location.Settings.Enabled {
			enabled = append(enabled, location)
		}
	}
	return enabled
}

func (l *Loader) loadFile(path string) (*Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var location Location
	if err := yaml.Unmarshal(data, &location); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Derive location name from filename (strip extension)
	base := filepath.Base(path)
	location.Name = strings.TrimSuffix(base, filepath.Ext(base))

	return &location, nil
}

func (l *Loader) validate(location *Location) error {
	if location.URL == "" {
		return fmt.Errorf("location URL is required")
	}
	if !strings.HasPrefix(location.URL, "http://") && !strings.HasPrefix(location.URL, "https://") {
		return fmt.Errorf("location URL must be absolute: %s", location.URL)
	}
	if location.Settings.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be non-negative")
	}
	if location.Settings.NavigationTimeout < 0 {
		return fmt.Errorf("navigation timeout must be non-negative")
	}
	return nil
}
