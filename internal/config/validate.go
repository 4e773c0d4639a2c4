package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

const (
	defaultContentDir  = "content"
	defaultLinkPrefix  = "#/"
	defaultMaxInterval = 60
	maxDefaultWorkers  = 8
)

var validLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validFormats = map[string]bool{
	"":     true,
	"text": true,
	"json": true,
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("config: 'name' is required")
	}
	if !nameRe.MatchString(cfg.Name) {
		return fmt.Errorf("config: name %q must match [A-Za-z0-9][A-Za-z0-9_.-]*", cfg.Name)
	}

	if cfg.ContentDir == "" {
		cfg.ContentDir = defaultContentDir
	}
	if strings.TrimSpace(cfg.ContentDir) != cfg.ContentDir {
		return fmt.Errorf("config: 'content-dir' must not have surrounding whitespace")
	}

	for _, pattern := range cfg.Ignore {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("config: 'ignore' entries must be non-empty")
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("config: ignore pattern %q: %w", pattern, err)
		}
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0")
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
		if cfg.Workers > maxDefaultWorkers {
			cfg.Workers = maxDefaultWorkers
		}
	}

	if cfg.Links.Prefix == "" {
		cfg.Links.Prefix = defaultLinkPrefix
	}

	if cfg.Watch.MaxInterval < 0 {
		return fmt.Errorf("config: watch.max-interval must be >= 0")
	}
	if cfg.Watch.MaxInterval == 0 {
		cfg.Watch.MaxInterval = defaultMaxInterval
	}

	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("config: unknown log level %q (must be debug, info, warn, or error)", cfg.Log.Level)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if !validFormats[cfg.Log.Format] {
		return fmt.Errorf("config: unknown log format %q (must be text or json)", cfg.Log.Format)
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Snapshot != "" && filepath.Clean(cfg.Snapshot) == filepath.Clean(cfg.ContentDir) {
		return fmt.Errorf("config: snapshot path must not be the content directory")
	}

	return nil
}
