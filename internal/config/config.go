package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Links struct {
	Prefix string `yaml:"prefix"`
}

type Watch struct {
	MaxInterval int `yaml:"max-interval"` // seconds
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Name       string   `yaml:"name"`
	ContentDir string   `yaml:"content-dir"`
	Ignore     []string `yaml:"ignore"`
	Workers    int      `yaml:"workers"`
	Parallel   bool     `yaml:"parallel"`
	Strict     bool     `yaml:"strict"`
	Links      Links    `yaml:"links"`
	Snapshot   string   `yaml:"snapshot"`
	Watch      Watch    `yaml:"watch"`
	Log        Log      `yaml:"log"`

	// Root is the project root the config was loaded for. Relative paths
	// in the file are resolved against it.
	Root string `yaml:"-"`
}

// Load reads a YAML config file and returns a validated Config.
func Load(path, projectRoot string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Root = projectRoot
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ContentPath returns the absolute content directory.
func (c *Config) ContentPath() string {
	return c.abs(c.ContentDir)
}

// SnapshotPath returns the absolute snapshot path, or "" if snapshots are
// disabled.
func (c *Config) SnapshotPath() string {
	if c.Snapshot == "" {
		return ""
	}
	return c.abs(c.Snapshot)
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
