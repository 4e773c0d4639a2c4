package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir is the per-project directory holding config.yaml and snapshots.
const Dir = ".folio"

// Path returns the config file location for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "config.yaml")
}

// FindProjectRoot walks up from start until it finds .folio/config.yaml.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(Path(dir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s/config.yaml found (searched from %s to root)", Dir, start)
		}
		dir = parent
	}
}
