// Where: internal/infra/config/discover.go
// What: Project root discovery.
// Why: Commands run from nested directories should still find .eventsrc/config.yaml.
package config

import (
	"os"
	"path/filepath"
)

// FindProjectRoot walks upward from startDir looking for a directory that
// contains .eventsrc. It returns startDir itself when none is found.
func FindProjectRoot(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}
	for {
		if isProjectRoot(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if abs, err := filepath.Abs(startDir); err == nil {
		return abs
	}
	return startDir
}

func isProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".eventsrc"))
	return err == nil && info.IsDir()
}
