// Package settings remembers the inputs of the last run between invocations.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cubeproc/internal/logger"
)

// DefaultFileName is created next to the executable when no path is configured.
const DefaultFileName = "cube_settings.json"

// Preferences are the last-used run inputs. The office format file is
// deliberately absent: it is chosen anew for every run.
type Preferences struct {
	GradeFiles   []string `json:"grade_files" toml:"grade_files"`
	OutputFolder string   `json:"output_path" toml:"output_path"`
	CalendarFile string   `json:"calendar_path" toml:"calendar_path"`
}

// IsZero reports whether nothing has been remembered yet.
func (p Preferences) IsZero() bool {
	return len(p.GradeFiles) == 0 && p.OutputFolder == "" && p.CalendarFile == ""
}

// Store loads and saves Preferences. A store whose file does not exist yet
// loads empty preferences without error.
type Store interface {
	Load() (Preferences, error)
	Save(Preferences) error
	Path() string
}

// Open returns the store for backend ("json" or "toml") at path. An empty
// path selects DefaultPath, with the extension matching the backend.
func Open(backend, path string) (Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if path == "" {
		path = DefaultPath()
		if backend == "toml" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".toml"
		}
	}

	switch backend {
	case "", "json":
		return &JSONStore{path: path}, nil
	case "toml":
		return &TOMLStore{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}

// DefaultPath places DefaultFileName beside the running executable, falling
// back to the working directory.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		logger.Warn("Cannot locate executable, storing settings in working directory", "error", err)
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

func readIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	return data, true, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	logger.Debug("Saved settings", "path", path)
	return nil
}
