// Package mapping maintains the grade alias table: which template marker a
// source grade label should be matched against when the two are spelled
// differently.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cubeproc/internal/grade"
)

// AliasMapping maps one source grade label to a template marker label.
type AliasMapping struct {
	GradeLabel  string `json:"grade_label"`
	MarkerLabel string `json:"marker_label"`
	IsIgnored   bool   `json:"is_ignored"`
}

// AliasConfig holds all grade aliases
type AliasConfig struct {
	Aliases []AliasMapping `json:"aliases"`
}

// SaveToFile saves the alias table to a JSON file, sorted by grade label.
func (ac *AliasConfig) SaveToFile(path string) error {
	sort.SliceStable(ac.Aliases, func(i, j int) bool {
		return grade.Normalize(ac.Aliases[i].GradeLabel) < grade.Normalize(ac.Aliases[j].GradeLabel)
	})

	data, err := json.MarshalIndent(ac, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create alias directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads an alias table from a JSON file
func LoadFromFile(path string) (*AliasConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config AliasConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}
	return &config, nil
}

// LoadOrEmpty is LoadFromFile, except that a missing file (or an empty path)
// yields an empty table.
func LoadOrEmpty(path string) (*AliasConfig, error) {
	if path == "" {
		return &AliasConfig{}, nil
	}
	config, err := LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &AliasConfig{}, nil
	}
	return config, err
}

// Set maps label to marker, replacing any earlier entry for label.
func (ac *AliasConfig) Set(label, marker string) {
	ac.put(AliasMapping{GradeLabel: label, MarkerLabel: marker})
}

// Ignore marks label so its grade files are skipped.
func (ac *AliasConfig) Ignore(label string) {
	ac.put(AliasMapping{GradeLabel: label, IsIgnored: true})
}

// Remove drops any entry for label.
func (ac *AliasConfig) Remove(label string) {
	key := grade.Normalize(label)
	kept := ac.Aliases[:0]
	for _, a := range ac.Aliases {
		if grade.Normalize(a.GradeLabel) != key {
			kept = append(kept, a)
		}
	}
	ac.Aliases = kept
}

func (ac *AliasConfig) put(m AliasMapping) {
	ac.Remove(m.GradeLabel)
	ac.Aliases = append(ac.Aliases, m)
}

// Lookup returns the entry for label, if any.
func (ac *AliasConfig) Lookup(label string) (AliasMapping, bool) {
	key := grade.Normalize(label)
	for _, a := range ac.Aliases {
		if grade.Normalize(a.GradeLabel) == key {
			return a, true
		}
	}
	return AliasMapping{}, false
}

// Table converts the config into the lookup table a run uses. Entries with
// neither a marker nor the ignore flag are skipped.
func (ac *AliasConfig) Table() grade.Aliases {
	table := make(grade.Aliases, len(ac.Aliases))
	for _, a := range ac.Aliases {
		switch {
		case a.IsIgnored:
			table.Set(a.GradeLabel, "")
		case a.MarkerLabel != "":
			table.Set(a.GradeLabel, a.MarkerLabel)
		}
	}
	return table
}

// Merge adds suggestions for labels that have no entry yet and returns how
// many were added. Existing entries, including ignored ones, win.
func (ac *AliasConfig) Merge(suggestions []Suggestion) int {
	added := 0
	for _, s := range suggestions {
		if _, exists := ac.Lookup(s.GradeLabel); exists {
			continue
		}
		ac.Set(s.GradeLabel, s.MarkerLabel)
		added++
	}
	return added
}

// GradeLabels extracts the grade label of every file, keeping the first
// spelling of each normalized label.
func GradeLabels(files []string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, f := range files {
		label := grade.Extract(f)
		key := grade.Normalize(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, label)
	}
	return labels
}

// Unmatched returns the labels that match no marker directly and are not
// covered by an alias table entry.
func Unmatched(labels, markers []string, aliases grade.Aliases) []string {
	known := make(map[string]bool, len(markers))
	for _, m := range markers {
		known[grade.Normalize(m)] = true
	}

	var out []string
	for _, label := range labels {
		if known[grade.Normalize(label)] {
			continue
		}
		if _, res := aliases.Resolve(label); res != grade.Unchanged {
			continue
		}
		out = append(out, label)
	}
	return out
}
