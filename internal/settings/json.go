package settings

import (
	"encoding/json"
	"fmt"
)

// JSONStore keeps preferences in the cube_settings.json format.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Load() (Preferences, error) {
	var prefs Preferences
	data, ok, err := readIfExists(s.path)
	if err != nil || !ok {
		return prefs, err
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return prefs, nil
}

func (s *JSONStore) Save(prefs Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(s.path, data)
}
