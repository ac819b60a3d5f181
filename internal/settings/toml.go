package settings

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// TOMLStore keeps preferences in a TOML file, for users who keep them next to config.toml.
type TOMLStore struct {
	path string
}

func NewTOMLStore(path string) *TOMLStore {
	return &TOMLStore{path: path}
}

func (s *TOMLStore) Path() string {
	return s.path
}

func (s *TOMLStore) Load() (Preferences, error) {
	var prefs Preferences
	data, ok, err := readIfExists(s.path)
	if err != nil || !ok {
		return prefs, err
	}
	if _, err := toml.Decode(string(data), &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return prefs, nil
}

func (s *TOMLStore) Save(prefs Preferences) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prefs); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return writeFile(s.path, buf.Bytes())
}
