package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/version"
)

// FileSettingsStore implements SettingsStore using a TOML file.
type FileSettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store for the given file.
// An empty path disables persistence: Load returns defaults, Save is a no-op.
func NewSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Path returns the settings file location.
func (s *FileSettingsStore) Path() string {
	return s.path
}

// Load reads the settings from disk.
// Returns empty settings if the file doesn't exist.
func (s *FileSettingsStore) Load() (*model.Settings, error) {
	if s.path == "" {
		return &model.Settings{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings model.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", s.path, err)
	}

	// Strict version validation (only if file exists)
	if settings.TeamsSchema == "" {
		return nil, version.MissingSettingsSchema(s.path)
	}
	if settings.TeamsSchema != version.CurrentSettingsSchema() {
		return nil, version.InvalidSettingsSchema(s.path, settings.TeamsSchema)
	}

	return &settings, nil
}

// Save writes the settings to disk, replacing the file atomically.
func (s *FileSettingsStore) Save(settings *model.Settings) error {
	// Stamp current schema version
	settings.TeamsSchema = version.CurrentSettingsSchema()

	if s.path == "" {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(settings); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// EnsureExists creates the settings file if it doesn't exist.
func (s *FileSettingsStore) EnsureExists() error {
	if s.path == "" {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.Save(&model.Settings{})
	}
	return nil
}
