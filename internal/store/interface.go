package store

import "github.com/amterp/teams/internal/model"

// SettingsStore handles settings persistence.
type SettingsStore interface {
	Load() (*model.Settings, error)
	Save(settings *model.Settings) error
	EnsureExists() error
	Path() string
}
