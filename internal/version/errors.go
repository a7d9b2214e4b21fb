package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem in the settings file.
type SchemaVersionError struct {
	FilePath    string
	Found       string // What was found (e.g., "missing", "settings/2")
	Expected    string
	MinRequired string // Minimum teams version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"settings schema %s requires teams >= %s (file: %s, supports up to: %s)",
			e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf("settings have no teams_schema (file: %s)", e.FilePath)
	}
	return fmt.Sprintf(
		"settings have invalid schema: found %s, expected %s (file: %s)",
		e.Found, e.Expected, e.FilePath,
	)
}

// MissingSettingsSchema creates an error for a settings file without teams_schema.
func MissingSettingsSchema(path string) error {
	return &SchemaVersionError{
		FilePath: path,
		Found:    "missing",
		Expected: CurrentSettingsSchema(),
	}
}

// InvalidSettingsSchema creates an error for settings with an unsupported schema.
func InvalidSettingsSchema(path, found string) error {
	e := &SchemaVersionError{
		FilePath: path,
		Found:    found,
		Expected: CurrentSettingsSchema(),
	}
	// Check if it's a future version
	if v, err := ParseSettingsVersion(found); err == nil && v > CurrentSettingsVersion {
		if minVersion, ok := MinTeamsVersion[found]; ok {
			e.MinRequired = minVersion
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
