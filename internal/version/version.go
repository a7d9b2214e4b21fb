package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema version of the settings file - bump when making breaking changes.
//
// CHECKLIST when bumping:
//  1. Update the constant below
//  2. Add entry to MinTeamsVersion (tested by TestMinTeamsVersionCompleteness)
//  3. Teach store.FileSettingsStore to read the previous version
const CurrentSettingsVersion = 1

// SettingsSchemaPrefix prefixes the teams_schema value in config.toml.
const SettingsSchemaPrefix = "settings/"

// MinTeamsVersion maps schema identifiers to the minimum teams version required.
// Used to provide helpful upgrade messages when encountering newer schemas.
var MinTeamsVersion = map[string]string{
	"settings/1": "0.1.0",
}

// FormatSettingsSchema creates a settings schema string from a version number.
// Example: FormatSettingsSchema(1) returns "settings/1"
func FormatSettingsSchema(v int) string {
	return fmt.Sprintf("%s%d", SettingsSchemaPrefix, v)
}

// ParseSettingsVersion extracts the version number from a settings schema string.
func ParseSettingsVersion(schema string) (int, error) {
	if !strings.HasPrefix(schema, SettingsSchemaPrefix) {
		return 0, fmt.Errorf("invalid settings schema format: %q (expected %sN)", schema, SettingsSchemaPrefix)
	}
	versionStr := strings.TrimPrefix(schema, SettingsSchemaPrefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid settings schema version: %q", versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid settings schema version: %d (must be >= 1)", v)
	}
	return v, nil
}

// CurrentSettingsSchema returns the current settings schema string.
func CurrentSettingsSchema() string {
	return FormatSettingsSchema(CurrentSettingsVersion)
}
