package model

// Settings represents the user's teams configuration.
// Stored at ~/.config/teams/config.toml
// Schema changes require a version bump—see internal/version/version.go.
type Settings struct {
	TeamsSchema string   `toml:"teams_schema"`
	Language    string   `toml:"language,omitempty"`     // "en", "lv" or "ru"
	ExportDir   string   `toml:"export_dir,omitempty"`   // Where saved images go, "~/" allowed
	Palette     []string `toml:"palette,omitempty"`      // Master palette override
	InitialSize int      `toml:"initial_size,omitempty"` // Palette size of a fresh session
	Editor      string   `toml:"editor,omitempty"`       // Used by "sort --editor", falls back to $VISUAL/$EDITOR
}

// HasCustomPalette returns true if the master palette is overridden.
func (s *Settings) HasCustomPalette() bool {
	return len(s.Palette) > 0
}
