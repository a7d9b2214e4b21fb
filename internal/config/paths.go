package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName  = "config.toml"
	GlobalConfigDir = ".config/teams"
	DocumentsDir    = "Documents"
)

// Paths provides path resolution relative to a home directory.
type Paths struct {
	home string
}

// NewPaths creates a Paths resolver rooted at home.
func NewPaths(home string) *Paths {
	return &Paths{home: home}
}

// DefaultPaths resolves paths against the current user's home directory.
// Home is empty if it can't be determined; every path is then empty too.
func DefaultPaths() *Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Paths{}
	}
	return NewPaths(home)
}

// ConfigDir returns the directory holding config.toml.
func (p *Paths) ConfigDir() string {
	if p.home == "" {
		return ""
	}
	return filepath.Join(p.home, GlobalConfigDir)
}

// ConfigPath returns the path to the settings file.
func (p *Paths) ConfigPath() string {
	if p.home == "" {
		return ""
	}
	return filepath.Join(p.ConfigDir(), ConfigFileName)
}

// DocumentsDir returns the default location for saved images.
func (p *Paths) DocumentsDir() string {
	if p.home == "" {
		return ""
	}
	return filepath.Join(p.home, DocumentsDir)
}

// ExpandHome replaces a leading "~/" with the home directory.
func (p *Paths) ExpandHome(path string) string {
	if p.home == "" {
		return path
	}
	if path == "~" {
		return p.home
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		return filepath.Join(p.home, path[2:])
	}
	return path
}
