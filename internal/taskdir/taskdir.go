// Package taskdir provides constants and utilities for the .tasklist directory structure.
package taskdir

import "path/filepath"

const (
	// Dir is the name of the tasklist state directory.
	Dir = ".tasklist"

	// ConfigFile is the config file name, both inside Dir and in a project root.
	ConfigFile = "tasklist.toml"

	// HiddenConfigFile is the alternate project config file name.
	HiddenConfigFile = ".tasklist.toml"

	// SoundsDir holds cue assets inside the data directory.
	SoundsDir = "sounds"

	// LogsDir holds TUI diagnostic logs inside the data directory.
	LogsDir = "logs"

	// DefaultKey is the storage key the task list is persisted under.
	DefaultKey = "tasks"
)

// DataDir returns the .tasklist directory within a home directory.
func DataDir(home string) string {
	if home == "" || home == "." {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the user config file path within a home directory.
func ConfigPath(home string) string {
	return filepath.Join(DataDir(home), ConfigFile)
}

// SoundPath resolves a cue asset against the data directory. Absolute
// asset paths are returned unchanged.
func SoundPath(dataDir, asset string) string {
	if asset == "" || filepath.IsAbs(asset) {
		return asset
	}
	return filepath.Join(dataDir, SoundsDir, asset)
}

// LogPath returns the default log directory within a data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDir)
}
