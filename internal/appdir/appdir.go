// Package appdir provides constants and utilities for the taskpilot data directory structure.
package appdir

import (
	"path/filepath"

	"github.com/nibzard/taskpilot/internal/utils"
)

const (
	// Dir is the name of the taskpilot data directory.
	Dir = ".taskpilot"

	// DefaultConfigFile is the config file name (inside the data directory,
	// or at the project root).
	DefaultConfigFile = "taskpilot.toml"

	// DefaultDatabaseFile is the sqlite database used by the sqlite backend.
	DefaultDatabaseFile = "taskpilot.db"

	// SlotsDir holds one file per slot for the file backend.
	SlotsDir = "slots"

	// LogsDir holds per-run log files.
	LogsDir = "logs"

	// SlotFileExt is the extension of slot files.
	SlotFileExt = ".json"
)

// DatabasePath returns the sqlite database path within a data directory.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DefaultDatabaseFile)
}

// SlotsPath returns the slot directory within a data directory.
func SlotsPath(dataDir string) string {
	return filepath.Join(dataDir, SlotsDir)
}

// SlotPath returns the file that holds the slot named key.
func SlotPath(slotsDir, key string) string {
	return filepath.Join(slotsDir, utils.SanitizeName(key, "slot")+SlotFileExt)
}

// LogsPath returns the log directory within a data directory.
func LogsPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDir)
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultConfigFile)
}
