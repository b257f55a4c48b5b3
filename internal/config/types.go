package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were applied, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir        = "~/.taskpilot"
	DefaultBackend        = "file"
	DefaultSlotKey        = "taskpilot-tasks"
	DefaultSlotQuotaBytes = 5 * 1024 * 1024
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultToastSeconds   = 3
)

// Config holds the full configuration for taskpilot.
type Config struct {
	// Storage
	DataDir        string `toml:"data_dir"`
	Backend        string `toml:"backend"` // file, sqlite or memory
	SlotKey        string `toml:"slot_key"`
	SlotQuotaBytes int    `toml:"slot_quota_bytes"` // 0 disables the limit

	// Schema used to validate the saved collection; empty means the embedded one.
	SchemaFile string `toml:"schema_file"`

	// Logging configuration
	LogDir        string `toml:"log_dir"` // defaults to <data_dir>/logs
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// UI
	ToastSeconds int `toml:"toast_seconds"`
}

// ToastDuration returns how long notifications stay visible.
func (c *Config) ToastDuration() time.Duration {
	if c.ToastSeconds <= 0 {
		return DefaultToastSeconds * time.Second
	}
	return time.Duration(c.ToastSeconds) * time.Second
}
