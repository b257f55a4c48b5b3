package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envBinding maps an environment variable to a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, v string) error
}

func envBindings() []envBinding {
	str := func(target func(*Config) *string) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			*target(cfg) = v
			return nil
		}
	}
	num := func(target func(*Config) *int) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*target(cfg) = i
			return nil
		}
	}
	boolean := func(target func(*Config) *bool) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			*target(cfg) = boolFromString(v)
			return nil
		}
	}

	return []envBinding{
		{"TASKPILOT_DATA_DIR", "data_dir", str(func(c *Config) *string { return &c.DataDir })},
		{"TASKPILOT_BACKEND", "backend", str(func(c *Config) *string { return &c.Backend })},
		{"TASKPILOT_SLOT_KEY", "slot_key", str(func(c *Config) *string { return &c.SlotKey })},
		{"TASKPILOT_SLOT_QUOTA", "slot_quota_bytes", num(func(c *Config) *int { return &c.SlotQuotaBytes })},
		{"TASKPILOT_SCHEMA", "schema_file", str(func(c *Config) *string { return &c.SchemaFile })},
		{"TASKPILOT_LOG_DIR", "log_dir", str(func(c *Config) *string { return &c.LogDir })},
		{"TASKPILOT_LOG_LEVEL", "log_level", str(func(c *Config) *string { return &c.LogLevel })},
		{"TASKPILOT_LOG_FORMAT", "log_format", str(func(c *Config) *string { return &c.LogFormat })},
		{"TASKPILOT_LOG_TIMESTAMPS", "log_timestamps", boolean(func(c *Config) *bool { return &c.LogTimestamps })},
		{"TASKPILOT_LOG_CALLER", "log_caller", boolean(func(c *Config) *bool { return &c.LogCaller })},
		{"TASKPILOT_TOAST_SECONDS", "toast_seconds", num(func(c *Config) *int { return &c.ToastSeconds })},
	}
}

// loadFromEnv overrides config from environment variables. Empty variables
// are ignored. If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, b := range envBindings() {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
