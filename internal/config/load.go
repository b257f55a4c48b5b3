package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskpilot/internal/appdir"
	"github.com/nibzard/taskpilot/internal/storage"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskpilot/taskpilot.toml or OS-specific config dir)
// 3. Project config file (taskpilot.toml or .taskpilot.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
// Names match the TOML keys.
func configFields() []string {
	return []string{
		"data_dir",
		"backend",
		"slot_key",
		"slot_quota_bytes",
		"schema_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"toast_seconds",
	}
}

// loadConfigFile decodes the TOML file at path over cfg. Keys absent from
// the file keep their current values. When sources is non-nil, every key
// the file defines is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	var err error
	if cfg.DataDir, err = resolvePath("data_dir", cfg.DataDir); err != nil {
		return err
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}

	if cfg.LogDir, err = resolvePath("log_dir", cfg.LogDir); err != nil {
		return err
	}
	if cfg.LogDir == "" {
		cfg.LogDir = appdir.LogsPath(cfg.DataDir)
	}

	if cfg.SchemaFile, err = resolvePath("schema_file", cfg.SchemaFile); err != nil {
		return err
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if !storage.ValidBackend(cfg.Backend) {
		return fmt.Errorf("invalid backend %q (expected %s)", cfg.Backend, strings.Join(storage.Backends(), "|"))
	}

	cfg.SlotKey = strings.TrimSpace(cfg.SlotKey)
	if cfg.SlotKey == "" {
		cfg.SlotKey = DefaultSlotKey
	}
	if cfg.SlotQuotaBytes < 0 {
		return fmt.Errorf("slot_quota_bytes must not be negative, got %d", cfg.SlotQuotaBytes)
	}
	if cfg.ToastSeconds < 0 {
		return fmt.Errorf("toast_seconds must not be negative, got %d", cfg.ToastSeconds)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	return nil
}
