package config

import "flag"

// flagToField maps flag names to source field names.
var flagToField = map[string]string{
	"data-dir":   "data_dir",
	"backend":    "backend",
	"key":        "slot_key",
	"quota":      "slot_quota_bytes",
	"schema":     "schema_file",
	"log-dir":    "log_dir",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// parseFlags defines the global flags on fs and parses args. Flags are
// bound to scratch values and copied into cfg only when set explicitly, so
// an unset flag never masks a file or environment value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskpilot", flag.ContinueOnError)
	}

	dataDir := fs.String("data-dir", cfg.DataDir, "Data directory for tasks, database and logs")
	backend := fs.String("backend", cfg.Backend, "Storage backend (file|sqlite|memory)")
	key := fs.String("key", cfg.SlotKey, "Storage slot key holding the task list")
	quota := fs.Int("quota", cfg.SlotQuotaBytes, "Maximum slot size in bytes (0 = unlimited)")
	schema := fs.String("schema", cfg.SchemaFile, "JSON schema for saved tasks (default embedded)")
	logDir := fs.String("log-dir", cfg.LogDir, "Log directory (default <data-dir>/logs)")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "Log format (text, json, logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDir
		case "backend":
			cfg.Backend = *backend
		case "key":
			cfg.SlotKey = *key
		case "quota":
			cfg.SlotQuotaBytes = *quota
		case "schema":
			cfg.SchemaFile = *schema
		case "log-dir":
			cfg.LogDir = *logDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		default:
			return
		}
		if sources != nil {
			sources[flagToField[f.Name]] = SourceFlag
		}
	})

	return nil
}
