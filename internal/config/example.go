package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# TaskPilot configuration file
# Values can be overridden by TASKPILOT_* environment variables or CLI flags

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.taskpilot"

# Storage backend: file (one JSON file per slot), sqlite, or memory
backend = "file"

# Slot holding the task list
slot_key = "taskpilot-tasks"

# Maximum size of the saved task list in bytes (0 = unlimited)
slot_quota_bytes = 5242880

# JSON schema used to validate saved tasks (default: embedded schema)
# schema_file = "~/.taskpilot/tasks.schema.json"

# Log directory (default: <data_dir>/logs)
# log_dir = "~/.taskpilot/logs"

# Logging
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false

# Seconds a notification stays visible in the terminal UI
toast_seconds = 3
`
}
