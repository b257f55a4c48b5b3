// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskpilot/taskpilot.toml or OS-specific config directory)
// 3. Project config file (taskpilot.toml or .taskpilot.toml in the working directory)
// 4. Environment variables (TASKPILOT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskpilot/taskpilot.toml (preferred)
// - Windows: %APPDATA%\taskpilot\taskpilot.toml
// - macOS: ~/Library/Application Support/taskpilot/taskpilot.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskpilot/taskpilot.toml or ~/.config/taskpilot/taskpilot.toml
//
// Project-level config locations (overrides user config):
// - ./taskpilot.toml (preferred)
// - ./.taskpilot.toml
package config
