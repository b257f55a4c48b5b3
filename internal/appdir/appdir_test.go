package appdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	base := filepath.Join("home", "me", Dir)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"database", DatabasePath(base), filepath.Join(base, "taskpilot.db")},
		{"slots", SlotsPath(base), filepath.Join(base, "slots")},
		{"logs", LogsPath(base), filepath.Join(base, "logs")},
		{"config", ConfigPath(base), filepath.Join(base, "taskpilot.toml")},
		{"slot file", SlotPath(SlotsPath(base), "taskpilot-tasks"), filepath.Join(base, "slots", "taskpilot-tasks.json")},
		{"slot file sanitized", SlotPath("slots", "a/b c"), filepath.Join("slots", "a_b_c.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
