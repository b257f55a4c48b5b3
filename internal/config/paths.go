package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath turns a configured path into an absolute one. $VAR and
// ${VAR} are expanded, then a leading ~ becomes the home directory. An
// empty value stays empty.
func resolvePath(field, raw string) (string, error) {
	p := os.ExpandEnv(strings.TrimSpace(raw))
	if p == "" {
		return "", nil
	}

	if rest, ok := cutHome(p); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", field, err)
		}
		p = filepath.Join(home, rest)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", field, err)
	}
	return abs, nil
}

// cutHome reports whether p starts with ~ and returns the remainder.
func cutHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if strings.HasPrefix(p, "~/") {
		return p[2:], true
	}
	if runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`) {
		return p[2:], true
	}
	return "", false
}
