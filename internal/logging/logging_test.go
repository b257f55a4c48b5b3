// Package logging provides tests for run logs, tail output and loggers.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewRunLogger(t *testing.T) {
	t.Run("creates nested dir and file", func(t *testing.T) {
		logDir := filepath.Join(t.TempDir(), "logs", "nested")

		logger, err := NewRunLogger(logDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if filepath.Dir(logger.LogPath) != logDir {
			t.Errorf("LogPath %q not inside %q", logger.LogPath, logDir)
		}
		if !strings.HasSuffix(logger.LogPath, LogExt) {
			t.Errorf("LogPath %q missing %s suffix", logger.LogPath, LogExt)
		}

		fmt.Fprintln(logger.Writer(), "hello")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		data, err := os.ReadFile(logger.LogPath)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if string(data) != "hello\n" {
			t.Errorf("log contents = %q", data)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("")
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("nil close", func(t *testing.T) {
		var r *RunLogger
		if err := r.Close(); err != nil {
			t.Errorf("nil Close returned %v", err)
		}
	})
}

// writeLogs creates run logs with increasing mod times, oldest first.
func writeLogs(t *testing.T, dir string, names ...string) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindLogRuns(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "20240101-000000-1.log", "20240102-000000-2.log", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub.log"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := FindLogRuns(dir)
	if err != nil {
		t.Fatalf("FindLogRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "20240102-000000-2" || runs[1].RunID != "20240101-000000-1" {
		t.Errorf("order = %s, %s; want newest first", runs[0].RunID, runs[1].RunID)
	}

	latest, err := FindLatestLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(latest) != "20240102-000000-2.log" {
		t.Errorf("FindLatestLog = %q", latest)
	}

	t.Run("missing dir", func(t *testing.T) {
		latest, err := FindLatestLog(filepath.Join(dir, "absent"))
		if err != nil || latest != "" {
			t.Errorf("FindLatestLog(absent) = %q, %v", latest, err)
		}
	})
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "a.log", "b.log", "c.log", "d.log")

	removed, err := PruneLogs(dir, 2)
	if err != nil {
		t.Fatalf("PruneLogs: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	runs, _ := FindLogRuns(dir)
	if len(runs) != 2 || runs[0].RunID != "d" || runs[1].RunID != "c" {
		t.Errorf("remaining runs = %+v", runs)
	}

	if removed, _ := PruneLogs(dir, 0); removed != 0 {
		t.Errorf("keep=0 removed %d", removed)
	}
	if removed, _ := PruneLogs(dir, 10); removed != 0 {
		t.Errorf("keep beyond count removed %d", removed)
	}
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")

	var lines []string
	for i := 1; i <= 2000; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"last three", 3, "line 1998\nline 1999\nline 2000\n"},
		{"one", 1, "line 2000\n"},
		{"more than file", 5000, strings.Join(lines, "\n") + "\n"},
		{"all", 0, strings.Join(lines, "\n") + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
				t.Fatalf("TailLog: %v", err)
			}
			if buf.String() != tt.want {
				got := buf.String()
				if len(got) > 60 {
					got = got[:60] + "..."
				}
				t.Errorf("TailLog(n=%d) = %q", tt.n, got)
			}
		})
	}

	t.Run("no trailing newline", func(t *testing.T) {
		p := filepath.Join(dir, "partial.log")
		os.WriteFile(p, []byte("a\nb\nc"), 0644)
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, p, 2, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "b\nc" {
			t.Errorf("got %q, want %q", buf.String(), "b\nc")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, filepath.Join(dir, "nope.log"), 0, false); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("follow stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 1, true); err != nil {
			t.Fatalf("TailLog follow: %v", err)
		}
		if buf.String() != "line 2000\n" {
			t.Errorf("got %q", buf.String())
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !ValidLevel("Warn") || ValidLevel("bogus") {
		t.Error("ValidLevel mismatch")
	}
	if !ValidFormat("logfmt") || ValidFormat("xml") {
		t.Error("ValidFormat mismatch")
	}
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "json", false, false)

	logger.Info("hidden")
	logger.Warn("slot write failed", "key", "taskpilot-tasks")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"slot write failed"`) || !strings.Contains(out, `"taskpilot-tasks"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, "taskpilot") {
		t.Errorf("expected prefix in output, got %q", out)
	}
}
