package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/taskpilot/internal/config"
	"github.com/nibzard/taskpilot/internal/logging"
	"github.com/nibzard/taskpilot/internal/task"
	"github.com/nibzard/taskpilot/internal/ui"
)

// keepLogs is how many terminal UI log files survive pruning.
const keepLogs = 20

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	// Parse tui-specific flags
	fs := flag.NewFlagSet("taskpilot tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	pageName := fs.String("page", "tasks", "Start page (home|tasks|about)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	page, err := ui.ParsePage(*pageName)
	if err != nil {
		return err
	}

	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use 'taskpilot ls' or 'taskpilot help')")
	}

	// The UI owns the terminal, so logs go to a per-run file.
	runLog, err := logging.NewRunLogger(a.cfg.LogDir)
	if err != nil {
		return err
	}
	defer runLog.Close()
	if pruned, err := logging.PruneLogs(a.cfg.LogDir, keepLogs); err == nil && pruned > 0 {
		a.logger.Debug("pruned old logs", "count", pruned)
	}

	logger := logging.NewFromConfig(runLog.Writer(), a.cfg.LogLevel, a.cfg.LogFormat, true, a.cfg.LogCaller)
	logger.Info("taskpilot started", "version", Version, "backend", a.cfg.Backend, "key", a.cfg.SlotKey)

	store, closeStore, err := a.openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return ui.RunTUI(ctx, store,
		ui.WithPage(page),
		ui.WithToastDuration(a.cfg.ToastDuration()),
		ui.WithLogger(logger),
	)
}

// configCommand prints the effective configuration.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	if len(a.sources.Files) == 0 {
		fmt.Fprintln(a.stdout, "# no config file found")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(a.stdout, "# %s\n", f)
	}
	for _, e := range a.sources.Entries() {
		fmt.Fprintf(a.stdout, "%s = %q (%s)\n", e.Key, e.Value, e.Source)
	}
	return nil
}

// doctorCommand checks config, storage, and the saved collection.
func (a *app) doctorCommand(args []string) error {
	// Parse doctor-specific flags
	fs := flag.NewFlagSet("taskpilot doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.stdout
	cfg := a.cfg
	fmt.Fprintln(w, "TaskPilot Doctor")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	if logging.ValidLevel(cfg.LogLevel) {
		fmt.Fprintf(w, "  ✅ Log level: %s\n", cfg.LogLevel)
	} else {
		fmt.Fprintf(w, "  ❌ Log level: %s (expected debug|info|warn|error)\n", cfg.LogLevel)
		allOK = false
	}
	if logging.ValidFormat(cfg.LogFormat) {
		fmt.Fprintf(w, "  ✅ Log format: %s\n", cfg.LogFormat)
	} else {
		fmt.Fprintf(w, "  ❌ Log format: %s (expected text|json|logfmt)\n", cfg.LogFormat)
		allOK = false
	}
	fmt.Fprintln(w)

	// Data directory
	fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
	if err := checkWritableDir(cfg.DataDir); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ Writable")
	}
	fmt.Fprintln(w)

	// Schema
	schema, err := a.loadSchema()
	if cfg.SchemaFile != "" {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
	} else {
		fmt.Fprintln(w, "Schema: embedded")
	}
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Storage and the saved slot. Hydrate would initialize an absent slot,
	// so the slot is read and decoded directly.
	fmt.Fprintf(w, "Storage: %s (key %q)\n", cfg.Backend, cfg.SlotKey)
	st, err := a.openStorage()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		defer st.Close()
		fmt.Fprintln(w, "  ✅ Opened")

		value, ok, err := st.Get(cfg.SlotKey)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
			allOK = false
		case !ok || value == "":
			fmt.Fprintln(w, "  ⚠️  No saved tasks (will be created on first use)")
		case schema == nil:
			fmt.Fprintln(w, "  ⚠️  Saved tasks not validated (schema unavailable)")
		default:
			tasks, decodeErr := task.Decode(value, schema)
			if decodeErr != nil {
				fmt.Fprintln(w, "  ❌ Saved tasks are invalid:")
				for _, e := range flattenErrors(decodeErr) {
					fmt.Fprintf(w, "     - %v\n", e)
				}
				allOK = false
				break
			}
			counts := task.CountTasks(tasks)
			fmt.Fprintf(w, "  ✅ %d %s (%d pending, %d completed)\n",
				counts.Total, plural(counts.Total, "task", "tasks"), counts.Pending, counts.Completed)
			if cfg.SlotQuotaBytes > 0 {
				fmt.Fprintf(w, "  ✅ Size: %d of %d bytes\n", len(value), cfg.SlotQuotaBytes)
			}
			if *verbose {
				for i, t := range tasks {
					printTask(w, i+1, t, false)
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Log directory
	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created by the terminal UI)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. TaskPilot may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkWritableDir creates dir if needed and verifies a file can be written.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// flattenErrors splits joined errors into their parts.
func flattenErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}

// tailCommand tails the latest log file.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	// Parse tail-specific flags
	fs := flag.NewFlagSet("taskpilot tail", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(a.cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.stdout, "Tailing: %s\n", filepath.Clean(logPath))
	if *follow {
		fmt.Fprintln(a.stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(a.stdout)

	return logging.TailLog(ctx, a.stdout, logPath, *n, *follow)
}
