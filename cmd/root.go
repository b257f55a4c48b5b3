// Package cmd implements the CLI command structure for taskpilot.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskpilot/internal/config"
	"github.com/nibzard/taskpilot/internal/logging"
	"github.com/nibzard/taskpilot/internal/storage"
	"github.com/nibzard/taskpilot/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
}

// Run executes the taskpilot CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskpilot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logging.NewFromConfig(stderr, cws.Config.LogLevel, cws.Config.LogFormat, cws.Config.LogTimestamps, cws.Config.LogCaller),
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand; with none, open the terminal UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "done":
		return a.setCompletedCommand("done", remainingArgs, true)
	case "undo":
		return a.setCompletedCommand("undo", remainingArgs, false)
	case "rm", "delete":
		return a.rmCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "stats":
		return a.statsCommand(remainingArgs)
	case "reset":
		return a.resetCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "tail":
		return a.tailCommand(ctx, remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStorage opens the configured backend, wrapped with the slot quota.
func (a *app) openStorage() (storage.Storage, error) {
	st, err := storage.Open(a.cfg.Backend, a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", a.cfg.Backend, err)
	}
	return storage.WithQuota(st, a.cfg.SlotQuotaBytes), nil
}

// loadSchema returns the configured schema, or the embedded one.
func (a *app) loadSchema() (*task.Schema, error) {
	if a.cfg.SchemaFile != "" {
		return task.LoadSchema(a.cfg.SchemaFile)
	}
	return task.DefaultSchema()
}

// openStore opens storage and builds a store over it, without hydrating.
// The returned func closes the storage.
func (a *app) openStore(logger *log.Logger) (*task.Store, func(), error) {
	schema, err := a.loadSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema: %w", err)
	}
	st, err := a.openStorage()
	if err != nil {
		return nil, nil, err
	}
	store := task.NewStore(st,
		task.WithKey(a.cfg.SlotKey),
		task.WithSchema(schema),
		task.WithLogger(logger),
	)
	closeFn := func() {
		if err := st.Close(); err != nil {
			a.logger.Warn("closing storage", "err", err)
		}
	}
	return store, closeFn, nil
}

// loadStore opens and hydrates the store. Read-only commands continue with
// an empty collection when the saved tasks cannot be loaded; mutating
// commands stop so they never overwrite a slot the user has not seen.
func (a *app) loadStore(mutating bool) (*task.Store, func(), error) {
	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Hydrate(); err != nil {
		var loadErr *task.LoadError
		if mutating || !errors.As(err, &loadErr) {
			closeFn()
			return nil, nil, fmt.Errorf("%w (run 'taskpilot doctor' for details, or 'taskpilot reset' to start over)", err)
		}
		fmt.Fprintf(a.stderr, "Warning: failed to load saved tasks: %v\n", err)
	} else if err := store.LastPersistError(); err != nil {
		// The slot was absent and initializing it failed.
		a.logger.Warn("could not initialize task storage", "err", err)
	}
	return store, closeFn, nil
}

// checkSaved turns a failed write behind the last mutation into an error.
func checkSaved(store *task.Store, action string) error {
	if err := store.LastPersistError(); err != nil {
		return fmt.Errorf("%s, but saving failed: %w", action, err)
	}
	return nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "taskpilot version %s\n", Version)
	return nil
}

// parseInterspersed parses fs while allowing flags after positional
// arguments, and returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		// Parse consumes a "--" terminator; everything after it is positional.
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskPilot - Navigate your productivity with precision")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskpilot [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                  Launch terminal UI (default command)")
	fmt.Fprintln(w, "  add <title...>       Add a task")
	fmt.Fprintln(w, "  ls [filter]          List tasks (all|pending|completed)")
	fmt.Fprintln(w, "  edit <ref>           Edit a task's title or description")
	fmt.Fprintln(w, "  done <ref>           Mark a task completed")
	fmt.Fprintln(w, "  undo <ref>           Mark a task pending")
	fmt.Fprintln(w, "  rm <ref>             Delete a task")
	fmt.Fprintln(w, "  clear                Remove all completed tasks")
	fmt.Fprintln(w, "  stats                Show task counts")
	fmt.Fprintln(w, "  reset                Back up unreadable saved tasks and start an empty list")
	fmt.Fprintln(w, "  config               Show effective configuration and where each value came from")
	fmt.Fprintln(w, "  doctor               Check configuration, storage and saved tasks")
	fmt.Fprintln(w, "  tail                 Show the latest terminal UI log")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <ref> is a list number from 'ls', a task id, or a unique id prefix.")
	fmt.Fprintln(w, "A number larger than the list is matched as an id prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Command Options:")
	fmt.Fprintln(w, "  tui   -page string    Start page (home|tasks|about)")
	fmt.Fprintln(w, "  add   -d string       Description")
	fmt.Fprintln(w, "  ls    -v              Show ids, dates and descriptions")
	fmt.Fprintln(w, "  edit  -title string   New title")
	fmt.Fprintln(w, "        -d string       New description")
	fmt.Fprintln(w, "  reset -force          Also reset a readable task list")
	fmt.Fprintln(w, "  config -example       Print an example config file")
	fmt.Fprintln(w, "  tail  -f, -follow     Follow the log (like tail -f)")
	fmt.Fprintln(w, "        -n int          Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment variables use the TASKPILOT_ prefix, e.g. TASKPILOT_DATA_DIR.\n")
}
