package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/taskpilot/internal/task"
	"github.com/nibzard/taskpilot/internal/utils"
)

// listLayout is how ls -v prints createdAt.
const listLayout = "2006-01-02 15:04"

// addCommand creates a task from its arguments.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	description := fs.String("d", "", "Description")
	fs.StringVar(description, "description", "", "Description")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	store, closeStore, err := a.loadStore(true)
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := store.Create(strings.Join(positional, " "), *description)
	if err != nil {
		return err
	}
	if err := checkSaved(store, "task added"); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %q (%s)\n", created.Title, shortID(created.ID))
	return nil
}

// lsCommand lists tasks, newest first, numbered by position.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot ls", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Show ids, dates and descriptions")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	filter := "all"
	if len(positional) == 1 {
		filter = strings.ToLower(positional[0])
	}
	switch filter {
	case "all", "pending", "completed":
	case "done":
		filter = "completed"
	default:
		return fmt.Errorf("invalid filter %q (expected all|pending|completed)", filter)
	}

	store, closeStore, err := a.loadStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	all := store.All()
	if len(all) == 0 {
		fmt.Fprintln(a.stdout, "No tasks yet. Add one with 'taskpilot add <title>'.")
		return nil
	}

	shown := 0
	for i, t := range all {
		if filter == "pending" && t.Completed || filter == "completed" && !t.Completed {
			continue
		}
		printTask(a.stdout, i+1, t, *verbose)
		shown++
	}
	if shown == 0 {
		fmt.Fprintf(a.stdout, "No %s tasks.\n", filter)
	}
	return nil
}

func printTask(w io.Writer, n int, t task.Task, verbose bool) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%3d. [%s] %s\n", n, mark, t.Title)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "      ID: %s\n", t.ID)
	fmt.Fprintf(w, "      Created: %s\n", t.CreatedAt.Local().Format(listLayout))
	if t.Description != "" {
		fmt.Fprintf(w, "      Description: %s\n", utils.Truncate(t.Description, 120))
	}
}

// editCommand changes a task's title or description.
func (a *app) editCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot edit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	title := fs.String("title", "", "New title")
	fs.StringVar(title, "t", "", "New title")
	description := fs.String("d", "", "New description")
	fs.StringVar(description, "description", "", "New description")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("edit requires exactly one task reference")
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title", "t":
			set["title"] = true
		case "d", "description":
			set["description"] = true
		}
	})
	if len(set) == 0 {
		return fmt.Errorf("nothing to change (use -title or -d)")
	}

	store, closeStore, err := a.loadStore(true)
	if err != nil {
		return err
	}
	defer closeStore()

	t, err := store.Resolve(positional[0])
	if err != nil {
		return err
	}
	if set["title"] {
		normalized, err := task.NormalizeTitle(*title)
		if err != nil {
			return err
		}
		t.Title = normalized
	}
	if set["description"] {
		t.Description = task.NormalizeDescription(*description)
	}

	store.Update(t)
	if err := checkSaved(store, "task updated"); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated %q\n", t.Title)
	return nil
}

// setCompletedCommand marks the referenced tasks completed or pending.
func (a *app) setCompletedCommand(name string, args []string, completed bool) error {
	fs := flag.NewFlagSet("taskpilot "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%s requires a task reference", name)
	}

	store, closeStore, err := a.loadStore(true)
	if err != nil {
		return err
	}
	defer closeStore()

	// Resolve everything first so list numbers refer to the same listing.
	targets := make([]task.Task, 0, len(positional))
	for _, ref := range positional {
		t, err := store.Resolve(ref)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	for _, t := range targets {
		if t.Completed == completed {
			fmt.Fprintf(a.stdout, "Already %s: %q\n", t.Status(), t.Title)
			continue
		}
		t.Completed = completed
		store.Update(t)
		if err := checkSaved(store, "task changed"); err != nil {
			return err
		}
		if completed {
			fmt.Fprintf(a.stdout, "Completed %q\n", t.Title)
		} else {
			fmt.Fprintf(a.stdout, "Reopened %q\n", t.Title)
		}
	}
	return nil
}

// rmCommand deletes the referenced tasks.
func (a *app) rmCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot rm", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("rm requires a task reference")
	}

	store, closeStore, err := a.loadStore(true)
	if err != nil {
		return err
	}
	defer closeStore()

	targets := make([]task.Task, 0, len(positional))
	for _, ref := range positional {
		t, err := store.Resolve(ref)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	for _, t := range targets {
		if !store.Delete(t.ID) {
			continue
		}
		if err := checkSaved(store, "task deleted"); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted %q\n", t.Title)
	}
	return nil
}

// clearCommand removes every completed task.
func (a *app) clearCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, closeStore, err := a.loadStore(true)
	if err != nil {
		return err
	}
	defer closeStore()

	removed := store.ClearCompleted()
	if removed == 0 {
		fmt.Fprintln(a.stdout, "No completed tasks to clear.")
		return nil
	}
	if err := checkSaved(store, "completed tasks cleared"); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Cleared %d completed %s.\n", removed, plural(removed, "task", "tasks"))
	return nil
}

// resetCommand replaces the saved tasks with an empty list. Previous
// contents are copied to the "<key>.bak" slot first. A readable list with
// tasks in it is only reset with -force.
func (a *app) resetCommand(args []string) error {
	fs := flag.NewFlagSet("taskpilot reset", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	force := fs.Bool("force", false, "Also reset a readable task list")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	schema, err := a.loadSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	st, err := a.openStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	key := a.cfg.SlotKey
	value, ok, err := st.Get(key)
	if err != nil {
		return fmt.Errorf("reading saved tasks: %w", err)
	}
	if ok && value != "" {
		if tasks, decodeErr := task.Decode(value, schema); decodeErr == nil && len(tasks) > 0 && !*force {
			return fmt.Errorf("saved tasks load fine (%d %s); use 'taskpilot reset -force' to discard them",
				len(tasks), plural(len(tasks), "task", "tasks"))
		}
		backupKey := key + ".bak"
		if err := st.Set(backupKey, value); err != nil {
			return fmt.Errorf("backing up saved tasks: %w", err)
		}
		fmt.Fprintf(a.stdout, "Backed up previous contents to slot %q\n", backupKey)
	}

	store := task.NewStore(st, task.WithKey(key), task.WithSchema(schema), task.WithLogger(a.logger))
	if err := store.Persist(); err != nil {
		return err
	}
	a.logger.Info("task list reset", "key", key)
	fmt.Fprintln(a.stdout, "Task list reset.")
	return nil
}

// statsCommand prints the dashboard counts.
func (a *app) statsCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, closeStore, err := a.loadStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	counts := store.Counts()
	fmt.Fprintf(a.stdout, "Total:     %d\n", counts.Total)
	fmt.Fprintf(a.stdout, "Pending:   %d\n", counts.Pending)
	fmt.Fprintf(a.stdout, "Completed: %d\n", counts.Completed)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
