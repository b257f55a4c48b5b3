// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskpilot/internal/task"
	"github.com/nibzard/taskpilot/internal/utils"
)

// changeBuffer bounds queued store notifications. Extra notifications are
// dropped; the view always reads current state from the store.
const changeBuffer = 16

// Tab selects which tasks the dashboard lists.
type Tab int

const (
	TabAll Tab = iota
	TabPending
	TabDone
)

func (t Tab) String() string {
	switch t {
	case TabPending:
		return "Pending"
	case TabDone:
		return "Done"
	default:
		return "All"
	}
}

// Option configures the TUI.
type Option func(*model)

// WithPage sets the page shown at startup.
func WithPage(p Page) Option {
	return func(m *model) {
		m.page = p
	}
}

// WithToastDuration sets how long notifications stay visible.
func WithToastDuration(d time.Duration) Option {
	return func(m *model) {
		if d > 0 {
			m.toastDuration = d
		}
	}
}

// WithLogger sets the logger used for UI events.
func WithLogger(logger *log.Logger) Option {
	return func(m *model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// RunTUI hydrates store and runs the terminal UI until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, store *task.Store, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := newModel(store, opts...)
	defer m.close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type model struct {
	store         *task.Store
	logger        *log.Logger
	toastDuration time.Duration
	changes       chan task.Change
	unsubscribe   func()

	page     Page
	tab      Tab
	cursor   int
	form     *taskForm
	loaded   bool
	showHelp bool
	toast    *toast
	toastSeq int
	width    int
	height   int
}

type hydratedMsg struct {
	err error
}

type changeMsg struct {
	change task.Change
}

func newModel(store *task.Store, opts ...Option) *model {
	m := &model{
		store:         store,
		logger:        log.New(io.Discard),
		toastDuration: 3 * time.Second,
		changes:       make(chan task.Change, changeBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribe = store.Subscribe(func(c task.Change) {
		select {
		case m.changes <- c:
		default:
		}
	})
	return m
}

func (m *model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(hydrateCmd(m.store), waitForChange(m.changes))
}

func hydrateCmd(store *task.Store) tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{err: store.Hydrate()}
	}
}

func waitForChange(ch <-chan task.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg{change: change}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case hydratedMsg:
		m.loaded = true
		m.clampCursor()
		if msg.err != nil {
			m.logger.Warn("continuing with an empty task list", "err", msg.err)
			return m, m.notify(toastError, "Error", "Failed to load saved tasks")
		}
		m.logger.Info("tasks loaded", "count", m.store.Len())
	case changeMsg:
		m.clampCursor()
		m.logger.Debug("store changed", "op", msg.change.Op, "ids", len(msg.change.IDs))
		return m, waitForChange(m.changes)
	case toastExpiredMsg:
		m.expireToast(msg.seq)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.form != nil {
		return m, m.handleFormKey(msg)
	}
	if m.showHelp {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "1":
		m.setPage(PageHome)
		return m, nil
	case "2":
		m.setPage(PageTasks)
		return m, nil
	case "3":
		m.setPage(PageAbout)
		return m, nil
	}

	switch m.page {
	case PageHome:
		if msg.Type == tea.KeyEnter {
			m.setPage(PageTasks)
		}
	case PageTasks:
		return m, m.handleTasksKey(msg)
	}
	return m, nil
}

func (m *model) setPage(p Page) {
	if m.page != p {
		m.logger.Debug("page", "from", m.page, "to", p)
	}
	m.page = p
}

func (m *model) handleTasksKey(msg tea.KeyMsg) tea.Cmd {
	// A write before the saved tasks are loaded would replace them.
	if !m.loaded {
		return nil
	}
	switch msg.String() {
	case "left", "h", "shift+tab":
		m.tab = (m.tab + 2) % 3
		m.cursor = 0
	case "right", "l", "tab":
		m.tab = (m.tab + 1) % 3
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.visibleTasks()) - 1
		m.clampCursor()
	case "n", "a":
		m.form = newAddForm()
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.form = newEditForm(t)
		}
	case " ", "x":
		return m.toggleSelected()
	case "d", "delete":
		return m.deleteSelected()
	case "c":
		return m.clearCompleted()
	}
	return nil
}

func (m *model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.form.handleKey(msg) {
	case formCancel:
		m.form = nil
	case formSubmit:
		if !m.loaded {
			return nil
		}
		if m.form.editing != "" {
			return m.submitEdit()
		}
		return m.submitAdd()
	}
	return nil
}

func (m *model) submitAdd() tea.Cmd {
	created, err := m.store.Create(m.form.Title(), m.form.Description())
	if err != nil {
		var ve *task.ValidationError
		if errors.As(err, &ve) {
			return m.notify(toastError, "Error", "Please enter a task title")
		}
		m.logger.Error("create task", "err", err)
		return m.notify(toastError, "Failed to add task", utils.Truncate(err.Error(), 60))
	}
	m.form = nil
	m.selectID(created.ID)
	return m.afterWrite(toastSuccess, "Success", "Task added successfully!")
}

func (m *model) submitEdit() tea.Cmd {
	current, ok := m.store.Get(m.form.editing)
	if !ok {
		m.form = nil
		return m.notify(toastError, "Task not found", "It may have been deleted")
	}
	title, err := task.NormalizeTitle(m.form.Title())
	if err != nil {
		return m.notify(toastError, "Error", "Task title cannot be empty")
	}
	current.Title = title
	current.Description = task.NormalizeDescription(m.form.Description())
	m.store.Update(current)
	m.form = nil
	return m.afterWrite(toastSuccess, "Success", "Task updated successfully")
}

func (m *model) toggleSelected() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	t = t.Toggled()
	m.store.Update(t)
	m.clampCursor()
	if t.Completed {
		return m.afterWrite(toastSuccess, "Task completed!", "Great job!")
	}
	return m.afterWrite(toastInfo, "Task marked incomplete", "Keep working on it")
}

func (m *model) deleteSelected() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	m.store.Delete(t.ID)
	m.clampCursor()
	return m.afterWrite(toastInfo, "Task deleted", "Task has been removed successfully")
}

func (m *model) clearCompleted() tea.Cmd {
	if m.store.Counts().Completed == 0 {
		return nil
	}
	removed := m.store.ClearCompleted()
	m.clampCursor()
	return m.afterWrite(toastSuccess, "Completed tasks cleared", fmt.Sprintf("Removed %d completed tasks", removed))
}

// afterWrite shows the success toast, or a save failure if the slot write
// behind the last mutation failed. The in-memory change stands either way.
func (m *model) afterWrite(kind toastKind, title, description string) tea.Cmd {
	if err := m.store.LastPersistError(); err != nil {
		return m.notify(toastError, "Failed to save tasks", utils.Truncate(err.Error(), 60))
	}
	return m.notify(kind, title, description)
}

func (m *model) visibleTasks() []task.Task {
	switch m.tab {
	case TabPending:
		return m.store.PendingView()
	case TabDone:
		return m.store.CompletedView()
	default:
		return m.store.All()
	}
}

func (m *model) selected() (task.Task, bool) {
	tasks := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *model) selectID(id string) {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *model) clampCursor() {
	n := len(m.visibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeNav(&b, m.page)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.page, false)
		return b.String()
	}

	switch m.page {
	case PageHome:
		writeHome(&b)
	case PageTasks:
		m.writeTasksPage(&b)
	case PageAbout:
		writeAbout(&b)
	}

	writeToast(&b, m.toast)
	writeFooter(&b, m.page, m.form != nil)
	return b.String()
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
