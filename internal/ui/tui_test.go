package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskpilot/internal/storage"
	"github.com/nibzard/taskpilot/internal/task"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func newTestModel(t *testing.T, mem *storage.Memory, opts ...Option) *model {
	t.Helper()
	store := task.NewStore(mem)
	m := newModel(store, append([]Option{WithPage(PageTasks)}, opts...)...)
	t.Cleanup(m.close)
	m.Update(hydratedMsg{err: store.Hydrate()})
	return m
}

func addTask(t *testing.T, m *model, title string) {
	t.Helper()
	press(m, "n")
	typeText(m, title)
	press(m, "enter")
	if m.form != nil {
		t.Fatalf("form still open after adding %q", title)
	}
}

func assertToast(t *testing.T, m *model, title string) {
	t.Helper()
	if m.toast == nil {
		t.Fatalf("no toast, want %q", title)
	}
	if m.toast.title != title {
		t.Fatalf("toast = %q, want %q", m.toast.title, title)
	}
}

func assertToastText(t *testing.T, m *model, title, description string) {
	t.Helper()
	assertToast(t, m, title)
	if m.toast.description != description {
		t.Fatalf("toast description = %q, want %q", m.toast.description, description)
	}
}

func TestAddTask(t *testing.T) {
	mem := storage.NewMemory()
	m := newTestModel(t, mem)

	press(m, "n")
	typeText(m, "Buy milk")
	press(m, "tab")
	typeText(m, "  two liters ")
	if cmd := press(m, "enter"); cmd == nil {
		t.Error("expected toast expiry command")
	}

	if m.store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.store.Len())
	}
	got := m.store.All()[0]
	if got.Title != "Buy milk" || got.Description != "two liters" {
		t.Errorf("task = %+v", got)
	}
	assertToastText(t, m, "Success", "Task added successfully!")
	if m.form != nil {
		t.Error("form should close after adding")
	}

	view := m.View()
	for _, want := range []string{"Buy milk", "two liters", "Task added successfully!", "Total Tasks"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAddEmptyTitle(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())

	press(m, "n")
	typeText(m, "x")
	press(m, "backspace")
	press(m, "space", "space", "enter")

	if m.store.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.store.Len())
	}
	assertToastText(t, m, "Error", "Please enter a task title")
	if m.form == nil {
		t.Fatal("form should stay open after a rejected title")
	}

	press(m, "esc")
	if m.form != nil {
		t.Error("esc should close the form")
	}
}

func TestToggleTask(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())
	addTask(t, m, "Write report")

	press(m, "space")
	if c := m.store.Counts(); c.Completed != 1 {
		t.Fatalf("Completed = %d, want 1", c.Completed)
	}
	assertToast(t, m, "Task completed!")
	if m.toast.description != "Great job!" {
		t.Errorf("description = %q", m.toast.description)
	}

	press(m, "x")
	if c := m.store.Counts(); c.Pending != 1 {
		t.Fatalf("Pending = %d, want 1", c.Pending)
	}
	assertToast(t, m, "Task marked incomplete")
}

func TestTabsAndEmptyStates(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())

	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("All tab should show empty state")
	}

	addTask(t, m, "Only task")
	press(m, "space")

	press(m, "right")
	if m.tab != TabPending {
		t.Fatalf("tab = %s, want Pending", m.tab)
	}
	if !strings.Contains(m.View(), "All caught up!") {
		t.Error("Pending tab should show caught-up state")
	}

	press(m, "right")
	view := m.View()
	if m.tab != TabDone || !strings.Contains(view, "Only task") {
		t.Errorf("Done tab should list the completed task")
	}
	if !strings.Contains(view, "Clear Completed") {
		t.Error("clear action should be offered when tasks are completed")
	}

	press(m, "right")
	if m.tab != TabAll {
		t.Errorf("tab should wrap to All, got %s", m.tab)
	}
	press(m, "left")
	if m.tab != TabDone {
		t.Errorf("left should wrap to Done, got %s", m.tab)
	}

	press(m, "space")
	press(m, "left", "left")
	if strings.Contains(m.View(), "Clear Completed") {
		t.Error("clear action should be hidden with no completed tasks")
	}
}

func TestEditTask(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())
	addTask(t, m, "Draft")
	before := m.store.All()[0]

	press(m, "e", "ctrl+u", "enter")
	assertToastText(t, m, "Error", "Task title cannot be empty")
	if m.store.All()[0].Title != "Draft" {
		t.Error("empty edit must not change the task")
	}

	typeText(m, "Final")
	press(m, "enter")
	assertToastText(t, m, "Success", "Task updated successfully")

	after := m.store.All()[0]
	if after.Title != "Final" || after.ID != before.ID || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("after edit = %+v, before = %+v", after, before)
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())
	addTask(t, m, "one")
	addTask(t, m, "two")
	addTask(t, m, "three")

	// Newest first: three, two, one.
	press(m, "space", "down", "space", "down")
	press(m, "d")
	assertToastText(t, m, "Task deleted", "Task has been removed successfully")
	if m.store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.store.Len())
	}
	if _, ok := m.selected(); !ok {
		t.Error("cursor should stay on a task after delete")
	}

	press(m, "c")
	assertToast(t, m, "Completed tasks cleared")
	if m.toast.description != "Removed 2 completed tasks" {
		t.Errorf("description = %q", m.toast.description)
	}
	if m.store.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.store.Len())
	}

	m.toast = nil
	press(m, "c")
	if m.toast != nil {
		t.Error("clear with nothing completed should do nothing")
	}
}

func TestLoadFailureToast(t *testing.T) {
	mem := storage.NewMemory()
	mem.Put(task.DefaultKey, "not json")
	m := newTestModel(t, mem)

	assertToast(t, m, "Error")
	if m.toast.description != "Failed to load saved tasks" {
		t.Errorf("description = %q", m.toast.description)
	}
	if m.store.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.store.Len())
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("expected empty dashboard after load failure")
	}
}

func TestSaveFailureToast(t *testing.T) {
	mem := storage.NewMemory()
	m := newTestModel(t, mem)
	mem.SetErr = errors.New("disk full")

	addTask(t, m, "kept in memory")
	assertToast(t, m, "Failed to save tasks")
	if m.store.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.store.Len())
	}
}

func TestToastExpiry(t *testing.T) {
	m := newTestModel(t, storage.NewMemory(), WithToastDuration(time.Minute))
	addTask(t, m, "a")
	first := m.toast.seq
	addTask(t, m, "b")

	m.Update(toastExpiredMsg{seq: first})
	if m.toast == nil {
		t.Fatal("stale expiry dismissed the newer toast")
	}
	m.Update(toastExpiredMsg{seq: m.toast.seq})
	if m.toast != nil {
		t.Error("toast should expire")
	}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t, storage.NewMemory(), WithPage(PageHome))

	if !strings.Contains(m.View(), "Get Started") {
		t.Error("home page should offer Get Started")
	}
	press(m, "enter")
	if m.page != PageTasks {
		t.Fatalf("enter on home: page = %s, want tasks", m.page)
	}
	press(m, "3")
	view := m.View()
	if m.page != PageAbout || !strings.Contains(view, "Our Mission") || !strings.Contains(view, "Privacy First") {
		t.Error("about page not shown")
	}

	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not shown")
	}
	press(m, "n")
	if m.form != nil {
		t.Error("keys other than ? and esc must not leak through help")
	}
	press(m, "esc")
	if m.showHelp {
		t.Error("esc should close help")
	}

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestQuitWhileEditing(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())
	press(m, "n")
	typeText(m, "q")
	if m.form == nil || m.form.Title() != "q" {
		t.Fatal("q must be typed into the form")
	}
	cmd := press(m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestChangeSubscription(t *testing.T) {
	mem := storage.NewMemory()
	store := task.NewStore(mem)
	m := newModel(store)
	defer m.close()

	if _, err := store.Create("external", ""); err != nil {
		t.Fatal(err)
	}
	msg := waitForChange(m.changes)()
	change, ok := msg.(changeMsg)
	if !ok || change.change.Op != task.OpCreate {
		t.Fatalf("msg = %#v, want create change", msg)
	}
	if _, cmd := m.Update(change); cmd == nil {
		t.Error("change handling should keep listening")
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in      string
		want    Page
		wantErr bool
	}{
		{"home", PageHome, false},
		{"Tasks", PageTasks, false},
		{" about ", PageAbout, false},
		{"settings", PageHome, true},
	}
	for _, tt := range tests {
		got, err := ParsePage(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePage(%q) = %v, %v", tt.in, got, err)
		}
	}
	if PageTasks.String() != "tasks" {
		t.Errorf("PageTasks.String() = %q", PageTasks.String())
	}
}

func TestKeysIgnoredUntilLoaded(t *testing.T) {
	saved := task.Task{
		ID:        "saved-1",
		Title:     "saved",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	data, err := task.Encode([]task.Task{saved})
	if err != nil {
		t.Fatal(err)
	}
	mem := storage.NewMemory()
	mem.Put(task.DefaultKey, data)

	store := task.NewStore(mem)
	m := newModel(store, WithPage(PageTasks))
	t.Cleanup(m.close)

	press(m, "n")
	typeText(m, "new")
	press(m, "enter", "c")
	if m.form != nil {
		t.Error("form opened before tasks were loaded")
	}
	if got, _, _ := mem.Get(task.DefaultKey); got != data {
		t.Fatalf("slot written before load: %s", got)
	}

	m.Update(hydratedMsg{err: store.Hydrate()})
	all := store.All()
	if len(all) != 1 || all[0].Title != "saved" {
		t.Fatalf("tasks after load = %+v", all)
	}

	addTask(t, m, "new")
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}
