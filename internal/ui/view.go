package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskpilot/internal/task"
)

// createdLayout formats the created date on task cards.
const createdLayout = "Jan 2, 2006 3:04 PM"

// maxCards is the number of task cards shown when the terminal height is unknown.
const maxCards = 8

func (m *model) writeTasksPage(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Task Dashboard") + "\n")
	b.WriteString(subtitleStyle.Render("Manage your tasks and track your progress") + "\n\n")

	if !m.loaded {
		b.WriteString("Loading...\n\n")
		return
	}

	counts := m.store.Counts()
	writeStats(b, counts)

	if m.form != nil {
		writeForm(b, m.form)
	} else {
		b.WriteString(mutedStyle.Render("Press n to add a new task") + "\n\n")
	}

	writeTabs(b, m.tab, counts)

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		writeEmptyState(b, m.tab)
		return
	}
	m.writeTaskList(b, tasks)
}

func writeStats(b *strings.Builder, counts task.Counts) {
	stat := func(label string, n int) string {
		return statCardStyle.Render(mutedStyle.Render(label) + "\n" + headingStyle.Render(fmt.Sprintf("%d", n)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total Tasks", counts.Total),
		stat("Pending", counts.Pending),
		stat("Completed", counts.Completed),
	))
	b.WriteString("\n\n")
}

func writeTabs(b *strings.Builder, current Tab, counts task.Counts) {
	tabs := []struct {
		tab   Tab
		count int
	}{
		{TabAll, counts.Total},
		{TabPending, counts.Pending},
		{TabDone, counts.Completed},
	}
	for i, t := range tabs {
		style := tabStyle
		if t.tab == current {
			style = tabActiveStyle
		}
		b.WriteString(style.Render(t.tab.String()) + " " + badgeStyle.Render(fmt.Sprintf("(%d)", t.count)))
		if i < len(tabs)-1 {
			b.WriteString("   ")
		}
	}
	if counts.Completed > 0 {
		b.WriteString("      " + mutedStyle.Render("c: Clear Completed"))
	}
	b.WriteString("\n\n")
}

func writeEmptyState(b *strings.Builder, tab Tab) {
	var heading, text string
	switch tab {
	case TabPending:
		heading = "All caught up!"
		text = "No pending tasks. Great job staying on top of things!"
	case TabDone:
		heading = "No completed tasks"
		text = "Completed tasks will appear here. Start completing some tasks!"
	default:
		heading = "No tasks yet"
		text = "Create your first task to get started on your productivity journey!"
	}
	b.WriteString(cardStyle.Render(headingStyle.Render(heading)+"\n"+mutedStyle.Render(text)) + "\n\n")
}

func (m *model) cardsPerPage() int {
	if m.height <= 0 {
		return maxCards
	}
	// Header, stats, tabs, toast and footer take about 22 lines; a card takes 4-5.
	if n := (m.height - 22) / 5; n > 1 {
		return n
	}
	return 1
}

func (m *model) writeTaskList(b *strings.Builder, tasks []task.Task) {
	perPage := m.cardsPerPage()
	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := min(start+perPage, len(tasks))

	if start > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ↑ %d more", start)) + "\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderCard(tasks[i], i == m.cursor) + "\n")
	}
	if rest := len(tasks) - end; rest > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ↓ %d more", rest)) + "\n")
	}
	b.WriteString("\n")
}

func (m *model) renderCard(t task.Task, selected bool) string {
	check := "[ ]"
	title := headingStyle.Render(t.Title)
	if t.Completed {
		check = successStyle.Render("[x]")
		title = doneTitleStyle.Render(t.Title)
	}

	var body strings.Builder
	body.WriteString(check + " " + title)
	if t.Description != "" {
		body.WriteString("\n    " + mutedStyle.Render(t.Description))
	}
	body.WriteString("\n    " + mutedStyle.Render("Created "+t.CreatedAt.Local().Format(createdLayout)))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(body.String())
}

func writeToast(b *strings.Builder, t *toast) {
	if t == nil {
		return
	}
	text := headingStyle.Render(t.title)
	if t.description != "" {
		text += "  " + t.description
	}
	b.WriteString(toastStyles[t.kind].Render(text) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  1, 2, 3        Home, Tasks, About\n")
	b.WriteString("  enter          Get started (home) / edit task (tasks)\n")
	b.WriteString("  ←/→, h/l, tab  Switch tab: All, Pending, Done\n")
	b.WriteString("  ↑/↓, k/j       Move selection\n")
	b.WriteString("  n, a           Add a task\n")
	b.WriteString("  e              Edit selected task\n")
	b.WriteString("  space, x       Toggle complete\n")
	b.WriteString("  d, delete      Delete selected task\n")
	b.WriteString("  c              Clear completed tasks\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
}

func writeFooter(b *strings.Builder, page Page, editing bool) {
	switch {
	case editing:
		b.WriteString(mutedStyle.Render("enter save | esc cancel | ctrl+c quit"))
	case page == PageTasks:
		b.WriteString(mutedStyle.Render("n add | e edit | space toggle | d delete | ? help | q quit"))
	default:
		b.WriteString(mutedStyle.Render("1-3 navigate | ? help | q quit"))
	}
	b.WriteString("\n")
}
