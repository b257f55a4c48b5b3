package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskpilot/internal/task"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// taskForm is the add/edit form. editing holds the id of the task being
// edited and is empty when adding.
type taskForm struct {
	editing     string
	title       []rune
	description []rune
	focus       formField
}

func newAddForm() *taskForm {
	return &taskForm{}
}

func newEditForm(t task.Task) *taskForm {
	return &taskForm{
		editing:     t.ID,
		title:       []rune(t.Title),
		description: []rune(t.Description),
	}
}

func (f *taskForm) Title() string       { return string(f.title) }
func (f *taskForm) Description() string { return string(f.description) }

func (f *taskForm) active() *[]rune {
	if f.focus == fieldDescription {
		return &f.description
	}
	return &f.title
}

func (f *taskForm) handleKey(msg tea.KeyMsg) formAction {
	field := f.active()
	switch msg.Type {
	case tea.KeyEnter:
		return formSubmit
	case tea.KeyEsc:
		return formCancel
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if f.focus == fieldTitle {
			f.focus = fieldDescription
		} else {
			f.focus = fieldTitle
		}
	case tea.KeyBackspace:
		if n := len(*field); n > 0 {
			*field = (*field)[:n-1]
		}
	case tea.KeyCtrlU:
		*field = nil
	case tea.KeySpace:
		*field = append(*field, ' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r == '\n' || r == '\r' {
				r = ' '
			}
			*field = append(*field, r)
		}
	}
	return formNone
}

func writeForm(b *strings.Builder, f *taskForm) {
	heading := "Add New Task"
	if f.editing != "" {
		heading = "Edit Task"
	}
	b.WriteString(headingStyle.Render(heading) + "\n")

	render := func(label string, value []rune, focused bool, placeholder string) {
		style := fieldStyle
		text := string(value)
		if focused {
			style = focusedFieldStyle
			text += "█"
		}
		if len(value) == 0 && !focused {
			text = mutedStyle.Render(placeholder)
		}
		b.WriteString(label + "\n")
		b.WriteString(style.Render(text) + "\n")
	}
	render("Title", f.title, f.focus == fieldTitle, "What needs to be done?")
	render("Description", f.description, f.focus == fieldDescription, "Add more details (optional)")
	b.WriteString(mutedStyle.Render("enter save · tab switch field · ctrl+u clear · esc cancel") + "\n\n")
}
