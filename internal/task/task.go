package task

import (
	"strings"
	"time"
)

// Task is a titled unit of work.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == ""
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// Status returns "completed" or "pending".
func (t Task) Status() string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}

// Counts summarizes a collection.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// CountTasks returns the summary counts for tasks.
func CountTasks(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// NormalizeTitle trims title and rejects it when nothing is left.
// Every boundary that builds or edits a task calls it.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(ValidText(title))
	if title == "" {
		return "", &ValidationError{Path: "title", Err: ErrEmptyTitle}
	}
	return title, nil
}

// NormalizeDescription trims description and repairs invalid UTF-8.
func NormalizeDescription(description string) string {
	return strings.TrimSpace(ValidText(description))
}

// ValidText replaces invalid UTF-8 sequences with U+FFFD, which is what
// the slot encoding would store for them.
func ValidText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// Filter returns the tasks whose completed flag equals completed, in order.
func Filter(tasks []Task, completed bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}
