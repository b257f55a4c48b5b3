package task

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTitle is wrapped by the ValidationError returned for blank titles.
	ErrEmptyTitle = errors.New("title is required")

	// ErrNotFound is returned when a task reference matches nothing.
	ErrNotFound = errors.New("task not found")

	// ErrAmbiguous is returned when a task reference matches several tasks.
	ErrAmbiguous = errors.New("ambiguous task reference")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadError reports that the slot could not be read or parsed.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load tasks from %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// PersistError reports that the collection could not be written to the slot.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save tasks to %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}
