package task

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/taskpilot/internal/storage"
)

// DefaultKey is the slot that holds the collection.
const DefaultKey = "taskpilot-tasks"

// maxIDAttempts bounds retries when a generated id collides.
const maxIDAttempts = 8

// Op names the operation that produced a Change.
type Op string

const (
	OpHydrate        Op = "hydrate"
	OpCreate         Op = "create"
	OpUpdate         Op = "update"
	OpDelete         Op = "delete"
	OpClearCompleted Op = "clear-completed"
)

// Change is sent to subscribers after the collection changes.
type Change struct {
	Op  Op
	IDs []string // tasks created, updated, or removed
	// Err is a *LoadError for a failed hydrate or a *PersistError when
	// the slot write failed. The in-memory change has been applied either way.
	Err error
}

type listener struct {
	id int
	fn func(Change)
}

// Store owns the ordered task collection and its durable copy.
type Store struct {
	mu         sync.RWMutex
	storage    storage.Storage
	key        string
	schema     *Schema
	logger     *log.Logger
	now        func() time.Time
	newID      func() string
	tasks      []Task
	persistErr error

	listeners    []listener
	nextListener int
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key. Defaults to DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSchema sets the schema used to validate slot contents on Hydrate.
// A nil schema selects minimal validation.
func WithSchema(schema *Schema) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the id generator. Defaults to random UUIDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore returns an empty store backed by st. Call Hydrate to load the
// saved collection.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     DefaultKey,
		logger:  log.New(io.Discard),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if schema, err := DefaultSchema(); err == nil {
		s.schema = schema
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key.
func (s *Store) Key() string {
	return s.key
}

// Hydrate replaces the collection with the slot contents. An absent or
// empty slot yields an empty collection, which is then written back. Unreadable or
// malformed contents yield an empty collection and a *LoadError; the slot
// is left untouched.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	s.tasks = nil

	value, ok, err := s.storage.Get(s.key)
	if err != nil {
		loadErr := &LoadError{Key: s.key, Err: err}
		s.mu.Unlock()
		s.logger.Error("failed to load saved tasks", "key", s.key, "err", err)
		s.notify(Change{Op: OpHydrate, Err: loadErr})
		return loadErr
	}

	if !ok || value == "" {
		persistErr := s.persistLocked()
		s.mu.Unlock()
		s.logger.Debug("no saved tasks", "key", s.key)
		s.notify(Change{Op: OpHydrate, Err: persistErr})
		return nil
	}

	tasks, err := Decode(value, s.schema)
	if err != nil {
		loadErr := &LoadError{Key: s.key, Err: err}
		s.mu.Unlock()
		s.logger.Error("failed to load saved tasks", "key", s.key, "err", err)
		s.notify(Change{Op: OpHydrate, Err: loadErr})
		return loadErr
	}

	s.tasks = tasks
	ids := idsOf(tasks)
	s.mu.Unlock()
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(ids))
	s.notify(Change{Op: OpHydrate, IDs: ids})
	return nil
}

// Persist writes the whole collection to the slot. It returns a
// *PersistError when the write fails.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	data, err := Encode(s.tasks)
	if err == nil {
		err = s.storage.Set(s.key, data)
	}
	if err != nil {
		s.persistErr = &PersistError{Key: s.key, Err: err}
		s.logger.Warn("failed to save tasks", "key", s.key, "err", err)
		return s.persistErr
	}
	s.persistErr = nil
	return nil
}

// LastPersistError returns the error of the most recent write, or nil if
// it succeeded.
func (s *Store) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// Create adds a task with a fresh id at the front of the collection. A
// title that is blank after trimming returns a *ValidationError and
// changes nothing.
func (s *Store) Create(title, description string) (Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	id, err := s.uniqueIDLocked()
	if err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	t := Task{
		ID:          id,
		Title:       title,
		Description: NormalizeDescription(description),
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	s.tasks = append([]Task{t}, s.tasks...)
	persistErr := s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task created", "id", t.ID, "title", t.Title)
	s.notify(Change{Op: OpCreate, IDs: []string{t.ID}, Err: persistErr})
	return t, nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: no unique id after %d attempts", maxIDAttempts)
}

// Update replaces the task with the same ID as t. The stored CreatedAt is
// kept. It reports false and changes nothing when no such task exists.
func (s *Store) Update(t Task) bool {
	t.Title = ValidText(t.Title)
	t.Description = ValidText(t.Description)

	s.mu.Lock()
	i := s.indexLocked(t.ID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update ignored, unknown task", "id", t.ID)
		return false
	}
	t.CreatedAt = s.tasks[i].CreatedAt
	s.tasks[i] = t
	persistErr := s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task updated", "id", t.ID, "completed", t.Completed)
	s.notify(Change{Op: OpUpdate, IDs: []string{t.ID}, Err: persistErr})
	return true
}

// Delete removes the task with the given id. It reports false when no
// such task exists.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	persistErr := s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task deleted", "id", id)
	s.notify(Change{Op: OpDelete, IDs: []string{id}, Err: persistErr})
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	kept := make([]Task, 0, len(s.tasks))
	var removed []string
	for _, t := range s.tasks {
		if t.Completed {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.tasks = kept
	persistErr := s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("completed tasks cleared", "count", len(removed))
	s.notify(Change{Op: OpClearCompleted, IDs: removed, Err: persistErr})
	return len(removed)
}

// All returns a copy of the collection, newest first.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// PendingView returns the tasks not yet completed, in collection order.
func (s *Store) PendingView() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.tasks, false)
}

// CompletedView returns the completed tasks, in collection order.
func (s *Store) CompletedView() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.tasks, true)
}

// Counts returns total, pending and completed counts.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CountTasks(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Resolve finds a task by reference: an exact id, a 1-based position in
// All() order, or a unique id prefix. A number outside the list is tried
// as an id prefix.
func (s *Store) Resolve(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, fmt.Errorf("task reference required: %w", ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(ref); i >= 0 {
		return s.tasks[i], nil
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.tasks) {
		return s.tasks[n-1], nil
	}

	prefix := strings.ToLower(ref)
	var match *Task
	for i := range s.tasks {
		if !strings.HasPrefix(strings.ToLower(s.tasks[i].ID), prefix) {
			continue
		}
		if match != nil {
			return Task{}, fmt.Errorf("task %s: %w", ref, ErrAmbiguous)
		}
		match = &s.tasks[i]
	}
	if match == nil {
		return Task{}, fmt.Errorf("task %s: %w", ref, ErrNotFound)
	}
	return *match, nil
}

// Subscribe registers fn to be called after every change. Calls happen
// synchronously, after the store's lock is released, in registration
// order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.fn(c)
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func idsOf(tasks []Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
