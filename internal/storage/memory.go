package storage

import "sync"

// Memory is an in-memory Storage. Error fields can be set to inject
// failures.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string

	// GetErr, when set, is returned by every Get.
	GetErr error
	// SetErr, when set, is returned by every Set and the value is not stored.
	SetErr error

	sets int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Storage.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Storage.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	m.sets++
	return nil
}

// Close implements Storage.
func (m *Memory) Close() error {
	return nil
}

// Sets returns the number of successful writes.
func (m *Memory) Sets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// Put stores a value without counting it as a write. Tests use it to seed
// slot contents.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
