package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/taskpilot/internal/appdir"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrQuotaExceeded is returned by Set when a value is larger than the
// configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a durable key/value slot store.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been written.
	Get(key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(key, value string) error

	// Close releases resources held by the backend.
	Close() error
}

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// Open opens the named backend rooted at dataDir.
func Open(backend, dataDir string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return NewFile(appdir.SlotsPath(dataDir))
	case BackendSQLite:
		return NewSQLite(appdir.DatabasePath(dataDir))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s)", backend, strings.Join(Backends(), "|"))
	}
}
