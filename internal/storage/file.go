package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/taskpilot/internal/appdir"
)

// File stores each slot in its own file under Dir.
type File struct {
	Dir string
}

// NewFile creates dir if needed and returns a File store rooted there.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("slot dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &File{Dir: dir}, nil
}

// Path returns the file that backs key.
func (f *File) Path(key string) string {
	return appdir.SlotPath(f.Dir, key)
}

// Get implements Storage.
func (f *File) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements Storage. The value is written to a temp file in the same
// directory and renamed over the slot file.
func (f *File) Set(key, value string) error {
	path := f.Path(key)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace slot %s: %w", key, err)
	}
	return nil
}

// Close implements Storage.
func (f *File) Close() error {
	return nil
}
