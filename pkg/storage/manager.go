package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager owns a media output directory and writes files into it
// atomically
type Manager struct {
	dir string
}

// NewManager creates a manager rooted at dir, creating the directory if
// needed
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the full path a named file would occupy
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Size returns the size of a named file, or false when it does not exist
func (m *Manager) Size(name string) (int64, bool) {
	info, err := os.Stat(m.Path(name))
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// Save streams r into the named file via a temp file rename, so a
// partial download never masquerades as a complete one.
func (m *Manager) Save(name string, r io.Reader) error {
	path := m.Path(name)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	return nil
}
