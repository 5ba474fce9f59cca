package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager caches one open Store per database file for process lifetime.
// Connections are opened lazily on first use and reused afterwards; Close
// evicts a handle so its file can be deleted without a blocked handle.
type Manager struct {
	mu      sync.Mutex
	dataDir string
	handles map[string]*Store
}

// NewManager creates a manager rooted at dataDir. The directory is created
// on first open, not here.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir: dataDir,
		handles: make(map[string]*Store),
	}
}

// DataDir returns the directory holding the database files.
func (m *Manager) DataDir() string {
	return m.dataDir
}

// Open returns the cached handle for file, opening it on first use.
// file is a bare file name, not a path.
func (m *Manager) Open(file string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.handles[file]; ok {
		return s, nil
	}

	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s, err := Open(filepath.Join(m.dataDir, file))
	if err != nil {
		return nil, err
	}
	m.handles[file] = s
	return s, nil
}

// Close evicts and closes the cached handle for file, if any.
func (m *Manager) Close(file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.handles[file]
	if !ok {
		return nil
	}
	delete(m.handles, file)
	return s.Close()
}

// CloseAll closes every cached handle. Called on shutdown and full reset.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for file, s := range m.handles {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.handles, file)
	}
	return firstErr
}

// Remove closes the cached handle and deletes the database file along with
// its WAL and SHM sidecars. Sidecar removal failures are ignored; SQLite
// recreates them as needed.
func (m *Manager) Remove(file string) error {
	if err := m.Close(file); err != nil {
		return fmt.Errorf("close before remove: %w", err)
	}

	path := filepath.Join(m.dataDir, file)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", file, err)
	}
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	return nil
}
